package auth

import (
	"github.com/slotbook/slotbook/internal/auth/repository"
	"github.com/slotbook/slotbook/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
