package policy

import (
	"github.com/slotbook/slotbook/internal/policy/repository"
	"github.com/slotbook/slotbook/internal/policy/service"
	"go.uber.org/fx"
)

var Module = fx.Module("policy.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
