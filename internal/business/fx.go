package business

import (
	"github.com/slotbook/slotbook/internal/business/repository"
	"github.com/slotbook/slotbook/internal/business/service"
	"go.uber.org/fx"
)

var Module = fx.Module("business.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
