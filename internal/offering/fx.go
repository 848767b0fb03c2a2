package offering

import (
	"github.com/slotbook/slotbook/internal/offering/repository"
	"github.com/slotbook/slotbook/internal/offering/service"
	"go.uber.org/fx"
)

var Module = fx.Module("offering.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
