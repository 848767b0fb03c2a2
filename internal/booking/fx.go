package booking

import (
	"github.com/slotbook/slotbook/internal/booking/repository"
	"github.com/slotbook/slotbook/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
