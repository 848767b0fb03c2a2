package invitation

import (
	"github.com/slotbook/slotbook/internal/invitation/repository"
	"github.com/slotbook/slotbook/internal/invitation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invitation.service",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
