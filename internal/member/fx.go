package member

import (
	"github.com/slotbook/slotbook/internal/member/repository"
	"github.com/slotbook/slotbook/internal/member/service"
	"go.uber.org/fx"
)

var Module = fx.Module("member.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
