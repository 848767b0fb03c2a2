package audit

import (
	"github.com/slotbook/slotbook/internal/audit/repository"
	"github.com/slotbook/slotbook/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
