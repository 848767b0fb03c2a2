package migration

import (
	auditdomain "github.com/slotbook/slotbook/internal/audit/domain"
	authdomain "github.com/slotbook/slotbook/internal/auth/domain"
	bookingdomain "github.com/slotbook/slotbook/internal/booking/domain"
	businessdomain "github.com/slotbook/slotbook/internal/business/domain"
	"github.com/slotbook/slotbook/internal/config"
	invitationdomain "github.com/slotbook/slotbook/internal/invitation/domain"
	memberdomain "github.com/slotbook/slotbook/internal/member/domain"
	offeringdomain "github.com/slotbook/slotbook/internal/offering/domain"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// sqlite and mysql development setups: AutoMigrate derives
			// the schema, partial indexes included where the dialect
			// supports them. The duplicate-pending check also holds
			// through the application-level precondition.
			return conn.AutoMigrate(
				&authdomain.User{},
				&businessdomain.Business{},
				&memberdomain.BusinessMember{},
				&policydomain.MemberPolicy{},
				&invitationdomain.Invitation{},
				&auditdomain.AuditLog{},
				&offeringdomain.Offering{},
				&bookingdomain.Booking{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
