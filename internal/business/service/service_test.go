package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/slotbook/slotbook/internal/authz"
	"github.com/slotbook/slotbook/internal/business/domain"
	businessrepository "github.com/slotbook/slotbook/internal/business/repository"
	"github.com/slotbook/slotbook/internal/clock"
	memberdomain "github.com/slotbook/slotbook/internal/member/domain"
	memberrepository "github.com/slotbook/slotbook/internal/member/repository"
	memberservice "github.com/slotbook/slotbook/internal/member/service"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
	policyrepository "github.com/slotbook/slotbook/internal/policy/repository"
	dbpkg "github.com/slotbook/slotbook/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	clock *clock.FakeClock
	node  *snowflake.Node
	authz authz.Service
	svc   domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Business{},
		&memberdomain.BusinessMember{},
		&policydomain.MemberPolicy{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	memberRepo := memberrepository.NewRepository(db)

	memberSvc := memberservice.NewService(memberservice.Params{
		DB:         db,
		Log:        zap.NewNop(),
		Clock:      fc,
		GenID:      node,
		Repo:       memberRepo,
		PolicyRepo: policyrepository.NewRepository(db),
	})
	authzSvc := authz.NewService(authz.Params{
		Log:     zap.NewNop(),
		Members: memberRepo,
	})
	svc := NewService(Params{
		DB:         db,
		Log:        zap.NewNop(),
		Clock:      fc,
		GenID:      node,
		Repo:       businessrepository.NewRepository(db),
		MemberRepo: memberRepo,
		MemberSvc:  memberSvc,
	})

	return &fixture{db: db, clock: fc, node: node, authz: authzSvc, svc: svc}
}

func TestCreateBootstrapsOwnerMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ownerID := f.node.Generate()

	biz, err := f.svc.Create(ctx, ownerID, domain.CreateRequest{Name: "Acme Cuts"})
	require.NoError(t, err)
	require.Equal(t, "acme-cuts", biz.Slug)
	require.Equal(t, ownerID, biz.OwnerID)

	// The bootstrap owner holds write on every feature.
	for _, feature := range policydomain.Features() {
		canWrite, err := f.authz.CanWrite(ctx, ownerID, biz.ID, feature)
		require.NoError(t, err)
		require.True(t, canWrite, "feature %s", feature)
	}

	isOwner, err := f.authz.IsOwner(ctx, ownerID, biz.ID)
	require.NoError(t, err)
	require.True(t, isOwner)
}

func TestCreateSlugCollisionGetsSuffix(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.node.Generate(), domain.CreateRequest{Name: "Acme Cuts"})
	require.NoError(t, err)

	second, err := f.svc.Create(ctx, f.node.Generate(), domain.CreateRequest{Name: "Acme Cuts"})
	require.NoError(t, err)
	require.NotEqual(t, first.Slug, second.Slug)
	require.Contains(t, second.Slug, "acme-cuts-")
}

func TestCreateRejectsBadTimezone(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.node.Generate(), domain.CreateRequest{
		Name:     "Acme",
		Timezone: "Mars/Olympus",
	})
	require.ErrorIs(t, err, domain.ErrInvalidTimezone)
}

func TestGetBySlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	biz, err := f.svc.Create(ctx, f.node.Generate(), domain.CreateRequest{Name: "Glow Studio"})
	require.NoError(t, err)

	found, err := f.svc.GetBySlug(ctx, "glow-studio")
	require.NoError(t, err)
	require.Equal(t, biz.ID, found.ID)

	_, err = f.svc.GetBySlug(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrBusinessNotFound)
}

func TestDefaultForUserIsEarliestActiveMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.node.Generate()

	first, err := f.svc.Create(ctx, userID, domain.CreateRequest{Name: "First Shop"})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	second, err := f.svc.Create(ctx, userID, domain.CreateRequest{Name: "Second Shop"})
	require.NoError(t, err)

	def, err := f.svc.DefaultForUser(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, first.ID, def.ID)

	// Leaving the first business shifts the default to the next oldest.
	var membership memberdomain.BusinessMember
	require.NoError(t, f.db.Where("business_id = ? AND user_id = ?", first.ID, userID).First(&membership).Error)
	require.NoError(t, f.db.Model(&memberdomain.BusinessMember{}).
		Where("id = ?", membership.ID).
		Update("status", memberdomain.StatusLeft).Error)

	def, err = f.svc.DefaultForUser(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, second.ID, def.ID)
}

func TestUpdateSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	biz, err := f.svc.Create(ctx, f.node.Generate(), domain.CreateRequest{Name: "Acme"})
	require.NoError(t, err)

	updated, err := f.svc.UpdateSettings(ctx, biz.ID, map[string]any{"booking_window_days": float64(30)})
	require.NoError(t, err)
	require.Equal(t, float64(30), updated.Settings["booking_window_days"])
}
