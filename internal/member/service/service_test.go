package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/slotbook/slotbook/internal/clock"
	"github.com/slotbook/slotbook/internal/member/domain"
	memberrepository "github.com/slotbook/slotbook/internal/member/repository"
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
	svc   domain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.BusinessMember{}, &policydomain.MemberPolicy{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	svc := NewService(Params{
		DB:         db,
		Log:        zap.NewNop(),
		Clock:      fc,
		GenID:      node,
		Repo:       memberrepository.NewRepository(db),
		PolicyRepo: policyrepository.NewRepository(db),
	})

	return &fixture{db: db, clock: fc, node: node, svc: svc}
}

func TestCreateSeedsFullPolicySet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	userID := f.node.Generate()
	businessID := f.node.Generate()

	member, err := f.svc.Create(ctx, domain.CreateRequest{
		UserID:     userID,
		BusinessID: businessID,
		Role:       policydomain.RoleStaff,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, member.Status)

	var policies []policydomain.MemberPolicy
	require.NoError(t, f.db.Where("business_member_id = ?", member.ID).Find(&policies).Error)
	require.Len(t, policies, len(policydomain.Features()))

	byFeature := map[policydomain.Feature]policydomain.AccessLevel{}
	for _, p := range policies {
		byFeature[p.Feature] = p.Access
	}
	require.Equal(t, policydomain.AccessWrite, byFeature[policydomain.FeatureBookings])
	require.Equal(t, policydomain.AccessRead, byFeature[policydomain.FeatureServices])
	require.Equal(t, policydomain.AccessDisabled, byFeature[policydomain.FeatureSettings])
	require.Equal(t, policydomain.AccessDisabled, byFeature[policydomain.FeatureMembers])
}

func TestCreateDuplicateMembershipLeavesOriginalUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	userID := f.node.Generate()
	businessID := f.node.Generate()

	original, err := f.svc.Create(ctx, domain.CreateRequest{
		UserID:     userID,
		BusinessID: businessID,
		Role:       policydomain.RoleOwner,
	})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, domain.CreateRequest{
		UserID:     userID,
		BusinessID: businessID,
		Role:       policydomain.RoleMember,
	})
	require.ErrorIs(t, err, domain.ErrDuplicateMembership)

	var count int64
	require.NoError(t, f.db.Model(&domain.BusinessMember{}).
		Where("business_id = ? AND user_id = ?", businessID, userID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)

	var policies []policydomain.MemberPolicy
	require.NoError(t, f.db.Where("business_member_id = ?", original.ID).Find(&policies).Error)
	require.Len(t, policies, len(policydomain.Features()))
	for _, p := range policies {
		require.Equal(t, policydomain.AccessWrite, p.Access, "feature %s", p.Feature)
	}
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		UserID:     f.node.Generate(),
		BusinessID: f.node.Generate(),
		Role:       "superuser",
	})
	require.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestRemoveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	member, err := f.svc.Create(ctx, domain.CreateRequest{
		UserID:     f.node.Generate(),
		BusinessID: f.node.Generate(),
		Role:       policydomain.RoleMember,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Remove(ctx, member.ID))
	require.NoError(t, f.svc.Remove(ctx, member.ID))

	found, err := f.svc.Find(ctx, member.UserID, member.BusinessID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusLeft, found.Status)

	// Soft removal: the policy rows survive, inert behind the status gate.
	var policies []policydomain.MemberPolicy
	require.NoError(t, f.db.Where("business_member_id = ?", member.ID).Find(&policies).Error)
	require.Len(t, policies, len(policydomain.Features()))
}

func TestRemoveUnknownMembership(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Remove(context.Background(), f.node.Generate())
	require.ErrorIs(t, err, domain.ErrMembershipNotFound)
}

func TestListForUserOrdersByCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	userID := f.node.Generate()
	first := f.node.Generate()
	second := f.node.Generate()

	_, err := f.svc.Create(ctx, domain.CreateRequest{UserID: userID, BusinessID: first, Role: policydomain.RoleOwner})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.svc.Create(ctx, domain.CreateRequest{UserID: userID, BusinessID: second, Role: policydomain.RoleStaff})
	require.NoError(t, err)

	memberships, err := f.svc.ListForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, memberships, 2)
	require.Equal(t, first, memberships[0].BusinessID)
	require.Equal(t, second, memberships[1].BusinessID)

	// Left memberships drop out of the list entirely.
	require.NoError(t, f.svc.Remove(ctx, memberships[0].ID))
	memberships, err = f.svc.ListForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	require.Equal(t, second, memberships[0].BusinessID)
}
