package authz

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/slotbook/slotbook/internal/clock"
	memberdomain "github.com/slotbook/slotbook/internal/member/domain"
	memberrepository "github.com/slotbook/slotbook/internal/member/repository"
	memberservice "github.com/slotbook/slotbook/internal/member/service"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
	policyrepository "github.com/slotbook/slotbook/internal/policy/repository"
	policyservice "github.com/slotbook/slotbook/internal/policy/service"
	dbpkg "github.com/slotbook/slotbook/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	node      *snowflake.Node
	memberSvc memberdomain.Service
	policySvc policydomain.Service
	authz     Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&memberdomain.BusinessMember{}, &policydomain.MemberPolicy{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	memberRepo := memberrepository.NewRepository(db)
	policyRepo := policyrepository.NewRepository(db)

	memberSvc := memberservice.NewService(memberservice.Params{
		DB:         db,
		Log:        zap.NewNop(),
		Clock:      fc,
		GenID:      node,
		Repo:       memberRepo,
		PolicyRepo: policyRepo,
	})
	policySvc := policyservice.NewService(policyservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: fc,
		GenID: node,
		Repo:  policyRepo,
	})
	authzSvc := NewService(Params{
		Log:     zap.NewNop(),
		Members: memberRepo,
	})

	return &fixture{db: db, node: node, memberSvc: memberSvc, policySvc: policySvc, authz: authzSvc}
}

func (f *fixture) createMember(t *testing.T, businessID snowflake.ID, role string) *memberdomain.BusinessMember {
	t.Helper()
	member, err := f.memberSvc.Create(context.Background(), memberdomain.CreateRequest{
		UserID:     f.node.Generate(),
		BusinessID: businessID,
		Role:       role,
	})
	require.NoError(t, err)
	return member
}

func TestAccessLevelWithoutMembership(t *testing.T) {
	f := newFixture(t)

	level, err := f.authz.AccessLevel(context.Background(), f.node.Generate(), f.node.Generate(), policydomain.FeatureBookings)
	require.NoError(t, err)
	require.Equal(t, policydomain.AccessDisabled, level)
}

func TestLeftMembershipIsDisabledForEveryFeature(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	businessID := f.node.Generate()
	member := f.createMember(t, businessID, policydomain.RoleOwner)

	ok, err := f.authz.CanWrite(ctx, member.UserID, businessID, policydomain.FeatureSettings)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, f.memberSvc.Remove(ctx, member.ID))

	// Policy rows still carry write, but the status gate wins.
	for _, feature := range policydomain.Features() {
		level, err := f.authz.AccessLevel(ctx, member.UserID, businessID, feature)
		require.NoError(t, err)
		require.Equal(t, policydomain.AccessDisabled, level, "feature %s", feature)
	}
}

func TestMissingPolicyRowIsDisabledNotDefaulted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	businessID := f.node.Generate()
	member := f.createMember(t, businessID, policydomain.RoleOwner)

	// Delete one row. An owner would default to write, but check-time
	// never consults role defaults.
	require.NoError(t, f.db.
		Where("business_member_id = ? AND feature = ?", member.ID, policydomain.FeatureAnalytics).
		Delete(&policydomain.MemberPolicy{}).Error)

	level, err := f.authz.AccessLevel(ctx, member.UserID, businessID, policydomain.FeatureAnalytics)
	require.NoError(t, err)
	require.Equal(t, policydomain.AccessDisabled, level)

	canRead, err := f.authz.CanRead(ctx, member.UserID, businessID, policydomain.FeatureAnalytics)
	require.NoError(t, err)
	require.False(t, canRead)
}

func TestUpsertTakesEffectOnNextCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	businessID := f.node.Generate()
	member := f.createMember(t, businessID, policydomain.RoleMember)

	canWrite, err := f.authz.CanWrite(ctx, member.UserID, businessID, policydomain.FeatureBookings)
	require.NoError(t, err)
	require.False(t, canWrite)

	_, err = f.policySvc.Upsert(ctx, member.ID, policydomain.FeatureBookings, policydomain.AccessWrite)
	require.NoError(t, err)

	canWrite, err = f.authz.CanWrite(ctx, member.UserID, businessID, policydomain.FeatureBookings)
	require.NoError(t, err)
	require.True(t, canWrite)

	// Downgrade is immediate too: no caching layer to go stale.
	_, err = f.policySvc.Upsert(ctx, member.ID, policydomain.FeatureBookings, policydomain.AccessRead)
	require.NoError(t, err)

	canWrite, err = f.authz.CanWrite(ctx, member.UserID, businessID, policydomain.FeatureBookings)
	require.NoError(t, err)
	require.False(t, canWrite)

	canRead, err := f.authz.CanRead(ctx, member.UserID, businessID, policydomain.FeatureBookings)
	require.NoError(t, err)
	require.True(t, canRead)
}

func TestIsOwnerIsARoleLabelCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	businessID := f.node.Generate()
	owner := f.createMember(t, businessID, policydomain.RoleOwner)
	admin := f.createMember(t, businessID, policydomain.RoleAdmin)

	isOwner, err := f.authz.IsOwner(ctx, owner.UserID, businessID)
	require.NoError(t, err)
	require.True(t, isOwner)

	isOwner, err = f.authz.IsOwner(ctx, admin.UserID, businessID)
	require.NoError(t, err)
	require.False(t, isOwner)

	// Policies cannot downgrade the owner label.
	_, err = f.policySvc.Upsert(ctx, owner.ID, policydomain.FeatureSettings, policydomain.AccessDisabled)
	require.NoError(t, err)

	isOwner, err = f.authz.IsOwner(ctx, owner.UserID, businessID)
	require.NoError(t, err)
	require.True(t, isOwner)

	require.NoError(t, f.memberSvc.Remove(ctx, owner.ID))
	isOwner, err = f.authz.IsOwner(ctx, owner.UserID, businessID)
	require.NoError(t, err)
	require.False(t, isOwner)
}

func TestPermissionsBulkResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	businessID := f.node.Generate()
	member := f.createMember(t, businessID, policydomain.RoleStaff)

	perms, err := f.authz.Permissions(ctx, member.UserID, businessID)
	require.NoError(t, err)
	require.NotNil(t, perms)
	require.Equal(t, member.ID, perms.Membership.ID)
	require.Len(t, perms.Permissions, len(policydomain.Features()))
	require.Equal(t, policydomain.AccessWrite, perms.Permissions[policydomain.FeatureBookings])
	require.Equal(t, policydomain.AccessDisabled, perms.Permissions[policydomain.FeatureSettings])

	none, err := f.authz.Permissions(ctx, f.node.Generate(), businessID)
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestRequireReturnsUniformForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	businessID := f.node.Generate()
	member := f.createMember(t, businessID, policydomain.RoleMember)

	err := f.authz.Require(ctx, member.UserID, businessID, policydomain.FeatureSettings, policydomain.AccessWrite)
	require.ErrorIs(t, err, ErrForbidden)

	err = f.authz.Require(ctx, member.UserID, businessID, policydomain.FeatureBookings, policydomain.AccessRead)
	require.NoError(t, err)
}

func TestAccessLevelRejectsUnknownFeature(t *testing.T) {
	f := newFixture(t)

	_, err := f.authz.AccessLevel(context.Background(), f.node.Generate(), f.node.Generate(), policydomain.Feature("billing"))
	require.ErrorIs(t, err, ErrInvalidFeature)
}
