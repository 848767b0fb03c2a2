package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/slotbook/slotbook/internal/audit/domain"
	auditrepository "github.com/slotbook/slotbook/internal/audit/repository"
	"github.com/slotbook/slotbook/internal/clock"
	dbpkg "github.com/slotbook/slotbook/pkg/db"
	"github.com/slotbook/slotbook/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func paginationOf(size int32, token string) pagination.Pagination {
	return pagination.Pagination{PageSize: size, PageToken: token}
}

func newService(t *testing.T) (domain.Service, *clock.FakeClock, *snowflake.Node) {
	t.Helper()

	db, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.AuditLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: fc,
		GenID: node,
		Repo:  auditrepository.Provide(),
	})
	return svc, fc, node
}

func TestRecordAndList(t *testing.T) {
	svc, fc, node := newService(t)
	ctx := context.Background()

	businessID := node.Generate()
	userID := node.Generate()
	targetID := "invitation-1"

	require.NoError(t, svc.Record(ctx, &businessID, &userID, domain.ActionInviteMember, "invitation", &targetID, map[string]any{
		"email": "staff@example.com",
	}))
	fc.Advance(time.Minute)
	require.NoError(t, svc.Record(ctx, &businessID, &userID, domain.ActionAcceptInvitation, "invitation", &targetID, nil))

	resp, err := svc.List(ctx, domain.ListAuditLogRequest{BusinessID: businessID})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 2)
	// Newest first.
	require.Equal(t, domain.ActionAcceptInvitation, resp.AuditLogs[0].Action)
	require.Equal(t, domain.ActionInviteMember, resp.AuditLogs[1].Action)

	filtered, err := svc.List(ctx, domain.ListAuditLogRequest{
		BusinessID: businessID,
		Action:     domain.ActionInviteMember,
	})
	require.NoError(t, err)
	require.Len(t, filtered.AuditLogs, 1)
	require.Equal(t, "staff@example.com", filtered.AuditLogs[0].Metadata["email"])
}

func TestListPaginates(t *testing.T) {
	svc, fc, node := newService(t)
	ctx := context.Background()

	businessID := node.Generate()
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Record(ctx, &businessID, nil, domain.ActionPolicyUpdated, "member", nil, nil))
		fc.Advance(time.Second)
	}

	page1, err := svc.List(ctx, domain.ListAuditLogRequest{
		BusinessID: businessID,
		Pagination: paginationOf(2, ""),
	})
	require.NoError(t, err)
	require.Len(t, page1.AuditLogs, 2)
	require.True(t, page1.HasMore)
	require.NotEmpty(t, page1.NextPageToken)

	page2, err := svc.List(ctx, domain.ListAuditLogRequest{
		BusinessID: businessID,
		Pagination: paginationOf(2, page1.NextPageToken),
	})
	require.NoError(t, err)
	require.Len(t, page2.AuditLogs, 2)
	require.True(t, page2.HasMore)

	page3, err := svc.List(ctx, domain.ListAuditLogRequest{
		BusinessID: businessID,
		Pagination: paginationOf(2, page2.NextPageToken),
	})
	require.NoError(t, err)
	require.Len(t, page3.AuditLogs, 1)
	require.False(t, page3.HasMore)

	// No row appears on two pages.
	seen := map[snowflake.ID]bool{}
	for _, page := range [][]domain.AuditLog{page1.AuditLogs, page2.AuditLogs, page3.AuditLogs} {
		for _, entry := range page {
			require.False(t, seen[entry.ID])
			seen[entry.ID] = true
		}
	}
}

func TestListRejectsBadInput(t *testing.T) {
	svc, _, node := newService(t)
	ctx := context.Background()

	_, err := svc.List(ctx, domain.ListAuditLogRequest{})
	require.ErrorIs(t, err, domain.ErrInvalidBusiness)

	businessID := node.Generate()
	_, err = svc.List(ctx, domain.ListAuditLogRequest{
		BusinessID: businessID,
		Pagination: paginationOf(10, "%%%not-base64%%%"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidPageToken)

	start := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	_, err = svc.List(ctx, domain.ListAuditLogRequest{
		BusinessID: businessID,
		StartAt:    &start,
		EndAt:      &end,
	})
	require.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}
