package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/slotbook/slotbook/internal/auth/domain"
	authrepository "github.com/slotbook/slotbook/internal/auth/repository"
	"github.com/slotbook/slotbook/internal/clock"
	"github.com/slotbook/slotbook/internal/config"
	dbpkg "github.com/slotbook/slotbook/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	db, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := NewService(Params{
		Log:   zap.NewNop(),
		Clock: fc,
		GenID: node,
		Config: config.Config{
			AppName:         "slotbook",
			AuthJWTSecret:   "test-secret",
			AuthTokenTTLMin: 60,
		},
		Repo: authrepository.NewRepository(db),
	})
	return svc, fc
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, domain.RegisterRequest{
		Email:    "Jo@Example.com",
		Name:     "Jo",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "jo@example.com", resp.User.Email)

	login, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "jo@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	userID, err := svc.VerifyToken(ctx, login.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, userID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{Email: "jo@example.com", Name: "Jo", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, domain.RegisterRequest{Email: "JO@example.com", Name: "Jo 2", Password: "another pass"})
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), domain.RegisterRequest{Email: "jo@example.com", Name: "Jo", Password: "short"})
	require.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{Email: "jo@example.com", Name: "Jo", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "jo@example.com", Password: "wrong horse"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "correct horse"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyTokenExpiry(t *testing.T) {
	svc, fc := newService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, domain.RegisterRequest{Email: "jo@example.com", Name: "Jo", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.VerifyToken(ctx, resp.Token)
	require.NoError(t, err)

	fc.Advance(61 * time.Minute)
	_, err = svc.VerifyToken(ctx, resp.Token)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyTokenGarbage(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.VerifyToken(context.Background(), "not-a-token")
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}
