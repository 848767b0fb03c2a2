package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/slotbook/slotbook/internal/auth/domain"
	"github.com/slotbook/slotbook/internal/auth/password"
	"github.com/slotbook/slotbook/internal/clock"
	"github.com/slotbook/slotbook/internal/config"
	dbpkg "github.com/slotbook/slotbook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const minPasswordLen = 8

type Params struct {
	fx.In

	Log    *zap.Logger
	Clock  clock.Clock
	GenID  *snowflake.Node
	Config config.Config
	Repo   domain.Repository
}

type Service struct {
	log      *zap.Logger
	clock    clock.Clock
	genID    *snowflake.Node
	repo     domain.Repository
	secret   []byte
	tokenTTL time.Duration
	issuer   string
}

func NewService(p Params) domain.Service {
	ttl := time.Duration(p.Config.AuthTokenTTLMin) * time.Minute
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		log:      p.Log.Named("auth.service"),
		clock:    p.Clock,
		genID:    p.GenID,
		repo:     p.Repo,
		secret:   []byte(p.Config.AuthJWTSecret),
		tokenTTL: ttl,
		issuer:   p.Config.AppName,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.TokenResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLen {
		return nil, domain.ErrInvalidPassword
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, user); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return s.tokenResponse(user)
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Uniform failure: do not reveal whether the account exists.
		return nil, domain.ErrInvalidCredentials
	}
	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.tokenResponse(user)
}

func (s *Service) VerifyToken(ctx context.Context, raw string) (snowflake.ID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !token.Valid {
		return 0, domain.ErrInvalidToken
	}

	userID, err := snowflake.ParseString(claims.Subject)
	if err != nil {
		return 0, domain.ErrInvalidToken
	}
	return userID, nil
}

func (s *Service) GetUser(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByEmail(ctx, normalized)
}

func (s *Service) tokenResponse(user *domain.User) (*domain.TokenResponse, error) {
	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &domain.TokenResponse{
		Token:     signed,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
		User:      user,
	}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", domain.ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}
