package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slotbook/slotbook/internal/audit"
	auditdomain "github.com/slotbook/slotbook/internal/audit/domain"
	"github.com/slotbook/slotbook/internal/auth"
	authdomain "github.com/slotbook/slotbook/internal/auth/domain"
	"github.com/slotbook/slotbook/internal/authz"
	"github.com/slotbook/slotbook/internal/booking"
	bookingdomain "github.com/slotbook/slotbook/internal/booking/domain"
	"github.com/slotbook/slotbook/internal/business"
	businessdomain "github.com/slotbook/slotbook/internal/business/domain"
	"github.com/slotbook/slotbook/internal/config"
	"github.com/slotbook/slotbook/internal/invitation"
	invitationdomain "github.com/slotbook/slotbook/internal/invitation/domain"
	"github.com/slotbook/slotbook/internal/member"
	memberdomain "github.com/slotbook/slotbook/internal/member/domain"
	"github.com/slotbook/slotbook/internal/observability"
	"github.com/slotbook/slotbook/internal/offering"
	offeringdomain "github.com/slotbook/slotbook/internal/offering/domain"
	"github.com/slotbook/slotbook/internal/policy"
	policydomain "github.com/slotbook/slotbook/internal/policy/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	observability.Module,
	audit.Module,
	auth.Module,
	policy.Module,
	member.Module,
	authz.Module,
	invitation.Module,
	business.Module,
	offering.Module,
	booking.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	genID         *snowflake.Node
	authSvc       authdomain.Service
	authzSvc      authz.Service
	auditSvc      auditdomain.Service
	policySvc     policydomain.Service
	memberSvc     memberdomain.Service
	memberRepo    memberdomain.Repository
	invitationSvc invitationdomain.Service
	businessSvc   businessdomain.Service
	offeringSvc   offeringdomain.Service
	bookingSvc    bookingdomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	AuthSvc       authdomain.Service
	AuthzSvc      authz.Service
	AuditSvc      auditdomain.Service
	PolicySvc     policydomain.Service
	MemberSvc     memberdomain.Service
	MemberRepo    memberdomain.Repository
	InvitationSvc invitationdomain.Service
	BusinessSvc   businessdomain.Service
	OfferingSvc   offeringdomain.Service
	BookingSvc    bookingdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		authSvc:       p.AuthSvc,
		authzSvc:      p.AuthzSvc,
		auditSvc:      p.AuditSvc,
		policySvc:     p.PolicySvc,
		memberSvc:     p.MemberSvc,
		memberRepo:    p.MemberRepo,
		invitationSvc: p.InvitationSvc,
		businessSvc:   p.BusinessSvc,
		offeringSvc:   p.OfferingSvc,
		bookingSvc:    p.BookingSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/register", s.Register)
	authGroup.POST("/login", s.Login)
	authGroup.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	// -------- Businesses --------
	api.POST("/businesses", s.CreateBusiness)
	api.GET("/businesses/default", s.GetDefaultBusiness)
	api.GET("/businesses/:id", s.GetBusiness)
	api.PATCH("/businesses/:id/settings", s.UpdateBusinessSettings)
	api.GET("/businesses/:id/permissions", s.GetMyPermissions)

	// -------- Members --------
	api.GET("/businesses/:id/members", s.ListMembers)
	api.DELETE("/businesses/:id/members/:memberId", s.RemoveMember)
	api.PUT("/businesses/:id/members/:memberId/policies", s.UpsertMemberPolicy)

	// -------- Invitations --------
	api.POST("/businesses/:id/invitations", s.CreateInvitation)
	api.GET("/businesses/:id/invitations", s.ListInvitations)
	api.DELETE("/invitations/:id", s.CancelInvitation)

	// -------- Offerings --------
	api.GET("/businesses/:id/offerings", s.ListOfferings)
	api.POST("/businesses/:id/offerings", s.CreateOffering)
	api.PATCH("/businesses/:id/offerings/:offeringId", s.UpdateOffering)

	// -------- Bookings --------
	api.GET("/businesses/:id/bookings", s.ListBookings)
	api.POST("/businesses/:id/bookings/:bookingId/status", s.UpdateBookingStatus)

	// -------- Audit --------
	api.GET("/businesses/:id/audit-logs", s.ListAuditLogs)
}

func (s *Server) registerPublicRoutes() {
	// The token is the capability: reads and rejections need nothing
	// else. Accepting additionally needs a logged-in user to attach the
	// membership to.
	s.engine.GET("/invitations/:token", s.GetInvitation)
	s.engine.POST("/invitations/:token/reject", s.RejectInvitation)
	s.engine.POST("/invitations/:token/accept", s.AuthRequired(), s.AcceptInvitation)

	// Customer-facing booking pages.
	public := s.engine.Group("/b")
	public.GET("/:slug", s.GetBusinessBySlug)
	public.GET("/:slug/offerings", s.ListPublicOfferings)
	public.POST("/:slug/bookings", s.CreateBooking)
}
