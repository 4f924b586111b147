package http

import (
	"context"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditHTTP "github.com/allisson/votesafe/internal/audit/http"
	authHTTP "github.com/allisson/votesafe/internal/auth/http"
	authUseCase "github.com/allisson/votesafe/internal/auth/usecase"
	ballotHTTP "github.com/allisson/votesafe/internal/ballot/http"
	"github.com/allisson/votesafe/internal/config"
	"github.com/allisson/votesafe/internal/metrics"
)

// Handlers groups the domain handlers mounted by SetupRouter.
type Handlers struct {
	Auth   *authHTTP.AuthHandler
	Audit  *auditHTTP.AuditHandler
	Ballot *ballotHTTP.BallotHandler

	// Sweeper backs POST /v1/admin/sweep; the route is absent when nil.
	Sweeper Sweeper
}

// SetupRouter builds the gin engine with every route and middleware.
//
// ctx bounds the background cleanup of the rate limiter stores. The user use
// case lets session authentication reject sessions of disabled users. The
// metrics provider is optional; when nil no HTTP metrics are recorded.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	handlers Handlers,
	sessionUseCase authUseCase.SessionUseCase,
	userUseCase authUseCase.UserUseCase,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}
	router.Use(authHTTP.ClientIPMiddleware())

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	sessionAuth := []gin.HandlerFunc{authHTTP.SessionMiddleware(sessionUseCase, userUseCase, s.logger)}
	if cfg.RateLimitEnabled {
		sessionAuth = append(sessionAuth,
			authHTTP.SessionRateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger),
		)
	}

	auth := v1.Group("/auth")
	{
		login := auth.Group("")
		if cfg.RateLimitAuthEnabled {
			login.Use(authHTTP.IPRateLimitMiddleware(
				ctx, cfg.RateLimitAuthRequestsPerSec, cfg.RateLimitAuthBurst, s.logger,
			))
		}
		if cfg.RegistrationEnabled {
			login.POST("/register", handlers.Auth.RegisterHandler)
		}
		login.POST("/login", handlers.Auth.LoginHandler)
		login.GET("/qr.png", handlers.Auth.QRImageHandler)
		login.POST("/qr", handlers.Auth.QRVerifyHandler)
		login.POST("/otp", handlers.Auth.OTPVerifyHandler)

		authenticated := auth.Group("", sessionAuth...)
		authenticated.POST("/logout", handlers.Auth.LogoutHandler)
		authenticated.GET("/session", handlers.Auth.SessionHandler)
		authenticated.POST("/session/refresh", handlers.Auth.RefreshSessionHandler)
	}

	elections := v1.Group("/elections/:election_id", sessionAuth...)
	{
		elections.POST("/ballots", handlers.Ballot.CastHandler)
		elections.GET("/participation", handlers.Ballot.ParticipationHandler)
		elections.GET("/turnout", handlers.Ballot.TurnoutHandler)
	}

	if cfg.AdminAPIToken != "" {
		admin := v1.Group("/admin", authHTTP.AdminTokenMiddleware(cfg.AdminAPIToken, s.logger))
		{
			admin.GET("/audit", handlers.Audit.ListHandler)
			admin.POST("/audit/verify", handlers.Audit.VerifyBatchHandler)
			admin.GET("/audit/:id", handlers.Audit.GetHandler)
			admin.POST("/audit/:id/verify", handlers.Audit.VerifyHandler)
			admin.POST("/elections/:election_id/tally", handlers.Ballot.TallyHandler)
			if handlers.Sweeper != nil {
				admin.POST("/sweep", sweepHandler(handlers.Sweeper, s.logger))
			}
		}
	} else {
		s.logger.Warn("ADMIN_API_TOKEN not set, admin endpoints are disabled")
	}

	s.router = router
}
