package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/voyago/identity-service/internal/config"
	"github.com/voyago/identity-service/internal/handler"
	"github.com/voyago/identity-service/internal/notification"
	"github.com/voyago/identity-service/internal/repository"
	"github.com/voyago/identity-service/internal/service"
	"github.com/voyago/identity-service/internal/utils"
	"github.com/voyago/identity-service/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) (*App, error) {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.TokenExpiry.Duration,
	)

	otpManager := service.NewOTPManager(cfg.OTP.Expiry.Duration)
	ledger := service.NewRevocationLedger(infra.Redis(), infra.Logger())
	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	mailer, err := notification.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}

	authService := service.NewAuthService(
		repos.Identity,
		jwtManager,
		otpManager,
		ledger,
		mailer,
		cfg.Security.BCryptCost,
		cfg.OTP.Expiry.Duration,
		cfg.SMTP.SendTimeout.Duration,
		infra.Logger(),
	)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)

	router := gin.Default()
	router.Use(otelgin.Middleware("identity-service"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, authHandler, userHandler, authService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	limited := func() gin.HandlerFunc {
		return handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey)
	}

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", limited(), authHandler.Signup)
			auth.POST("/login", limited(), authHandler.Login)
			auth.POST("/logout", handler.AuthMiddleware(authService), authHandler.Logout)
			auth.POST("/forgot-password", limited(), authHandler.ForgotPassword)
			auth.POST("/verify-reset-otp", limited(), authHandler.VerifyResetOTP)
			auth.POST("/reset-password", limited(), authHandler.ResetPassword)
			auth.POST("/verify-email", limited(), authHandler.VerifyEmail)
			auth.POST("/resend-verification", limited(), authHandler.ResendVerification)
		}

		users := api.Group("/users", handler.AuthMiddleware(authService))
		{
			users.GET("/me", userHandler.GetMe)
			users.PATCH("/me", userHandler.UpdateMe)
			users.POST("/me/reward-points", userHandler.AddRewardPoints)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
