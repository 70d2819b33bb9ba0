package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	blogapp "github.com/propertyspotter/backend/internal/application/blog"
	commissionapp "github.com/propertyspotter/backend/internal/application/commission"
	contactapp "github.com/propertyspotter/backend/internal/application/contact"
	identityapp "github.com/propertyspotter/backend/internal/application/identity"
	leadapp "github.com/propertyspotter/backend/internal/application/lead"
	listingapp "github.com/propertyspotter/backend/internal/application/listing"
	propertyapp "github.com/propertyspotter/backend/internal/application/property"
	updateapp "github.com/propertyspotter/backend/internal/application/update"
	"github.com/propertyspotter/backend/internal/infrastructure/auth"
	"github.com/propertyspotter/backend/internal/infrastructure/captcha"
	"github.com/propertyspotter/backend/internal/infrastructure/config"
	"github.com/propertyspotter/backend/internal/infrastructure/event"
	"github.com/propertyspotter/backend/internal/infrastructure/logger"
	"github.com/propertyspotter/backend/internal/infrastructure/markdown"
	"github.com/propertyspotter/backend/internal/infrastructure/notification"
	"github.com/propertyspotter/backend/internal/infrastructure/persistence"
	"github.com/propertyspotter/backend/internal/infrastructure/telemetry"
	"github.com/propertyspotter/backend/internal/interfaces/http/handler"
	"github.com/propertyspotter/backend/internal/interfaces/http/middleware"
	"github.com/propertyspotter/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer log.Sync()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()

	var tracerProvider *telemetry.TracerProvider
	if cfg.Telemetry.Enabled {
		tracerProvider, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("Failed to shut down tracer provider", zap.Error(err))
			}
		}()
	}

	// Token blacklist backs logout and forced invalidation. Redis keeps it
	// shared across replicas; the in-memory fallback is single-process only.
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(
		fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	var emailSender notification.EmailSender = notification.NoopEmailSender{}
	if cfg.Email.Enabled {
		emailSender = notification.NewSMTPEmailSender(cfg.Email)
	}

	var whatsappSender notification.WhatsAppSender = notification.NoopWhatsAppSender{}
	if cfg.WhatsApp.Enabled {
		whatsappSender = notification.NewTwilioWhatsAppSender(cfg.WhatsApp)
	}

	var captchaVerifier captcha.Verifier = captcha.NoopVerifier{}
	if cfg.Turnstile.Enabled {
		captchaVerifier = captcha.NewTurnstileVerifier(cfg.Turnstile)
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	agencyRepo := persistence.NewGormAgencyRepository(db.DB)
	verificationTokenRepo := persistence.NewGormVerificationTokenRepository(db.DB)
	invitationTokenRepo := persistence.NewGormInvitationTokenRepository(db.DB)
	adminLoginAttemptRepo := persistence.NewGormAdminLoginAttemptRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB)
	leadNoteRepo := persistence.NewGormLeadNoteRepository(db.DB)
	leadImageRepo := persistence.NewGormLeadImageRepository(db.DB)
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	commissionRepo := persistence.NewGormCommissionRepository(db.DB)
	blogPostRepo := persistence.NewGormBlogPostRepository(db.DB)
	blogCommentRepo := persistence.NewGormBlogCommentRepository(db.DB)
	subscriberRepo := persistence.NewGormSubscriberRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	updateRepo := persistence.NewGormUpdateRepository(db.DB)

	// Application services
	authService := identityapp.NewAuthService(
		userRepo, agencyRepo, verificationTokenRepo, adminLoginAttemptRepo,
		jwtService, blacklist, captchaVerifier, emailSender, cfg.App.BaseURL, log,
	)
	userService := identityapp.NewUserService(userRepo, blacklist, jwtService, log)
	agencyService := identityapp.NewAgencyService(agencyRepo, userRepo, invitationTokenRepo, emailSender, cfg.App.BaseURL, log)
	leadService := leadapp.NewService(
		leadRepo, leadNoteRepo, leadImageRepo, userRepo, agencyRepo,
		propertyRepo, commissionRepo, updateRepo, whatsappSender,
		cfg.Commission.DefaultSpotterPercentage, log,
	)
	propertyService := propertyapp.NewService(propertyRepo, log)
	listingService := listingapp.NewService(listingRepo, log)
	commissionService := commissionapp.NewService(commissionRepo, log)
	blogService := blogapp.NewService(blogPostRepo, blogCommentRepo, subscriberRepo, markdown.NewRenderer(), log)
	contactService := contactapp.NewService(contactRepo, emailSender, cfg.Email.ContactInbox, log)
	updateService := updateapp.NewService(updateRepo, leadRepo, userRepo, whatsappSender, log)

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewActivityLogHandler(log))
	authService.SetEventPublisher(eventBus)
	agencyService.SetEventPublisher(eventBus)
	leadService.SetEventPublisher(eventBus)
	listingService.SetEventPublisher(eventBus)
	commissionService.SetEventPublisher(eventBus)
	blogService.SetEventPublisher(eventBus)
	contactService.SetEventPublisher(eventBus)
	updateService.SetEventPublisher(eventBus)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.Secure())
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	authMW := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	})

	// Login and registration get a tighter per-IP limit than the global one
	var authLimiter gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimiter = middleware.RateLimitByKey(limiter, func(c *gin.Context) string {
			return c.ClientIP() + ":" + c.FullPath()
		})
	}

	router.Setup(engine, router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService),
		User:       handler.NewUserHandler(userService),
		Agency:     handler.NewAgencyHandler(agencyService),
		Lead:       handler.NewLeadHandler(leadService),
		Property:   handler.NewPropertyHandler(propertyService),
		Listing:    handler.NewListingHandler(listingService),
		Commission: handler.NewCommissionHandler(commissionService),
		Blog:       handler.NewBlogHandler(blogService),
		Contact:    handler.NewContactHandler(contactService),
		Update:     handler.NewUpdateHandler(updateService),
		System:     handler.NewSystemHandler(cfg.App.Name, cfg.App.Env, version),
	}, authMW, authLimiter)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shut down", zap.Error(err))
	}
	log.Info("Server exited")
}
