package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsapp "github.com/agoramall/backend/internal/application/analytics"
	chatapp "github.com/agoramall/backend/internal/application/chat"
	commerceapp "github.com/agoramall/backend/internal/application/commerce"
	engagementapp "github.com/agoramall/backend/internal/application/engagement"
	identityapp "github.com/agoramall/backend/internal/application/identity"
	notificationapp "github.com/agoramall/backend/internal/application/notification"
	reviewapp "github.com/agoramall/backend/internal/application/review"
	supportapp "github.com/agoramall/backend/internal/application/support"
	workflowapp "github.com/agoramall/backend/internal/application/workflow"
	identitydom "github.com/agoramall/backend/internal/domain/identity"
	"github.com/agoramall/backend/internal/domain/moderation"
	"github.com/agoramall/backend/internal/infrastructure/auth"
	"github.com/agoramall/backend/internal/infrastructure/cache"
	"github.com/agoramall/backend/internal/infrastructure/config"
	"github.com/agoramall/backend/internal/infrastructure/event"
	"github.com/agoramall/backend/internal/infrastructure/logger"
	"github.com/agoramall/backend/internal/infrastructure/persistence"
	"github.com/agoramall/backend/internal/infrastructure/printing"
	"github.com/agoramall/backend/internal/infrastructure/scheduler"
	"github.com/agoramall/backend/internal/infrastructure/storage"
	"github.com/agoramall/backend/internal/infrastructure/telemetry"
	"github.com/agoramall/backend/internal/interfaces/http/handler"
	"github.com/agoramall/backend/internal/interfaces/http/middleware"
	"github.com/agoramall/backend/internal/interfaces/http/router"
	"github.com/agoramall/backend/internal/interfaces/ws"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/agoramall/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Agora Backend API
//	@version		1.0
//	@description	Community commerce backend: accounts, orders, chat, reviews, customer support and notifications.

//	@contact.name	API Support
//	@contact.url	https://github.com/agoramall/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Agora Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize OpenTelemetry tracing and metrics
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Continuous profiling via Pyroscope (optional)
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilerEnabled,
		ServerAddress:     cfg.Telemetry.ProfilerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		ProfileCPU:        true,
		ProfileAllocSpace: true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	// Create GORM log level from the app log level
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register database query tracing (if enabled)
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        "postgresql",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Shared Redis client for the token blacklist and notice view counter.
	// Falls back to in-memory implementations when Redis is unreachable.
	var tokenBlacklist auth.TokenBlacklist
	var viewCounter cache.ViewCounter
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	redisErr := redisClient.Ping(pingCtx).Err()
	pingCancel()
	if redisErr != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist and view counter", zap.Error(redisErr))
		_ = redisClient.Close()
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		viewCounter = cache.NewInMemoryViewCounter()
	} else {
		log.Info("Redis connected successfully")
		defer func() {
			_ = redisClient.Close()
		}()
		tokenBlacklist = auth.NewRedisTokenBlacklistWithClient(redisClient)
		viewCounter = cache.NewRedisViewCounter(redisClient)
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	roomRepo := persistence.NewGormChatRoomRepository(db.DB)
	messageRepo := persistence.NewGormChatMessageRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	postRepo := persistence.NewGormCSPostRepository(db.DB)
	faqRepo := persistence.NewGormFAQRepository(db.DB)
	noticeRepo := persistence.NewGormNoticeRepository(db.DB)
	likeRepo := persistence.NewGormLikeRepository(db.DB)
	presetRepo := persistence.NewGormPresetMessageRepository(db.DB)
	workRepo := persistence.NewGormWorkRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	analyticsRepo := persistence.NewGormAnalyticsRepository(db.DB)

	// Profanity filter shared by every text-accepting service
	var profanity *moderation.Filter
	if cfg.Moderation.Enabled {
		profanity = moderation.NewFilterWithExtras(cfg.Moderation.ExtraWords)
	} else {
		profanity = moderation.NewFilter(nil, nil)
	}

	// Auth infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	csrfService := auth.NewCSRFService(cfg.CSRF)
	tokenSigner := auth.NewTokenSigner(cfg.JWT.Secret)
	oauthClient := auth.NewOAuthClient(cfg.OAuth)

	authCfg := identityapp.DefaultAuthServiceConfig()
	loginLimiter, err := cache.NewAttemptLimiterFactory(cfg.Redis, cache.ThrottleConfig{
		MaxAttempts: authCfg.MaxLoginAttempts,
		Window:      authCfg.LockDuration,
	}, cache.WithLogger(log)).CreateLimiter()
	if err != nil {
		log.Fatal("Failed to create login attempt limiter", zap.Error(err))
	}

	// Object storage for chat attachments
	objectStorage, err := storage.New(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// PDF rendering for order sheets
	pdfRenderer, err := printing.NewRenderer(&cfg.Printing, log)
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	orderSheetPrinter, err := printing.NewOrderSheetPrinter(pdfRenderer)
	if err != nil {
		log.Fatal("Failed to initialize order sheet printer", zap.Error(err))
	}

	// Event bus for cross-context integration
	eventBus := event.NewInMemoryEventBus(log, event.WithHandlerTimeout(cfg.Event.HandlerTimeout))

	// Websocket hub pushes chat messages and notifications to connected clients
	hub := ws.NewHub(log)

	// Initialize application services
	authService := identityapp.NewAuthService(
		userRepo, jwtService, csrfService, tokenSigner, tokenBlacklist,
		loginLimiter, oauthClient, profanity, eventBus, authCfg, log,
	)
	userService := identityapp.NewUserService(userRepo, profanity, eventBus, log)
	orderService := commerceapp.NewOrderService(orderRepo, eventBus, log)
	exportService := commerceapp.NewExportService(orderRepo, userRepo, orderSheetPrinter, log)
	chatService := chatapp.NewChatService(
		roomRepo, messageRepo, profanity, objectStorage, hub,
		chatapp.DefaultChatServiceConfig(), log,
	)
	reviewService := reviewapp.NewReviewService(reviewRepo, profanity, log)
	csService := supportapp.NewCSService(postRepo, profanity, eventBus, log)
	faqService := supportapp.NewFAQService(faqRepo, log)
	noticeService := supportapp.NewNoticeService(noticeRepo, viewCounter, log)
	engagementService := engagementapp.NewEngagementService(likeRepo, presetRepo, log)
	workService := workflowapp.NewWorkService(workRepo, log)
	notificationService := notificationapp.NewNotificationService(notificationRepo, userRepo, hub, log)
	analyticsService := analyticsapp.NewAnalyticsService(analyticsRepo, userRepo, orderRepo, postRepo, log)

	// Register event handlers for cross-context integration
	// Order status change -> notification to the buyer
	orderStatusHandler := notificationapp.NewOrderStatusHandler(notificationService, log)
	eventBus.Subscribe(orderStatusHandler)

	// Staff reply on a support post -> notification to the author
	csReplyHandler := notificationapp.NewCSReplyHandler(notificationService, log)
	eventBus.Subscribe(csReplyHandler)

	log.Info("Event handlers registered",
		zap.Strings("order_status_events", orderStatusHandler.EventTypes()),
		zap.Strings("cs_reply_events", csReplyHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Business metrics (open tickets, unread notifications)
	if cfg.Telemetry.Enabled {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:           meterProvider.Meter(telemetry.TracerName),
			Logger:          log,
			BacklogProvider: telemetry.NewGormBacklogMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			defer businessMetrics.Stop()
		}
	}

	// Background job scheduler (if enabled)
	if cfg.Scheduler.Enabled {
		executors := scheduler.NewExecutorRouter()
		executors.Register(scheduler.JobTypeAnalyticsRollup,
			analyticsapp.NewRollupExecutor(analyticsRepo, orderRepo, log))
		executors.Register(scheduler.JobTypeWorkReminder,
			workflowapp.NewReminderExecutor(workRepo, notificationService, log))

		jobScheduler := scheduler.NewScheduler(scheduler.SchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, executors, log)
		if err := jobScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()

		cronTrigger := scheduler.NewCronTrigger(scheduler.CronTriggerConfig{
			DailyJobHour:   cfg.Scheduler.DailyJobHour,
			DailyJobMinute: cfg.Scheduler.DailyJobMinute,
			CheckInterval:  time.Minute,
		}, jobScheduler, log)
		if err := cronTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
		defer func() {
			if err := cronTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping cron trigger", zap.Error(err))
			}
		}()
		log.Info("Scheduler started",
			zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
			zap.Int("daily_job_hour", cfg.Scheduler.DailyJobHour),
		)
	}

	// Retention sweep for old read notifications
	if cfg.Retention.SweepEnabled {
		notificationSweeper := scheduler.NewRetentionSweeper(
			notificationService.SweepExpired, cfg.Retention.CheckInterval, log)
		if err := notificationSweeper.Start(context.Background()); err != nil {
			log.Fatal("Failed to start notification sweeper", zap.Error(err))
		}
		defer func() {
			if err := notificationSweeper.Stop(context.Background()); err != nil {
				log.Error("Error stopping notification sweeper", zap.Error(err))
			}
		}()
	}

	// Periodic flush of Redis view counts into notice rows
	viewCountFlusher := scheduler.NewRetentionSweeper(
		noticeService.FlushViewCounts, time.Minute, log)
	if err := viewCountFlusher.Start(context.Background()); err != nil {
		log.Fatal("Failed to start view count flusher", zap.Error(err))
	}
	defer func() {
		if err := viewCountFlusher.Stop(context.Background()); err != nil {
			log.Error("Error stopping view count flusher", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, cfg.Cookie, cfg.OAuth)
	userHandler := handler.NewUserHandler(userService)
	orderHandler := handler.NewOrderHandler(orderService, exportService)
	chatHandler := handler.NewChatHandler(chatService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	supportHandler := handler.NewSupportHandler(csService, faqService, noticeService)
	engagementHandler := handler.NewEngagementHandler(engagementService)
	workflowHandler := handler.NewWorkflowHandler(workService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	systemHandler := handler.NewSystemHandler()
	wsHandler := ws.NewHandler(hub, chatService, log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Request tracing and profiling labels
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}
	if cfg.Telemetry.ProfilerEnabled {
		engine.Use(middleware.Profiling())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Authentication middleware used by protected routes
	jwtAuth := middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	})
	optionalAuth := middleware.OptionalJWTAuthMiddleware(jwtService)

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(middleware.SwaggerConfig{
				Enabled:     cfg.Swagger.Enabled,
				RequireAuth: cfg.Swagger.RequireAuth,
				AllowedIPs:  cfg.Swagger.AllowedIPs,
			}, jwtAuth),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
	}

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Auth domain: registration, login, token refresh and social login are
	// public, logout needs a valid access token
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.AuthRateLimit(authLimiter))
	}
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/verify-email", authHandler.VerifyEmail)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", jwtAuth, authHandler.Logout)
	authRoutes.GET("/oauth/:provider/callback", authHandler.OAuthCallback)

	// Identity domain: own profile plus staff user administration
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(jwtAuth)
	userRoutes.GET("/me", userHandler.GetProfile)
	userRoutes.PATCH("/me", userHandler.UpdateProfile)
	userRoutes.PUT("/me/password", userHandler.ChangePassword)
	userRoutes.DELETE("/me", userHandler.Deactivate)
	userRoutes.GET("", middleware.RequireStaff(), userHandler.ListUsers)
	userRoutes.GET("/:id", middleware.RequireStaff(), userHandler.GetUser)
	userRoutes.PUT("/:id/role", middleware.RequireCapability(identitydom.CapManageUsers), userHandler.ChangeRole)
	userRoutes.PUT("/:id/grade", middleware.RequireCapability(identitydom.CapManageUsers), userHandler.ChangeGrade)

	// Commerce domain: checkout, order lifecycle, payments and exports
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.Use(jwtAuth)
	orderRoutes.POST("", orderHandler.Checkout)
	orderRoutes.GET("", orderHandler.ListOrders)
	orderRoutes.GET("/logs", orderHandler.ListOwnStatusLogs)
	orderRoutes.GET("/logs/all", middleware.RequireCapability(identitydom.CapViewAllOrders), orderHandler.ListAllStatusLogs)
	orderRoutes.GET("/export", middleware.RequireCapability(identitydom.CapExportOrders), orderHandler.ExportCSV)
	orderRoutes.GET("/:id", orderHandler.GetOrder)
	orderRoutes.DELETE("/:id", orderHandler.DeleteOrder)
	orderRoutes.PUT("/:id/shipping", orderHandler.UpdateShipping)
	orderRoutes.POST("/:id/processing", middleware.RequireStaff(), orderHandler.MarkProcessing)
	orderRoutes.POST("/:id/complete", middleware.RequireStaff(), orderHandler.Complete)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)
	orderRoutes.POST("/:id/refund", middleware.RequireCapability(identitydom.CapRefundOrder), orderHandler.Refund)
	orderRoutes.GET("/:id/logs", orderHandler.ListStatusLogs)
	orderRoutes.POST("/:id/payments", orderHandler.RecordPayment)
	orderRoutes.GET("/:id/payments", orderHandler.ListPayments)
	orderRoutes.GET("/:id/sheet", middleware.RequireCapability(identitydom.CapExportOrders), orderHandler.ExportOrderSheet)

	// Chat domain: rooms, messages and attachment uploads
	chatRoutes := router.NewDomainGroup("chat", "/chat")
	chatRoutes.Use(jwtAuth)
	chatRoutes.POST("/rooms", chatHandler.CreateRoom)
	chatRoutes.GET("/rooms", chatHandler.ListRooms)
	chatRoutes.GET("/rooms/:id", chatHandler.GetRoom)
	chatRoutes.POST("/rooms/:id/join", chatHandler.JoinRoom)
	chatRoutes.POST("/rooms/:id/leave", chatHandler.LeaveRoom)
	chatRoutes.POST("/rooms/:id/messages", chatHandler.SendMessage)
	chatRoutes.GET("/rooms/:id/messages", chatHandler.ListMessages)
	chatRoutes.POST("/rooms/:id/uploads", chatHandler.IssueUploadURL)
	chatRoutes.PATCH("/messages/:id", chatHandler.EditMessage)
	chatRoutes.DELETE("/messages/:id", chatHandler.DeleteMessage)
	chatRoutes.POST("/messages/:id/read", chatHandler.MarkRead)

	// Review domain: reading is public, writing and moderation need auth
	reviewRoutes := router.NewDomainGroup("reviews", "/reviews")
	reviewRoutes.POST("", jwtAuth, reviewHandler.CreateReview)
	reviewRoutes.GET("/mine", jwtAuth, reviewHandler.ListMine)
	reviewRoutes.GET("/reported", jwtAuth, middleware.RequireCapability(identitydom.CapModerateReviews), reviewHandler.ListReported)
	reviewRoutes.GET("/target/:targetID", reviewHandler.ListByTarget)
	reviewRoutes.GET("/:id", reviewHandler.GetReview)
	reviewRoutes.PATCH("/:id", jwtAuth, reviewHandler.UpdateReview)
	reviewRoutes.DELETE("/:id", jwtAuth, reviewHandler.DeleteReview)
	reviewRoutes.POST("/:id/report", jwtAuth, reviewHandler.ReportReview)
	reviewRoutes.PUT("/:id/best", jwtAuth, middleware.RequireCapability(identitydom.CapModerateReviews), reviewHandler.MarkBest)

	// Support domain: CS posts need auth, FAQ and notice reads are public
	supportRoutes := router.NewDomainGroup("support", "/support")
	supportRoutes.POST("/posts", jwtAuth, supportHandler.CreatePost)
	supportRoutes.GET("/posts", jwtAuth, supportHandler.ListPosts)
	supportRoutes.GET("/posts/:id", jwtAuth, supportHandler.GetPost)
	supportRoutes.PATCH("/posts/:id", jwtAuth, supportHandler.UpdatePost)
	supportRoutes.DELETE("/posts/:id", jwtAuth, supportHandler.DeletePost)
	supportRoutes.POST("/posts/:id/replies", jwtAuth, supportHandler.AddReply)
	supportRoutes.POST("/posts/:id/close", jwtAuth, supportHandler.ClosePost)
	supportRoutes.GET("/faqs", supportHandler.ListFAQs)
	supportRoutes.GET("/faqs/all", jwtAuth, middleware.RequireCapability(identitydom.CapManageContent), supportHandler.ListAllFAQs)
	supportRoutes.POST("/faqs", jwtAuth, middleware.RequireCapability(identitydom.CapManageContent), supportHandler.CreateFAQ)
	supportRoutes.PUT("/faqs/:id", jwtAuth, middleware.RequireCapability(identitydom.CapManageContent), supportHandler.UpdateFAQ)
	supportRoutes.DELETE("/faqs/:id", jwtAuth, middleware.RequireCapability(identitydom.CapManageContent), supportHandler.DeleteFAQ)
	supportRoutes.GET("/notices", supportHandler.ListNotices)
	supportRoutes.GET("/notices/:id", supportHandler.GetNotice)
	supportRoutes.POST("/notices", jwtAuth, middleware.RequireCapability(identitydom.CapManageContent), supportHandler.CreateNotice)
	supportRoutes.PUT("/notices/:id", jwtAuth, middleware.RequireCapability(identitydom.CapManageContent), supportHandler.UpdateNotice)
	supportRoutes.DELETE("/notices/:id", jwtAuth, middleware.RequireCapability(identitydom.CapManageContent), supportHandler.DeleteNotice)

	// Engagement domain: likes and staff preset replies
	likeRoutes := router.NewDomainGroup("likes", "/likes")
	likeRoutes.Use(jwtAuth)
	likeRoutes.POST("/toggle", engagementHandler.ToggleLike)
	likeRoutes.GET("/:targetType/:targetID", engagementHandler.GetLikeStatus)

	presetRoutes := router.NewDomainGroup("presets", "/presets")
	presetRoutes.Use(jwtAuth)
	presetRoutes.GET("", engagementHandler.ListPresets)
	presetRoutes.POST("", middleware.RequireCapability(identitydom.CapManageContent), engagementHandler.CreatePreset)
	presetRoutes.PUT("/:id", middleware.RequireCapability(identitydom.CapManageContent), engagementHandler.UpdatePreset)
	presetRoutes.DELETE("/:id", middleware.RequireCapability(identitydom.CapManageContent), engagementHandler.DeletePreset)

	// Workflow domain: staff work assignment and progress tracking
	workRoutes := router.NewDomainGroup("works", "/works")
	workRoutes.Use(jwtAuth)
	workRoutes.POST("", middleware.RequireCapability(identitydom.CapAssignWork), workflowHandler.CreateWork)
	workRoutes.GET("/requested", workflowHandler.ListRequested)
	workRoutes.GET("/assigned", workflowHandler.ListAssigned)
	workRoutes.GET("/all", middleware.RequireCapability(identitydom.CapAssignWork), workflowHandler.ListAllWorks)
	workRoutes.GET("/:id", workflowHandler.GetWork)
	workRoutes.DELETE("/:id", workflowHandler.DeleteWork)
	workRoutes.PUT("/:id/status", workflowHandler.ChangeWorkStatus)
	workRoutes.POST("/:id/progress", workflowHandler.RecordProgress)
	workRoutes.GET("/:id/progress", workflowHandler.ListProgress)

	// Notification domain
	notificationRoutes := router.NewDomainGroup("notifications", "/notifications")
	notificationRoutes.Use(jwtAuth)
	notificationRoutes.GET("", notificationHandler.ListNotifications)
	notificationRoutes.GET("/unread-count", notificationHandler.CountUnread)
	notificationRoutes.PUT("/read-all", notificationHandler.MarkAllRead)
	notificationRoutes.PUT("/:id/read", notificationHandler.MarkRead)
	notificationRoutes.DELETE("/:id", notificationHandler.DeleteNotification)
	notificationRoutes.POST("/broadcast", middleware.RequireCapability(identitydom.CapBroadcastNotify), notificationHandler.Broadcast)
	notificationRoutes.GET("/settings", notificationHandler.GetSetting)
	notificationRoutes.PUT("/settings", notificationHandler.UpdateSetting)

	// Analytics domain: event ingestion accepts anonymous visitors,
	// everything else is staff-only reporting
	analyticsRoutes := router.NewDomainGroup("analytics", "/analytics")
	analyticsRoutes.POST("/events", optionalAuth, analyticsHandler.IngestEvent)
	analyticsRoutes.GET("/events", jwtAuth, middleware.RequireCapability(identitydom.CapViewAnalytics), analyticsHandler.QueryEvents)
	analyticsRoutes.GET("/daily", jwtAuth, middleware.RequireCapability(identitydom.CapViewAnalytics), analyticsHandler.DailyRange)
	analyticsRoutes.GET("/dashboard", jwtAuth, middleware.RequireCapability(identitydom.CapViewAnalytics), analyticsHandler.GetDashboard)
	analyticsRoutes.POST("/dashboard/rebuild", jwtAuth, middleware.RequireCapability(identitydom.CapViewAnalytics), analyticsHandler.RebuildDashboard)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(authRoutes).
		Register(userRoutes).
		Register(orderRoutes).
		Register(chatRoutes).
		Register(reviewRoutes).
		Register(supportRoutes).
		Register(likeRoutes).
		Register(presetRoutes).
		Register(workRoutes).
		Register(notificationRoutes).
		Register(analyticsRoutes).
		Register(systemRoutes)

	r.Setup()

	// Websocket endpoints (outside API versioning, authenticated at handshake)
	wsRoutes := engine.Group("/ws")
	wsRoutes.Use(jwtAuth)
	wsRoutes.GET("/chat/:roomID", wsHandler.ChatRoom)
	wsRoutes.GET("/notifications", wsHandler.Notifications)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Close websocket connections after the HTTP listener stops accepting
	hub.Shutdown()

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
