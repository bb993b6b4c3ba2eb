package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonbook/config"
	"salonbook/cron"
	"salonbook/database"
	apikeyRepo "salonbook/database/repository/apikey"
	bookingRepo "salonbook/database/repository/booking"
	businessRepo "salonbook/database/repository/business"
	categoryRepo "salonbook/database/repository/category"
	clientRepo "salonbook/database/repository/client"
	formRepo "salonbook/database/repository/formsubmission"
	staffRepo "salonbook/database/repository/staff"
	treatmentRepo "salonbook/database/repository/treatment"
	"salonbook/handlers"
	"salonbook/middleware"
	"salonbook/routes"
	"salonbook/services/apikey"
	"salonbook/services/availability"
	"salonbook/services/booking"
	"salonbook/services/cache"
	"salonbook/services/forms"
	"salonbook/services/notification"
	"salonbook/services/tasks"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if err := database.InitDB(); err != nil {
		logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
	}
	if err := utils.RegisterValidators(); err != nil {
		logger.Fatal("main: failed to register validators", zap.Error(err))
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("main: invalid TIMEZONE", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	// Cache layer. Redis being down only costs cache hits.
	redisConn := cache.NewManager(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisCacheDB,
	}, seconds(cfg.RedisRetryCooldown), logger.Named("redis"))
	dispatcher := cache.NewDispatcher(cfg.CacheWorkers, cfg.CacheQueueSize, 2*time.Second, logger.Named("dispatcher"))
	responseCache := cache.New(redisConn, dispatcher, logger.Named("cache"))

	// repositories.
	clients := clientRepo.NewMongoClientRepo(database.Collection("clients"), logger)
	bookings := bookingRepo.NewMongoBookingRepo(database.Collection("bookings"), logger)
	treatments := treatmentRepo.NewMongoTreatmentRepo(database.Collection("treatments"), logger)
	categories := categoryRepo.NewMongoCategoryRepo(database.Collection("treatment_categories"), logger)
	openingHours := businessRepo.NewMongoOpeningHoursRepo(database.Collection("opening_hours"), logger)
	staff := staffRepo.NewMongoStaffRepo(database.Collection("staff"), logger)
	submissions := formRepo.NewMongoFormSubmissionRepo(database.Collection("form_submissions"), logger)
	keys := apikeyRepo.NewMongoAPIKeyRepo(database.Collection("api_keys"), logger)

	var mailer notification.Mailer = notification.LogMailer{Logger: logger.Named("mailer")}
	if cfg.ResendAPIKey != "" {
		mailer = notification.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom, logger.Named("mailer"))
	} else {
		logger.Warn("RESEND_API_KEY not set, emails will only be logged")
	}

	// Background reminders.
	queueOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB}
	queue := asynq.NewClient(queueOpts)
	defer queue.Close()
	reminderWorker := cron.InitReminderWorker(queueOpts, &cron.ReminderHandler{
		Bookings:   bookings,
		Clients:    clients,
		Treatments: treatments,
		Mailer:     mailer,
		Location:   location,
		Logger:     logger.Named("reminders"),
	}, logger.Named("worker"))

	// services.
	keyService := apikey.NewService(keys, responseCache, seconds(cfg.APIKeyCacheTTL), logger.Named("apikey"))
	availabilityService := &availability.DefaultAvailabilityService{
		Treatments: treatments,
		Hours:      openingHours,
		Bookings:   bookings,
		Location:   location,
		Step:       time.Duration(cfg.SlotStepMinutes) * time.Minute,
	}
	bookingService := &booking.DefaultBookingService{
		Clients:    clients,
		Bookings:   bookings,
		Treatments: treatments,
		Mailer:     mailer,
		Cache:      responseCache,
		Reminders: &tasks.ReminderScheduler{
			Queue:  queue,
			Lead:   time.Duration(cfg.ReminderLeadHours) * time.Hour,
			Logger: logger.Named("reminders"),
		},
		Logger:   logger.Named("booking"),
		Location: location,
	}
	formService := &forms.Service{
		Clients:     clients,
		Submissions: submissions,
		Mailer:      mailer,
		Cache:       responseCache,
		Logger:      logger.Named("forms"),
	}

	mongoPing := utils.PingFunc(func(ctx context.Context) error {
		return database.MongoClient.Ping(ctx, nil)
	})
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, mongoPing, redisConn, 60*time.Second)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Cache: responseCache,
		Bookings: &handlers.BookingHandler{
			Service:      bookingService,
			Availability: availabilityService,
			Repo:         bookings,
			Cache:        responseCache,
		},
		Clients:         &handlers.ClientHandler{Repo: clients, Cache: responseCache},
		Treatments:      &handlers.TreatmentHandler{Repo: treatments, Categories: categories, Cache: responseCache},
		Categories:      &handlers.CategoryHandler{Repo: categories, Cache: responseCache},
		Business:        &handlers.BusinessHandler{Hours: openingHours, Cache: responseCache},
		Staff:           &handlers.StaffHandler{Repo: staff, Cache: responseCache},
		FormSubmissions: &handlers.FormSubmissionHandler{Service: formService, Repo: submissions},
		APIKeys:         &handlers.APIKeyHandler{Keys: keyService},
		Health:          &handlers.HealthHandler{Mongo: mongoPing, Redis: redisConn},
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	routes.RegisterRoutes(router, handlerBundle, routes.Options{
		Auth: keyService,
		APIKey: middleware.APIKeyAuthOptions{
			HeaderName: cfg.APIKeyHeader,
			QueryParam: cfg.APIKeyQueryParam,
		},
		Redis:       redisConn,
		AdminSecret: cfg.AdminJWTSecret,
		HCaptcha: middleware.HCaptchaOptions{
			Secret:    cfg.HCaptchaSecret,
			VerifyURL: cfg.HCaptchaVerifyURL,
		},
		BookingLimit: middleware.RouteLimitOptions{
			Limit:  cfg.RateLimitBookings,
			Window: seconds(cfg.RateLimitWindow),
		},
		DuplicateTTL:      seconds(cfg.DuplicateGuardTTL),
		RequestsPerMinute: cfg.MaxRequestsPerMin,
		CacheTTL:          seconds(cfg.CacheDefaultTTL),
		AvailabilityTTL:   60 * time.Second,
	})

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	reminderWorker.Shutdown()
	dispatcher.Close()
	if err := redisConn.Close(); err != nil {
		logger.Warn("main: redis close failed", zap.Error(err))
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
