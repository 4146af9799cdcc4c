package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	bookingActionsHandler "github.com/m04kA/MassageStudio-BookingService/internal/api/handlers/booking_actions"
	cancelBookingHandler "github.com/m04kA/MassageStudio-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/MassageStudio-BookingService/internal/api/handlers/create_booking"
	dashboardHandler "github.com/m04kA/MassageStudio-BookingService/internal/api/handlers/dashboard"
	getAvailableSlotsHandler "github.com/m04kA/MassageStudio-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/MassageStudio-BookingService/internal/api/handlers/get_booking"
	getBookingsHandler "github.com/m04kA/MassageStudio-BookingService/internal/api/handlers/get_bookings"
	paymentWebhookHandler "github.com/m04kA/MassageStudio-BookingService/internal/api/handlers/payment_webhook"
	scheduleHandler "github.com/m04kA/MassageStudio-BookingService/internal/api/handlers/schedule"
	servicesHandler "github.com/m04kA/MassageStudio-BookingService/internal/api/handlers/services"
	"github.com/m04kA/MassageStudio-BookingService/internal/api/middleware"
	"github.com/m04kA/MassageStudio-BookingService/internal/availability"
	"github.com/m04kA/MassageStudio-BookingService/internal/config"
	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
	availabilityCache "github.com/m04kA/MassageStudio-BookingService/internal/infra/cache/availability"
	emailQueue "github.com/m04kA/MassageStudio-BookingService/internal/infra/queue/email"
	auditRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/audit"
	bookingRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/schedule"
	serviceRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/service"
	settingsRepo "github.com/m04kA/MassageStudio-BookingService/internal/infra/storage/settings"
	"github.com/m04kA/MassageStudio-BookingService/internal/integrations/mailer"
	stripeClient "github.com/m04kA/MassageStudio-BookingService/internal/integrations/stripe"
	bookingsService "github.com/m04kA/MassageStudio-BookingService/internal/service/bookings"
	catalogService "github.com/m04kA/MassageStudio-BookingService/internal/service/catalog"
	scheduleService "github.com/m04kA/MassageStudio-BookingService/internal/service/schedule"
	createBookingUC "github.com/m04kA/MassageStudio-BookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/MassageStudio-BookingService/internal/usecase/get_available_slots"
	handlePaymentWebhookUC "github.com/m04kA/MassageStudio-BookingService/internal/usecase/handle_payment_webhook"
	emailWorker "github.com/m04kA/MassageStudio-BookingService/internal/worker/email"
	"github.com/m04kA/MassageStudio-BookingService/internal/worker/refundsla"
	"github.com/m04kA/MassageStudio-BookingService/pkg/auth"
	"github.com/m04kA/MassageStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/MassageStudio-BookingService/pkg/logger"
	"github.com/m04kA/MassageStudio-BookingService/pkg/metrics"
	"github.com/m04kA/MassageStudio-BookingService/pkg/tracing"
	"github.com/m04kA/MassageStudio-BookingService/pkg/txmanager"
)

// slotCache полный набор операций кэша доступности (Redis или заглушка)
type slotCache interface {
	GetDate(ctx context.Context, serviceID uuid.UUID, date time.Time) ([]domain.Slot, bool, error)
	SetDate(ctx context.Context, serviceID uuid.UUID, date time.Time, slots []domain.Slot) error
	GetRange(ctx context.Context, serviceID uuid.UUID, start, end time.Time) ([]time.Time, bool, error)
	SetRange(ctx context.Context, serviceID uuid.UUID, start, end time.Time, dates []time.Time) error
	InvalidateDate(ctx context.Context, serviceID uuid.UUID, date time.Time) error
	InvalidateAll(ctx context.Context) error
}

func main() {
	// Загружаем конфигурацию (.env и переменные STUDIO_* переопределяют секреты)
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting MassageStudio-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Контекст жизни фоновых воркеров
	ctx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// Трассировка
	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  cfg.Tracing.ServiceName,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRatio:  cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to set up tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.OTLPEndpoint)
	}

	// Метрики собираются всегда, наружу отдаются только если включены
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	stopMetricsCh := make(chan struct{})

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, metricsCollector)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Подключаемся к Redis (очередь писем и кэш доступности)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
	}
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	var slots slotCache = availabilityCache.Noop{}
	if cfg.Availability.CacheTTL > 0 {
		slots = availabilityCache.NewCache(rdb, cfg.Availability.TTL())
		log.Info("Availability cache enabled (ttl=%ds)", cfg.Availability.CacheTTL)
	}
	queue := emailQueue.NewQueue(rdb, cfg.Email.QueueName)

	// Инициализируем интеграции
	payments := stripeClient.NewClient(
		cfg.Stripe.SecretKey,
		cfg.Stripe.WebhookSecret,
		time.Duration(cfg.Stripe.WebhookTolerance)*time.Second,
		log,
	)
	if !cfg.Stripe.Enabled {
		log.Warn("Stripe is disabled: services with a downpayment cannot be booked")
	}
	sender := mailer.NewSMTPSender(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUsername,
		cfg.Email.SMTPPassword,
		cfg.Email.From,
	)
	log.Info("Integrations initialized (smtp=%s:%d, email queue=%s)", cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.QueueName)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	serviceRepository := serviceRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)
	auditRepository := auditRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		serviceRepository,
		auditRepository,
		payments,
		queue,
		slots,
		txMgr,
		log,
	)
	catalogSvc := catalogService.NewService(serviceRepository, slots, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, settingsRepository, slots, txMgr, log)

	// Инициализируем use cases
	engine := availability.NewEngine(cfg.Availability.GranularityMinutes)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		scheduleRepository,
		settingsRepository,
		slots,
		engine,
		metricsCollector,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		settingsRepository,
		auditRepository,
		getAvailableSlotsUseCase,
		payments,
		slots,
		bookingSvc,
		txMgr,
		metricsCollector,
		cfg.Stripe.Currency,
		log,
	)

	handlePaymentWebhookUseCase := handlePaymentWebhookUC.NewUseCase(
		payments,
		bookingSvc,
		cfg.Stripe.WebhookToken,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookings := getBookingsHandler.NewHandler(bookingSvc, log)
	dashboard := dashboardHandler.NewHandler(bookingSvc, log)
	bookingActions := bookingActionsHandler.NewHandler(bookingSvc, log)
	services := servicesHandler.NewHandler(catalogSvc, log)
	schedule := scheduleHandler.NewHandler(scheduleSvc, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(handlePaymentWebhookUseCase, log)

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		log.Fatal("Failed to initialize token manager: %v", err)
	}

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.MetricsMiddleware(metricsCollector))

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// --- Каталог и доступность ---
	api.HandleFunc("/services", services.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}", services.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}/availability", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}/availability/dates", getAvailableSlots.HandleRange).Methods(http.MethodGet)

	// --- Бронирования клиента ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// --- Вебхук платежного провайдера (секрет в пути и подпись) ---
	if cfg.Stripe.Enabled {
		api.HandleFunc("/webhooks/stripe/{token}", paymentWebhook.Handle).Methods(http.MethodPost)
	}

	// ============================================================
	// ADMIN ROUTES (Bearer JWT с ролью admin)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(tokens, log))

	// --- Бронирования ---
	admin.HandleFunc("/bookings", getBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.HandleAdmin).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId}/mark-paid", bookingActions.HandleMarkPaid).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId}/refund", bookingActions.HandleRefund).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId}/resend-email", bookingActions.HandleResendEmail).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{bookingId}/sync-payment", bookingActions.HandleSyncPayment).Methods(http.MethodPost)

	// --- Дашборд ---
	admin.HandleFunc("/dashboard/today", dashboard.HandleToday).Methods(http.MethodGet)
	admin.HandleFunc("/dashboard/pending", dashboard.HandlePending).Methods(http.MethodGet)

	// --- Каталог ---
	admin.HandleFunc("/services", services.HandleAdminList).Methods(http.MethodGet)
	admin.HandleFunc("/services", services.HandleCreate).Methods(http.MethodPost)
	admin.HandleFunc("/services/{serviceId}", services.HandleUpdate).Methods(http.MethodPatch)

	// --- Расписание и настройки ---
	admin.HandleFunc("/business-hours", schedule.HandleGetHours).Methods(http.MethodGet)
	admin.HandleFunc("/business-hours", schedule.HandlePutHours).Methods(http.MethodPut)
	admin.HandleFunc("/date-overrides", schedule.HandleListOverrides).Methods(http.MethodGet)
	admin.HandleFunc("/date-overrides", schedule.HandleCreateOverride).Methods(http.MethodPost)
	admin.HandleFunc("/date-overrides/{overrideId}", schedule.HandleDeleteOverride).Methods(http.MethodDelete)
	admin.HandleFunc("/settings", schedule.HandleGetSettings).Methods(http.MethodGet)
	admin.HandleFunc("/settings", schedule.HandlePatchSettings).Methods(http.MethodPatch)

	// Запускаем фоновые воркеры
	var workers sync.WaitGroup

	mailWorker := emailWorker.NewWorker(
		queue,
		bookingRepository,
		serviceRepository,
		sender,
		metricsCollector,
		log,
		emailWorker.Config{
			MaxAttempts: cfg.Worker.EmailMaxAttempts,
			BaseBackoff: cfg.Worker.EmailBackoff(),
		},
	)
	slaMonitor := refundsla.NewMonitor(auditRepository, metricsCollector, log, refundsla.Config{
		Interval:  time.Duration(cfg.Worker.RefundSLAInterval) * time.Second,
		Threshold: time.Duration(cfg.Worker.RefundSLAThreshold) * time.Second,
		Lookback:  time.Duration(cfg.Worker.RefundSLALookback) * time.Second,
	})

	workers.Add(2)
	go func() {
		defer workers.Done()
		mailWorker.Run(ctx)
	}()
	go func() {
		defer workers.Done()
		slaMonitor.Run(ctx)
	}()
	log.Info("Background workers started (email, refund SLA monitor)")

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.Tracing.ServiceName),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем воркеры и сбор метрик connection pool
	stopWorkers()
	workers.Wait()
	close(stopMetricsCh)
	log.Info("Background workers stopped")

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
