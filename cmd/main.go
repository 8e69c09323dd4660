package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	addBlockedHandler "github.com/m04kA/consult-booking/internal/api/handlers/add_blocked"
	createBookingHandler "github.com/m04kA/consult-booking/internal/api/handlers/create_booking"
	createServiceHandler "github.com/m04kA/consult-booking/internal/api/handlers/create_service"
	getAvailableSlotsHandler "github.com/m04kA/consult-booking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/consult-booking/internal/api/handlers/get_booking"
	getConsultantBookingsHandler "github.com/m04kA/consult-booking/internal/api/handlers/get_consultant_bookings"
	getConsultantDetailHandler "github.com/m04kA/consult-booking/internal/api/handlers/get_consultant_detail"
	getScheduleHandler "github.com/m04kA/consult-booking/internal/api/handlers/get_schedule"
	getUserBookingsHandler "github.com/m04kA/consult-booking/internal/api/handlers/get_user_bookings"
	healthHandler "github.com/m04kA/consult-booking/internal/api/handlers/health"
	listBlockedHandler "github.com/m04kA/consult-booking/internal/api/handlers/list_blocked"
	listDurationsHandler "github.com/m04kA/consult-booking/internal/api/handlers/list_durations"
	listServicesHandler "github.com/m04kA/consult-booking/internal/api/handlers/list_services"
	listTemplatesHandler "github.com/m04kA/consult-booking/internal/api/handlers/list_templates"
	removeBlockedHandler "github.com/m04kA/consult-booking/internal/api/handlers/remove_blocked"
	rescheduleBookingHandler "github.com/m04kA/consult-booking/internal/api/handlers/reschedule_booking"
	setScheduleHandler "github.com/m04kA/consult-booking/internal/api/handlers/set_schedule"
	transitionBookingHandler "github.com/m04kA/consult-booking/internal/api/handlers/transition_booking"
	updateExternalRefsHandler "github.com/m04kA/consult-booking/internal/api/handlers/update_external_refs"
	updateServiceHandler "github.com/m04kA/consult-booking/internal/api/handlers/update_service"
	upsertDurationHandler "github.com/m04kA/consult-booking/internal/api/handlers/upsert_duration"
	upsertPriceHandler "github.com/m04kA/consult-booking/internal/api/handlers/upsert_price"
	upsertTemplateHandler "github.com/m04kA/consult-booking/internal/api/handlers/upsert_template"
	"github.com/m04kA/consult-booking/internal/api/middleware"
	"github.com/m04kA/consult-booking/internal/config"
	"github.com/m04kA/consult-booking/internal/domain"
	bookingRepo "github.com/m04kA/consult-booking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/consult-booking/internal/infra/storage/catalog"
	consultantRepo "github.com/m04kA/consult-booking/internal/infra/storage/consultant"
	scheduleRepo "github.com/m04kA/consult-booking/internal/infra/storage/schedule"
	"github.com/m04kA/consult-booking/internal/integrations/eventsink"
	"github.com/m04kA/consult-booking/internal/integrations/profileservice"
	bookingsService "github.com/m04kA/consult-booking/internal/service/bookings"
	catalogService "github.com/m04kA/consult-booking/internal/service/catalog"
	scheduleService "github.com/m04kA/consult-booking/internal/service/schedule"
	completeBookingsUC "github.com/m04kA/consult-booking/internal/usecase/complete_bookings"
	createBookingUC "github.com/m04kA/consult-booking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/consult-booking/internal/usecase/get_available_slots"
	getConsultantDetailUC "github.com/m04kA/consult-booking/internal/usecase/get_consultant_detail"
	rescheduleBookingUC "github.com/m04kA/consult-booking/internal/usecase/reschedule_booking"
	"github.com/m04kA/consult-booking/pkg/dbmetrics"
	"github.com/m04kA/consult-booking/pkg/logger"
	"github.com/m04kA/consult-booking/pkg/metrics"
	"github.com/m04kA/consult-booking/pkg/txmanager"
)

// eventPublisher общий интерфейс Redis и пустого издателя
type eventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

func main() {
	// Загружаем конфигурацию
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

	log.Info("Starting consult-booking...")

	// Метрики (nil-коллектор безопасен для всех потребителей)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	consultantRepository := consultantRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)

	// Интеграции
	var publisher eventPublisher = eventsink.NopPublisher{}
	if cfg.Events.Enabled {
		redisClient, err := eventsink.NewRedisClient(context.Background(),
			cfg.Events.RedisAddr, cfg.Events.RedisPassword, cfg.Events.RedisDB)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		publisher = eventsink.NewRedisPublisher(redisClient, cfg.Events.Channel,
			time.Duration(cfg.Events.Timeout)*time.Second)
		log.Info("Booking events are published to redis channel %q", cfg.Events.Channel)
	}

	var profiles getConsultantDetailUC.ProfileClient
	if cfg.ProfileService.URL != "" {
		profiles = profileservice.NewClient(cfg.ProfileService.URL,
			time.Duration(cfg.ProfileService.Timeout)*time.Second, log)
		log.Info("ProfileService client initialized (url=%s timeout=%ds)",
			cfg.ProfileService.URL, cfg.ProfileService.Timeout)
	}

	// Сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, consultantRepository, publisher, txMgr, log)
	catalogSvc := catalogService.NewService(catalogRepository, consultantRepository, txMgr, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, consultantRepository, txMgr, log)

	// Use cases
	minLead := cfg.Booking.MinLead()

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		consultantRepository,
		scheduleRepository,
		bookingRepository,
		metricsCollector,
		minLead,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		consultantRepository,
		catalogRepository,
		scheduleRepository,
		publisher,
		metricsCollector,
		txMgr,
		minLead,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		createBookingUseCase,
		publisher,
		metricsCollector,
		txMgr,
		log,
	)
	getConsultantDetailUseCase := getConsultantDetailUC.NewUseCase(
		consultantRepository,
		profiles,
		catalogSvc,
		getAvailableSlotsUseCase,
		log,
	)
	completeBookingsUseCase := completeBookingsUC.NewUseCase(
		bookingRepository,
		publisher,
		metricsCollector,
		cfg.Booking.CompletionGrace(),
		log,
	)

	// Автозавершение прошедших консультаций
	scheduler := cron.New()
	if _, err := completeBookingsUseCase.Schedule(scheduler, cfg.Booking.CompletionSchedule); err != nil {
		log.Fatal("Failed to schedule booking completion: %v", err)
	}
	scheduler.Start()
	log.Info("Booking completion scheduled (%s, grace=%dm)",
		cfg.Booking.CompletionSchedule, cfg.Booking.CompletionGraceMinutes)

	// Handlers
	health := healthHandler.NewHandler(wrappedDB, log)
	listTemplates := listTemplatesHandler.NewHandler(catalogSvc, log)
	listDurations := listDurationsHandler.NewHandler(catalogSvc, log)
	upsertTemplate := upsertTemplateHandler.NewHandler(catalogSvc, log)
	upsertDuration := upsertDurationHandler.NewHandler(catalogSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)
	updateService := updateServiceHandler.NewHandler(catalogSvc, log)
	upsertPrice := upsertPriceHandler.NewHandler(catalogSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	setSchedule := setScheduleHandler.NewHandler(scheduleSvc, log)
	listBlocked := listBlockedHandler.NewHandler(scheduleSvc, log)
	addBlocked := addBlockedHandler.NewHandler(scheduleSvc, log)
	removeBlocked := removeBlockedHandler.NewHandler(scheduleSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getConsultantDetail := getConsultantDetailHandler.NewHandler(getConsultantDetailUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	transitionBooking := transitionBookingHandler.NewHandler(bookingSvc, log)
	updateExternalRefs := updateExternalRefsHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getConsultantBookings := getConsultantBookingsHandler.NewHandler(bookingSvc, log)

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.MetricsMiddleware(metricsCollector))
	r.Use(middleware.Deadline(time.Duration(cfg.Server.RequestTimeout) * time.Second))

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}
	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/templates", listTemplates.Handle).Methods(http.MethodGet)
	api.HandleFunc("/templates/{templateId}/durations", listDurations.Handle).Methods(http.MethodGet)
	api.HandleFunc("/consultants/{consultantId}", getConsultantDetail.Handle).Methods(http.MethodGet)
	api.HandleFunc("/consultants/{consultantId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Владелец и администратор видят неактивные услуги
	api.Handle("/consultants/{consultantId}/services",
		auth.Optional(http.HandlerFunc(listServices.Handle))).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Required)

	// --- Каталог ---
	protected.HandleFunc("/templates", upsertTemplate.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/templates/{templateId}/durations", upsertDuration.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/consultants/{consultantId}/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/consultants/{consultantId}/services/{serviceId}", updateService.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/consultants/{consultantId}/services/{serviceId}/prices/{durationOptionId}",
		upsertPrice.Handle).Methods(http.MethodPut)

	// --- Расписание ---
	protected.HandleFunc("/consultants/{consultantId}/schedule", getSchedule.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/consultants/{consultantId}/schedule", setSchedule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/consultants/{consultantId}/blocked", listBlocked.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/consultants/{consultantId}/blocked", addBlocked.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/consultants/{consultantId}/blocked/{blockedId}", removeBlocked.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/consultants/{consultantId}/bookings", getConsultantBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/external-refs", updateExternalRefs.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/{action:confirm|cancel|complete|delay}",
		transitionBooking.Handle).Methods(http.MethodPatch)

	// Запись ограничена по частоте с одного IP
	writes := protected.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter, err := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst,
			cfg.RateLimit.TrustedProxies, metricsCollector, log)
		if err != nil {
			log.Fatal("Failed to create rate limiter: %v", err)
		}
		go limiter.Run(stopMetricsCh)
		writes.Use(limiter.Middleware)
		log.Info("Booking rate limit enabled (%.2f rps, burst %d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	writes.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	writes.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся текущего прогона автозавершения
	select {
	case <-scheduler.Stop().Done():
	case <-ctx.Done():
		log.Warn("Booking completion did not finish before shutdown timeout")
	}

	close(stopMetricsCh)
	log.Info("Server exited")
}
