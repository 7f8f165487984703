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

	cancelBookingHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/complete_booking"
	confirmBookingHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/get_booking"
	getBookingPaymentHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/get_booking_payment"
	getCustomerBookingsHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/get_customer_bookings"
	getVenueBookingsHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/get_venue_bookings"
	getVenueScheduleHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/get_venue_schedule"
	initiatePaymentHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/initiate_payment"
	paymentWebhookHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/payment_webhook"
	refundPaymentHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/refund_payment"
	rescheduleBookingHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/reschedule_booking"
	updateVenueScheduleHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/update_venue_schedule"
	verifyPaymentHandler "github.com/m04kA/VMP-BookingService/internal/api/handlers/verify_payment"
	"github.com/m04kA/VMP-BookingService/internal/api/middleware"
	"github.com/m04kA/VMP-BookingService/internal/config"
	bookingRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/booking"
	offerRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/offer"
	paymentRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/payment"
	scheduleRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/schedule"
	"github.com/m04kA/VMP-BookingService/internal/integrations/paygate"
	bookingsService "github.com/m04kA/VMP-BookingService/internal/service/bookings"
	paymentsService "github.com/m04kA/VMP-BookingService/internal/service/payments"
	scheduleService "github.com/m04kA/VMP-BookingService/internal/service/schedule"
	createBookingUC "github.com/m04kA/VMP-BookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/VMP-BookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/VMP-BookingService/pkg/dbmetrics"
	"github.com/m04kA/VMP-BookingService/pkg/logger"
	"github.com/m04kA/VMP-BookingService/pkg/metrics"
	"github.com/m04kA/VMP-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/VMP-BookingService/pkg/txmanager"
)

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

	log.Info("Starting VMP-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиента платежного шлюза
	gatewayClient := paygate.NewClient(
		cfg.Gateway.BaseURL,
		cfg.Gateway.Username,
		cfg.Gateway.Password,
		cfg.Gateway.TerminalID,
		time.Duration(cfg.Gateway.Timeout)*time.Second,
		log,
	)
	log.Info("Payment gateway client initialized (url=%s, timeout=%ds)",
		cfg.Gateway.BaseURL, cfg.Gateway.Timeout)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		offerRepository    *offerRepo.Repository
		paymentRepository  *paymentRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		offerRepository = offerRepo.NewRepository(wrappedDB)
		paymentRepository = paymentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		offerRepository = offerRepo.NewRepository(db)
		paymentRepository = paymentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	timeProvider := &bookingsService.RealTimeProvider{}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		scheduleRepository,
		offerRepository,
		txMgr,
		timeProvider,
		log,
	)
	paymentSvc := paymentsService.NewService(
		paymentRepository,
		bookingRepository,
		scheduleRepository,
		bookingSvc,
		gatewayClient,
		txMgr,
		timeProvider,
		log,
		paymentsService.Config{
			ReturnURL:       cfg.Gateway.ReturnURL,
			NotificationURL: cfg.Gateway.NotificationURL,
		},
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		offerRepository,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getVenueBookings := getVenueBookingsHandler.NewHandler(bookingSvc, log)
	initiatePayment := initiatePaymentHandler.NewHandler(paymentSvc, log)
	getBookingPayment := getBookingPaymentHandler.NewHandler(paymentSvc, log)
	verifyPayment := verifyPaymentHandler.NewHandler(paymentSvc, log)
	refundPayment := refundPaymentHandler.NewHandler(paymentSvc, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(paymentSvc, log)
	getVenueSchedule := getVenueScheduleHandler.NewHandler(scheduleSvc, log)
	updateVenueSchedule := updateVenueScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

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

	// Слоты площадки на одну дату
	api.HandleFunc("/venues/{venueId}/availability",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Доступность площадки на неделю вперед
	api.HandleFunc("/venues/{venueId}/availability/week",
		getAvailableSlots.HandleWeek).Methods(http.MethodGet)

	// Недельное расписание площадки
	api.HandleFunc("/venues/{venueId}/schedule",
		getVenueSchedule.Handle).Methods(http.MethodGet)

	// Уведомления платежного шлюза (аутентификация на стороне шлюза)
	api.HandleFunc("/payments/webhook",
		paymentWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Управление площадкой (для владельцев) ---
	protected.HandleFunc("/venues/{venueId}/bookings", getVenueBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/venues/{venueId}/schedule", updateVenueSchedule.Handle).Methods(http.MethodPut)

	// --- Платежи ---
	protected.HandleFunc("/bookings/{bookingId}/payment", initiatePayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/payment", getBookingPayment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/payments/{paymentId}/verify", verifyPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/payments/{paymentId}/refund", refundPayment.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
