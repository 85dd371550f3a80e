package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SameepSkillup/clinic-api/internal/config"
	"github.com/SameepSkillup/clinic-api/internal/email"
	"github.com/SameepSkillup/clinic-api/internal/handler"
	appointmentHandler "github.com/SameepSkillup/clinic-api/internal/handler/appointment"
	authHandler "github.com/SameepSkillup/clinic-api/internal/handler/auth"
	doctorHandler "github.com/SameepSkillup/clinic-api/internal/handler/doctor"
	patientHandler "github.com/SameepSkillup/clinic-api/internal/handler/patient"
	prescriptionHandler "github.com/SameepSkillup/clinic-api/internal/handler/prescription"
	"github.com/SameepSkillup/clinic-api/internal/middleware"
	"github.com/SameepSkillup/clinic-api/internal/repository/postgres"
	"github.com/SameepSkillup/clinic-api/internal/router"
	appointmentService "github.com/SameepSkillup/clinic-api/internal/service/appointment"
	authService "github.com/SameepSkillup/clinic-api/internal/service/auth"
	doctorService "github.com/SameepSkillup/clinic-api/internal/service/doctor"
	patientService "github.com/SameepSkillup/clinic-api/internal/service/patient"
	prescriptionService "github.com/SameepSkillup/clinic-api/internal/service/prescription"
	"github.com/SameepSkillup/clinic-api/internal/service/schedule"
	"github.com/SameepSkillup/clinic-api/pkg/lock"
	"github.com/SameepSkillup/clinic-api/pkg/logger"
	"github.com/SameepSkillup/clinic-api/pkg/metrics"
	"github.com/SameepSkillup/clinic-api/pkg/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(&logger.Config{
		Level:      zerolog.InfoLevel,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     true,
	})
	log.Logger = appLogger

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	adminRepo := postgres.NewAdminRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)

	// Booking lock: redis when configured, in-process otherwise.
	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to parse redis URL")
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		locker = lock.NewRedisLocker(client, cfg.Redis.LockTTL())
	}

	var notifier email.Service = email.NewNoopService()
	if cfg.SMTP.Enabled() {
		notifier = email.NewSMTPService(cfg.SMTP)
	}

	m := metrics.New("clinic", prometheus.DefaultRegisterer)
	tokens := token.NewService(cfg.JWT.Secret, cfg.JWT.Lifetime())

	// Services
	calendar := schedule.NewCalendar(appointmentRepo)
	doctorSvc := doctorService.NewService(doctorRepo, appointmentRepo)
	patientSvc := patientService.NewService(patientRepo)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo, doctorRepo, patientRepo, calendar, locker, notifier, m, appLogger,
	)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, appointmentSvc)
	authSvc := authService.NewService(adminRepo, doctorRepo, patientRepo, tokens)

	// Handlers
	handler.RegisterValidations()
	gate := middleware.NewAuthMiddleware(tokens)
	h := handler.NewHandler(db)

	r := router.New(
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
			RequestTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORS:           middleware.DefaultCORSConfig(),
		},
		h,
		m,
		authHandler.NewHandler(authSvc),
		doctorHandler.NewHandler(doctorSvc, appointmentSvc, gate),
		patientHandler.NewHandler(patientSvc, appointmentSvc, gate),
		appointmentHandler.NewHandler(appointmentSvc, doctorSvc, patientSvc, gate),
		prescriptionHandler.NewHandler(prescriptionSvc, gate),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
