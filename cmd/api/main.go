package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/fazendagestaosvp/fazenda-vista-backend/api/routes"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/admin"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/animals"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/auth"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/calendar"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/documents"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/reproduction"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/roles"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/settings"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/users"
	"github.com/fazendagestaosvp/fazenda-vista-backend/internal/vieweraccess"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/auth/session"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/config"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/logger"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/metrics"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/migrate"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/redis"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.Storage, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap object storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing object storage", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	animalRepo := animals.NewRepository(gormDB)

	roleService, err := roles.NewService(roles.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create role service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		RoleService:    roleService,
		SessionManager: sessionManager,
		ResetTokens:    redisClient,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	profileService, err := users.NewService(userRepo, roleService)
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	animalService, err := animals.NewService(animalRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create animals service", err)
		os.Exit(1)
	}

	reproductionService, err := reproduction.NewService(reproduction.NewRepository(gormDB), animalRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reproduction service", err)
		os.Exit(1)
	}

	documentService, err := documents.NewService(documents.ServiceParams{
		Repo:        documents.NewRepository(gormDB),
		Blobs:       gcsClient,
		MaxUploadMB: cfg.Storage.MaxUploadMB,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create documents service", err)
		os.Exit(1)
	}

	calendarService, err := calendar.NewService(calendar.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create calendar service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settings.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(admin.ServiceParams{
		UserRepo:       userRepo,
		RoleService:    roleService,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	viewerAccessService, err := vieweraccess.NewService(vieweraccess.NewRepository(gormDB), roleService)
	if err != nil {
		logg.Error(context.Background(), "failed to create viewer access service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	handler := routes.NewRouter(cfg, logg, routes.Deps{
		DB:       dbClient,
		Redis:    redisClient,
		Storage:  gcsClient,
		Sessions: sessionManager,
		Registry: registry,
		Metrics:  httpMetrics,
	}, routes.Services{
		Auth:         authService,
		Users:        profileService,
		Animals:      animalService,
		Reproduction: reproductionService,
		Documents:    documentService,
		Calendar:     calendarService,
		Settings:     settingsService,
		Admin:        adminService,
		ViewerAccess: viewerAccessService,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
