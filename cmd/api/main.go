package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	_ "github.com/ritmoapp/ritmo-engine/docs"
	"github.com/ritmoapp/ritmo-engine/internal/adapters/cache"
	adapterHTTP "github.com/ritmoapp/ritmo-engine/internal/adapters/handler/http"
	"github.com/ritmoapp/ritmo-engine/internal/adapters/kvstore"
	"github.com/ritmoapp/ritmo-engine/internal/adapters/repository"
	"github.com/ritmoapp/ritmo-engine/internal/config"
	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-engine/internal/core/services"
	"github.com/ritmoapp/ritmo-engine/internal/core/workers"
)

// @title        Ritmo Engine API
// @version      1.0
// @description  Habit tracking backend with completion, streak and statistics endpoints.
// @BasePath     /api/v1
func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}

	ctx := context.Background()

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("Warning: Redis unavailable, continuing without it: %v", err)
			rdb = nil
		} else {
			log.Println("Redis connected successfully.")
		}
	}

	var (
		db        *sqlx.DB
		habitRepo domain.HabitRepository
		entryRepo domain.EntryRepository
		userRepo  domain.UserRepository
	)

	switch cfg.StorageBackend {
	case config.StoragePostgres:
		log.Println("Connecting to database...")

		db, err = sqlx.Connect("pgx", cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("Critical: Failed to connect to database: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		log.Println("Database connected successfully.")

		habitRepo = repository.NewPostgresHabitRepository(db)
		entryRepo = repository.NewPostgresEntryRepository(db)
		userRepo = repository.NewPostgresUserRepository(db)

	case config.StorageFile:
		var store kvstore.Store
		if rdb != nil {
			store = kvstore.NewRedisStore(rdb, "ritmo")
			log.Println("Using Redis blob storage.")
		} else {
			store, err = kvstore.NewFileStore(cfg.DataDir)
			if err != nil {
				log.Fatalf("Critical: Failed to open data directory: %v", err)
			}
			log.Printf("Using file storage at %s.", cfg.DataDir)
		}

		habitRepo, err = repository.NewKVHabitRepository(ctx, store)
		if err != nil {
			log.Fatalf("Critical: Failed to load habits: %v", err)
		}
		entryRepo, err = repository.NewKVEntryRepository(ctx, store)
		if err != nil {
			log.Fatalf("Critical: Failed to load entries: %v", err)
		}
		userRepo, err = repository.NewKVUserRepository(ctx, store)
		if err != nil {
			log.Fatalf("Critical: Failed to load users: %v", err)
		}
	}

	if rdb != nil {
		habitRepo = repository.NewCachedHabitRepository(habitRepo, rdb)
	}

	streakWorker := workers.NewStreakWorker(habitRepo, entryRepo)
	workerCtx, stopWorker := context.WithCancel(ctx)
	streakWorker.Start(workerCtx)

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authService := services.NewAuthService(userRepo, tokenService)
	habitService := services.NewHabitService(habitRepo, entryRepo)
	entryService := services.NewEntryService(entryRepo, habitRepo, streakWorker)
	statsService := services.NewStatsService(habitRepo, entryRepo)
	insightService := services.NewInsightService(habitRepo, entryRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:    adapterHTTP.NewAuthHandler(authService),
		HabitHandler:   adapterHTTP.NewHabitHandler(habitService),
		EntryHandler:   adapterHTTP.NewEntryHandler(entryService),
		StatsHandler:   adapterHTTP.NewStatsHandler(statsService),
		InsightHandler: adapterHTTP.NewInsightHandler(insightService),
		TokenService:   tokenService,
		DB:             db,
		Redis:          rdb,
		StartTime:      startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Ritmo Engine running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
