package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"shiftpay/internal/db"
	"shiftpay/internal/domain/audit"
	"shiftpay/internal/domain/dispute"
	"shiftpay/internal/domain/payroll"
	"shiftpay/internal/domain/settlement"
	"shiftpay/internal/domain/worksession"
	"shiftpay/internal/platform/cache"
	"shiftpay/internal/platform/config"
	"shiftpay/internal/platform/metrics"
	audithandler "shiftpay/internal/transport/http/handlers/audit"
	disputehandler "shiftpay/internal/transport/http/handlers/dispute"
	payrollhandler "shiftpay/internal/transport/http/handlers/payroll"
	settlementhandler "shiftpay/internal/transport/http/handlers/settlement"
	worksessionhandler "shiftpay/internal/transport/http/handlers/worksession"
	"shiftpay/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

// New connects, migrates, and wires the full service graph.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if err := db.Seed(ctx, pool, cfg); err != nil {
		pool.Close()
		return nil, err
	}

	var payrollCache payroll.CacheAPI
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		payrollCache = cache.New(client, cfg.CacheTTL)
	}

	settlementStore := settlement.NewStore(pool)
	auditSvc := audit.New(pool)

	sessionSvc := worksession.NewService(worksession.NewStore(pool), settlementStore)
	payrollSvc := payroll.NewService(payroll.NewStore(pool), payrollCache, nil)
	disputeSvc := dispute.NewService(dispute.NewStore(pool), worksession.NewStore(pool), settlementStore, payrollSvc, auditSvc)
	settlementSvc := settlement.NewService(settlementStore, payrollSvc, auditSvc)
	if cfg.StatementDir != "" {
		settlementSvc.StatementDir = cfg.StatementDir
	}
	idem := middleware.NewIdempotencyStore(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	if cfg.RateLimitPerMinute > 0 {
		router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	}
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics)
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		worksessionhandler.NewHandler(sessionSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc, idem).RegisterRoutes(r)
		disputehandler.NewHandler(disputeSvc).RegisterRoutes(r)
		settlementhandler.NewHandler(settlementSvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
	})

	return &App{Config: cfg, DB: pool, Router: router}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("shiftpay server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
