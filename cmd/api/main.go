package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"guest_reviews/internal/adapters/hostaway"
	server "guest_reviews/internal/adapters/http_server"
	"guest_reviews/internal/adapters/memory"
	"guest_reviews/internal/adapters/observability"
	redisad "guest_reviews/internal/adapters/redis"
	"guest_reviews/internal/adapters/sanitize"
	"guest_reviews/internal/app"
	"guest_reviews/internal/domain"
	"guest_reviews/internal/shared"
	mysqlrepo "guest_reviews/internal/storage/mysql"
)

func main() {
	// .env is optional; real env vars win
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// deps
	approvals := app.NewApprovalService(approvalBackend(cfg), memory.NewApprovalSet())
	client := hostaway.New(hostaway.Credentials{
		BaseURL:   cfg.HostawayBase,
		AccountID: cfg.HostawayAccount,
		APIKey:    cfg.HostawayKey,
	}, cfg.HostawayRPS, cfg.HostawayTimeout)
	svc := app.NewReviewService(hostaway.NewSource(client), approvals, sanitize.NewPlainText())

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Reviews: svc})

	log.Info().Str("addr", cfg.HTTPAddr).Str("approvals", cfg.ApprovalBackend).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// approvalBackend returns nil when approvals should live in memory only.
// An unreachable backend is not fatal: the approval service degrades per request.
func approvalBackend(cfg shared.Config) domain.ApprovalBackend {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch cfg.ApprovalBackend {
	case "redis":
		r := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.ApprovalKey)
		if err := r.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		} else {
			log.Info().Msg("redis connection ok")
		}
		return r
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		repo := mysqlrepo.New(db)
		if err := db.PingContext(ctx); err != nil {
			log.Warn().Err(err).Msg("db.Ping failed")
			return repo
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("approval schema setup failed")
		}
		log.Info().Msg("database connection ok")
		return repo
	default:
		log.Warn().Msg("approvals are kept in memory and reset on restart")
		return nil
	}
}
