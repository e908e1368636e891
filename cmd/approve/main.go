package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"guest_reviews/internal/adapters/observability"
	redisad "guest_reviews/internal/adapters/redis"
	"guest_reviews/internal/domain"
	"guest_reviews/internal/shared"
	mysqlrepo "guest_reviews/internal/storage/mysql"
)

func main() {
	revoke := flag.Bool("revoke", false, "remove the ids from the approved set instead of adding them")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: approve [-revoke] <review-id>...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx := context.Background()
	_ = godotenv.Load()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ids := uniqueIDs(flag.Args())
	if len(ids) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	backend := openBackend(ctx, cfg)
	log.Info().
		Str("backend", cfg.ApprovalBackend).
		Int("workers", cfg.Workers).
		Int("ids", len(ids)).
		Bool("revoke", *revoke).
		Msg("approve starting")

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup
	var failed atomic.Int64

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			defer sem.Release(1)

			var err error
			if *revoke {
				err = backend.Remove(ctx, id)
			} else {
				err = backend.Add(ctx, id)
			}
			if err != nil {
				failed.Add(1)
				log.Warn().Str("id", id).Err(err).Msg("approval update failed")
				return
			}
			log.Info().Str("id", id).Bool("approved", !*revoke).Msg("approval updated")
		}(id)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Error().Int64("failed", n).Msg("approve finished with errors")
		os.Exit(1)
	}
	log.Info().Msg("approve completed")
}

// openBackend connects the durable store. The volatile tier is process-local,
// so writing to it from a one-shot command would be lost on exit.
func openBackend(ctx context.Context, cfg shared.Config) domain.ApprovalBackend {
	switch cfg.ApprovalBackend {
	case "redis":
		r := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.ApprovalKey)
		if err := r.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("redis ping failed")
		}
		return r
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		repo := mysqlrepo.New(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("approval schema setup failed")
		}
		return repo
	default:
		log.Fatal().Str("backend", cfg.ApprovalBackend).Msg("approve needs a durable backend (redis or mysql)")
		return nil
	}
}

func uniqueIDs(args []string) []string {
	seen := make(map[string]struct{}, len(args))
	out := make([]string, 0, len(args))
	for _, a := range args {
		for _, id := range strings.Split(a, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
