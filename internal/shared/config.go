package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	MetricsAddr     string
	ApprovalBackend string
	ApprovalKey     string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	HostawayBase    string
	HostawayAccount string
	HostawayKey     string
	HostawayRPS     int
	HostawayTimeout time.Duration
	Workers         int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ":9100"),
		ApprovalBackend: strings.ToLower(env("APPROVAL_BACKEND", "redis")),
		ApprovalKey:     env("APPROVAL_KEY", "approved:ids"),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/reviews?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisDB:         atoi("REDIS_DB", 0),
		RedisPass:       env("REDIS_PASSWORD", ""),
		HostawayBase:    env("HOSTAWAY_API_BASE", "https://api.hostaway.com"),
		HostawayAccount: os.Getenv("HOSTAWAY_ACCOUNT_ID"),
		HostawayKey:     os.Getenv("HOSTAWAY_API_KEY"),
		HostawayRPS:     atoi("HOSTAWAY_RPS", 5),
		HostawayTimeout: time.Duration(atoi("HOSTAWAY_TIMEOUT_SECONDS", 10)) * time.Second,
		Workers:         atoi("APPROVE_WORKERS", 8),
	}
	switch c.ApprovalBackend {
	case "redis", "mysql", "memory":
	default:
		log.Warn().Str("backend", c.ApprovalBackend).Msg("unknown APPROVAL_BACKEND, using memory")
		c.ApprovalBackend = "memory"
	}
	if c.HostawayAccount == "" || c.HostawayKey == "" {
		log.Warn().Msg("Hostaway credentials are empty; serving mock reviews")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
