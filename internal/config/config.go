package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// RedisAddr switches the session store to redis when set; empty keeps
	// the in-process memory store.
	RedisAddr  string
	SessionTTL time.Duration

	// CatalogPath overrides the embedded question/course catalog.
	CatalogPath string

	// WebhookURL is the external "save results" endpoint (spreadsheet
	// bridge). Empty disables forwarding; records are still stored locally.
	WebhookURL string

	CORSOrigins []string

	AdminUser     string
	AdminPassHash string // bcrypt
	AuthSecret    string // HMAC for admin JWTs
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:      addr,
		DBDriver:      envOr("DB_DRIVER", "sqlite"),
		DBDSN:         envOr("DB_DSN", ""),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		SessionTTL:    envDuration("SESSION_TTL", 24*time.Hour),
		CatalogPath:   os.Getenv("CATALOG_PATH"),
		WebhookURL:    os.Getenv("WEBHOOK_URL"),
		CORSOrigins:   csvOr("CORS_ORIGINS", "http://localhost:3000"),
		AdminUser:     envOr("ADMIN_USER", "admin"),
		AdminPassHash: envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		AuthSecret:    envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
