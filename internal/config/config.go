package config

import (
	"os"
	"strconv"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"hello-users-api/internal/logx"
)

var configLogger = logx.GetScope("config")

// DefaultAddr is the fixed bind address; it is not read from the environment.
const DefaultAddr = "127.0.0.1:3000"

// Config holds the application configuration
type Config struct {
	AppEnv string
	Server struct {
		Addr string
	}
	Log struct {
		Level  string // debug, info, warn, error
		Format string // text, json
		File   string // optional rotated log file
	}
	RateLimit struct {
		Max       int // 0 disables
		WindowSec int
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Apollo struct {
		Enable    bool
		AppID     string
		Cluster   string
		Namespace string
		Addrs     string
		AccessKey string
	}
}

// Load loads config from env, and if enabled, overrides with Apollo values.
// Returns config, its store, optional apollo closer, and error.
func Load() (*Config, *Store, func(), error) {
	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.Server.Addr = DefaultAddr
	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "text")
	cfg.Log.File = getEnv("LOG_FILE", "")

	cfg.RateLimit.Max = getInt("RATE_LIMIT_MAX", 0)
	cfg.RateLimit.WindowSec = getInt("RATE_LIMIT_WINDOW_SEC", 60)

	// Redis
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getInt("REDIS_DB", 0)

	cfg.Apollo.Enable = getBool("APOLLO_ENABLE", false)
	cfg.Apollo.AppID = getEnv("APOLLO_APP_ID", "")
	cfg.Apollo.Cluster = getEnv("APOLLO_CLUSTER", "default")
	cfg.Apollo.Namespace = getEnv("APOLLO_NAMESPACE", "application")
	cfg.Apollo.Addrs = getEnv("APOLLO_ADDRS", "")
	cfg.Apollo.AccessKey = getEnv("APOLLO_ACCESS_KEY", "")

	if err := ValidateLog(cfg, nil); err != nil {
		configLogger.Warn("invalid log settings; using info/text", zap.Error(err))
		cfg.Log.Level, cfg.Log.Format = "info", "text"
	}

	store := NewStore(cfg)
	store.AddValidator(ValidateLog)

	if cfg.Apollo.Enable {
		closer, err := overrideFromApollo(cfg, store)
		if err != nil {
			configLogger.Sugar().Errorf("apollo override failed: %v", err)
			return cfg, store, closer, err
		}
		return store.Get(), store, closer, nil
	}

	return cfg, store, nil, nil
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	return lo.Ternary(v != "", v, def)
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
