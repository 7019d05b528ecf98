package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the gateway's environment-provided configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string
	// AppDomain is the application origin: the only CORS allow-origin and
	// the required Referer prefix for downloads.
	AppDomain string
	// TurnstileSecret enables human verification when non-empty. Empty
	// means verification is disabled (open/dev mode, logged at startup).
	TurnstileSecret string
	// CookieFile optionally points at a Netscape cookies.txt consumed by
	// the upstream media fetches.
	CookieFile string
	// CacheCapacity bounds the metadata cache (LRU eviction).
	CacheCapacity int

	LogLevel  string
	LogFormat string
}

// Load reads the .env file from the current working directory and sets
// environment variables. If .env does not exist, Load returns an error but
// callers can ignore it and use system env or defaults. Pass one or more
// paths to load from specific files; with no paths, ".env" is used.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// FromEnv builds a Config from environment variables, applying defaults for
// anything unset.
func FromEnv() Config {
	return Config{
		Port:            getEnv("PORT", "8080"),
		AppDomain:       getEnv("APP_DOMAIN", "https://d.end.yt"),
		TurnstileSecret: getEnv("TURNSTILE_SECRET", ""),
		CookieFile:      getEnv("COOKIE_FILE", ""),
		CacheCapacity:   getEnvInt("CACHE_CAPACITY", 256),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
	}
}

// getEnv returns the value of the environment variable named by key, or
// fallback if the variable is unset or empty.
func getEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// getEnvInt returns the integer value of the environment variable named by
// key, or fallback if the variable is unset, empty, or not a valid integer.
func getEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}
