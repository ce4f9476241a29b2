package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort      string
	DatabasePath string

	LogLevel string
	LogJSON  bool
	LogFile  string

	// Rate limit for mutating routes
	RateLimit  int
	RateWindow int
}

// Load reads configuration from the environment
func Load() *Config {
	_ = godotenv.Load()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "5000"
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "tasks.db"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	logJSON := os.Getenv("LOG_JSON") == "true"

	logFile := "task_tracker.log"
	if v, ok := os.LookupEnv("LOG_FILE"); ok {
		logFile = v // empty value disables the file sink
	}

	rateLimit := 60
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateLimit = n
		}
	}

	rateWindow := 60 // seconds
	if v := os.Getenv("RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			rateWindow = n
		}
	}

	return &Config{
		AppPort:      port,
		DatabasePath: dbPath,
		LogLevel:     logLevel,
		LogJSON:      logJSON,
		LogFile:      logFile,
		RateLimit:    rateLimit,
		RateWindow:   rateWindow,
	}
}
