package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ukydev/fleet-dashboard/internal/apperr"
)

// Config holds all runtime settings for the dashboard backend.
type Config struct {
	StoreURL      string
	StoreKey      string
	StoreUser     string
	StoreDatabase string
	StoreTimeout  time.Duration
	EnsureIndexes bool

	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	CORSOrigin      string

	JWTSecret string
	JWTExpiry time.Duration

	ReloadInterval time.Duration
	FlashTTL       time.Duration

	MQTTBroker      string
	MQTTClientID    string
	MQTTTopicPrefix string

	SeedAdminEmail    string
	SeedAdminPassword string

	SimulationSeed int64

	LogLevel      string
	LogFormat     string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// Load reads a .env file when one exists, then the process environment.
// STORE_URL and STORE_KEY are required; without them no store call may be made.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		StoreURL:      os.Getenv("STORE_URL"),
		StoreKey:      os.Getenv("STORE_KEY"),
		StoreUser:     getEnv("STORE_USER", "fleet"),
		StoreDatabase: getEnv("STORE_DATABASE", "fleet"),
		StoreTimeout:  getDurationEnv("STORE_TIMEOUT", 10*time.Second),
		EnsureIndexes: getBoolEnv("STORE_ENSURE_INDEXES", true),

		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:     getDurationEnv("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),
		RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", 10*time.Second),
		CORSOrigin:      getEnv("CORS_ORIGIN", "*"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTExpiry: getDurationEnv("JWT_EXPIRY", 24*time.Hour),

		ReloadInterval: getDurationEnv("RELOAD_INTERVAL", 30*time.Second),
		FlashTTL:       getDurationEnv("FLASH_TTL", 5*time.Second),

		MQTTBroker:      os.Getenv("MQTT_BROKER"),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "fleet-dashboard"),
		MQTTTopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "fleet"),

		SeedAdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),

		SimulationSeed: int64(getIntEnv("SIMULATION_SEED", 0)),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		LogFile:       os.Getenv("LOG_FILE"),
		LogMaxSizeMB:  getIntEnv("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getIntEnv("LOG_MAX_BACKUPS", 7),
		LogMaxAgeDays: getIntEnv("LOG_MAX_AGE_DAYS", 7),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings every store operation depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StoreURL) == "" {
		return &apperr.ConfigurationError{Setting: "STORE_URL", Reason: "is required"}
	}
	if strings.TrimSpace(c.StoreKey) == "" {
		return &apperr.ConfigurationError{Setting: "STORE_KEY", Reason: "is required"}
	}
	if c.ReloadInterval <= 0 {
		return &apperr.ConfigurationError{Setting: "RELOAD_INTERVAL", Reason: "must be positive"}
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
