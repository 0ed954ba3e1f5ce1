package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	SMTP       SMTPConfig
	Keys       APIKeys
	Scraper    ScraperConfig
	Resilience ResilienceConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host          string
	Port          int
	Email         string
	Password      string
	SenderName    string
	ApprovalEmail string
}

type APIKeys struct {
	BusinessRegistry    string
	BusinessRegistryURL string
}

type ScraperConfig struct {
	Platforms  []string
	CacheTTL   time.Duration
	Preference string
}

// DependencyClassConfig bundles the rate/circuit/retry parameters for
// one external dependency class. One breaker and one limiter built from
// it are shared process-wide.
type DependencyClassConfig struct {
	FailureThreshold int
	RecoveryTimeout  time.Duration
	MaxCalls         int
	Window           time.Duration
	RetryAttempts    int
	RetryBaseDelay   time.Duration
	RetryMaxDelay    time.Duration
}

type ResilienceConfig struct {
	Market           DependencyClassConfig
	Compliance       DependencyClassConfig
	WorkflowFailures int
	WorkflowRecovery time.Duration
	WorkflowTimeout  time.Duration
	VerificationTTL  time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:          getEnv("SMTP_HOST", ""),
			Port:          getEnvAsInt("SMTP_PORT", 587),
			Email:         getEnv("SMTP_EMAIL", ""),
			Password:      getEnv("SMTP_PASSWORD", ""),
			SenderName:    getEnv("SMTP_SENDER_NAME", "Procurement Pipeline"),
			ApprovalEmail: getEnv("APPROVAL_ALERT_EMAIL", ""),
		},
		Keys: APIKeys{
			BusinessRegistry:    getEnv("BUSINESS_REGISTRY_API_KEY", ""),
			BusinessRegistryURL: getEnv("BUSINESS_REGISTRY_URL", "https://api.business-registry.example.com"),
		},
		Scraper: ScraperConfig{
			Platforms:  splitCSV(getEnv("SCRAPER_PLATFORMS", "jumia,kilimall")),
			CacheTTL:   getEnvAsDuration("SCRAPER_CACHE_TTL_SECONDS", 15*time.Minute),
			Preference: getEnv("SCRAPER_PREFERENCE", "cheapest"),
		},
		Resilience: ResilienceConfig{
			Market: DependencyClassConfig{
				FailureThreshold: getEnvAsInt("MARKET_FAILURE_THRESHOLD", 3),
				RecoveryTimeout:  getEnvAsDuration("MARKET_RECOVERY_TIMEOUT_SECONDS", 60*time.Second),
				MaxCalls:         getEnvAsInt("MARKET_MAX_CALLS", 5),
				Window:           getEnvAsDuration("MARKET_WINDOW_SECONDS", 60*time.Second),
				RetryAttempts:    getEnvAsInt("MARKET_RETRY_ATTEMPTS", 3),
				RetryBaseDelay:   getEnvAsDuration("MARKET_RETRY_BASE_DELAY_SECONDS", 1*time.Second),
				RetryMaxDelay:    getEnvAsDuration("MARKET_RETRY_MAX_DELAY_SECONDS", 10*time.Second),
			},
			Compliance: DependencyClassConfig{
				FailureThreshold: getEnvAsInt("COMPLIANCE_FAILURE_THRESHOLD", 5),
				RecoveryTimeout:  getEnvAsDuration("COMPLIANCE_RECOVERY_TIMEOUT_SECONDS", 120*time.Second),
				MaxCalls:         getEnvAsInt("COMPLIANCE_MAX_CALLS", 3),
				Window:           getEnvAsDuration("COMPLIANCE_WINDOW_SECONDS", 10*time.Second),
				RetryAttempts:    getEnvAsInt("COMPLIANCE_RETRY_ATTEMPTS", 2),
				RetryBaseDelay:   getEnvAsDuration("COMPLIANCE_RETRY_BASE_DELAY_SECONDS", 1*time.Second),
				RetryMaxDelay:    getEnvAsDuration("COMPLIANCE_RETRY_MAX_DELAY_SECONDS", 8*time.Second),
			},
			WorkflowFailures: getEnvAsInt("WORKFLOW_FAILURE_THRESHOLD", 3),
			WorkflowRecovery: getEnvAsDuration("WORKFLOW_RECOVERY_TIMEOUT_SECONDS", 120*time.Second),
			WorkflowTimeout:  getEnvAsDuration("WORKFLOW_TIMEOUT_SECONDS", 300*time.Second),
			VerificationTTL:  getEnvAsDuration("VERIFICATION_CACHE_TTL_SECONDS", time.Hour),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if seconds, err := strconv.Atoi(strValue); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
