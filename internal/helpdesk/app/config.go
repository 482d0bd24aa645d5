package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	SessionSecret string // Required: HMAC secret for session tokens

	Issuer       string        // Optional: issuer claim for session tokens (default: vvp-helpdesk)
	SessionTTL   time.Duration // Optional: session token lifetime (default: 12h)
	DatabaseFile string        // Optional: path to SQLite database file (default: ./helpdesk.db)
	EmailDomain  string        // Optional: allowed account email domain (default: vvpedulink.ac.in)

	ThrottleMaxAttempts int           // Optional: login failures before lockout (default: 5)
	ThrottleWindow      time.Duration // Optional: lockout window (default: 15m)
	AllowDirectClose    bool          // Optional: owner may close an open issue directly (default: true)

	AdminToken string // Optional: token gating device registry mutations; empty disables them

	SMTPAddr      string // Optional: host:port of the mail relay; empty logs instead of mailing
	SMTPFrom      string // Optional: From address for notification mail
	SMTPRecipient string // Optional: the helpdesk inbox notifications go to

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads configuration from the environment, merging in a .env
// file when one is present.
func LoadConfig() Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return Config{
		SessionSecret: os.Getenv("HELPDESK_SESSION_SECRET"),

		Issuer:       getEnvOrDefault("HELPDESK_ISSUER", "vvp-helpdesk"),
		SessionTTL:   getEnvDurationOrDefault("HELPDESK_SESSION_TTL", 12*time.Hour),
		DatabaseFile: getEnvOrDefault("HELPDESK_DATABASE_FILE", "helpdesk.db"),
		EmailDomain:  getEnvOrDefault("HELPDESK_EMAIL_DOMAIN", "vvpedulink.ac.in"),

		ThrottleMaxAttempts: getEnvIntOrDefault("HELPDESK_THROTTLE_MAX_ATTEMPTS", 5),
		ThrottleWindow:      getEnvDurationOrDefault("HELPDESK_THROTTLE_WINDOW", 15*time.Minute),
		AllowDirectClose:    getEnvBoolOrDefault("HELPDESK_ALLOW_DIRECT_CLOSE", true),

		AdminToken: os.Getenv("HELPDESK_ADMIN_TOKEN"),

		SMTPAddr:      os.Getenv("HELPDESK_SMTP_ADDR"),
		SMTPFrom:      getEnvOrDefault("HELPDESK_SMTP_FROM", "helpdesk@vvpedulink.ac.in"),
		SMTPRecipient: getEnvOrDefault("HELPDESK_SMTP_RECIPIENT", "itsupport@vvpedulink.ac.in"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are taken as seconds, matching older deployments.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
