package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	AppEnv      string
	CORSOrigins string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Credentials
	JWTSecret string
	JWTExpiry time.Duration
	OTPExpiry time.Duration

	// Text provider (Gemini)
	GeminiAPIKey string
	GeminiAPIURL string
	GeminiModel  string
	AITimeout    time.Duration

	// Image provider (ClipDrop)
	ClipdropAPIKey string
	ClipdropAPIURL string
	ImageTimeout   time.Duration

	// Object storage (S3 compatible)
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicURL       string

	// Mail
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string

	// Payments (Razorpay)
	RazorpayKeyID     string
	RazorpayKeySecret string
	PlanAmount        int64
	PlanCurrency      string

	LogRetention time.Duration
	SentryDSN    string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "5000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "brayn"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "brayn.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "168h"), 7*24*time.Hour),
		OTPExpiry: parseDuration(getEnv("OTP_EXPIRY", "10m"), 10*time.Minute),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiAPIURL: getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		AITimeout:    parseDuration(getEnv("AI_TIMEOUT", "60s"), 60*time.Second),

		ClipdropAPIKey: getEnv("CLIPDROP_API_KEY", ""),
		ClipdropAPIURL: getEnv("CLIPDROP_API_URL", "https://clipdrop-api.co"),
		ImageTimeout:   parseDuration(getEnv("IMAGE_TIMEOUT", "30s"), 30*time.Second),

		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3PublicURL:       getEnv("S3_PUBLIC_URL", ""),

		SMTPHost: getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: parseInt(getEnv("SMTP_PORT", "587"), 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),

		RazorpayKeyID:     getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
		PlanAmount:        int64(parseInt(getEnv("PLAN_AMOUNT", "49900"), 49900)),
		PlanCurrency:      getEnv("PLAN_CURRENCY", "INR"),

		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 30*24*time.Hour),
		SentryDSN:    getEnv("SENTRY_DSN", ""),
	}
}

// Validate reports every required setting that is missing.
func (c *Config) Validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.DBDriver == "postgres" && c.DBPassword == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if c.RazorpayKeySecret == "" {
		missing = append(missing, "RAZORPAY_KEY_SECRET")
	}
	if len(missing) > 0 {
		return errors.New("missing required environment variables: " + strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
