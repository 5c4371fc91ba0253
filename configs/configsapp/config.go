package configsapp

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"hediye.link/configs/configslog"
)

// Config uygulamanın tüm ortam ayarlarını tek yerde toplar.
type Config struct {
	AppEnv  string
	Port    string
	BaseURL string

	JWTSecret     string
	JWTExpiry     time.Duration
	SessionCookie string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	S3Bucket string
	S3Region string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeCurrency      string

	PayoutPollInterval time.Duration
}

var cfg *Config

// Load .env dosyasını (varsa) okur ve Config'i doldurur.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		configslog.SLog.Info(".env dosyası bulunamadı, mevcut ortam değişkenleri kullanılacak.")
	}

	cfg = &Config{
		AppEnv:  getEnv("APP_ENV", "development"),
		Port:    getEnv("APP_PORT", "3000"),
		BaseURL: getEnv("APP_BASE_URL", "http://localhost:3000"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiry:     getDuration("JWT_EXPIRY", 24*time.Hour),
		SessionCookie: getEnv("SESSION_COOKIE_NAME", "hediye_token"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "noreply@hediye.link"),

		S3Bucket: getEnv("S3_BUCKET", ""),
		S3Region: getEnv("S3_REGION", "eu-central-1"),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripeCurrency:      getEnv("STRIPE_CURRENCY", "try"),

		PayoutPollInterval: getDuration("PAYOUT_POLL_INTERVAL", time.Hour),
	}

	if cfg.JWTSecret == "" {
		configslog.SLog.Warn("JWT_SECRET tanımlı değil, oturum token'ları güvensiz olacaktır.")
	}

	return cfg
}

// Get yüklenmiş Config'i döndürür. Load çağrılmadıysa varsayılanlarla yükler.
func Get() *Config {
	if cfg == nil {
		return Load()
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
