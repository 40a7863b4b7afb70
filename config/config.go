package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Restaurant RestaurantConfig
	Stripe     StripeConfig
	OpenAI     OpenAIConfig
	Twilio     TwilioConfig
	Jobs       JobsConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	LogLevel    string
	CORSOrigins []string
	AppURL      string
}

type DatabaseConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

type RestaurantConfig struct {
	Name     string
	Timezone *time.Location
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	Timeout       time.Duration
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
}

type JobsConfig struct {
	ReminderCron   string
	CleanupCron    string
	ChatSessionTTL time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("APP_URL", "http://localhost:3000")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("RESTAURANT_NAME", "Eataliano")
	v.SetDefault("RESTAURANT_TIMEZONE", "Europe/Amsterdam")
	v.SetDefault("STRIPE_CURRENCY", "eur")
	v.SetDefault("PAYMENT_TIMEOUT", "15s")
	v.SetDefault("OPENAI_MODEL", "gpt-4o")
	v.SetDefault("LLM_TIMEOUT", "30s")
	v.SetDefault("REMINDER_CRON", "0 10 * * *")
	v.SetDefault("CLEANUP_CRON", "30 3 * * *")
	v.SetDefault("CHAT_SESSION_TTL", "720h")
}

// Load reads .env (if present) and the process environment. Environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	tz, err := time.LoadLocation(v.GetString("RESTAURANT_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid RESTAURANT_TIMEZONE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetString("PORT"),
			Env:         v.GetString("APP_ENV"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
			AppURL:      v.GetString("APP_URL"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("DB_URL"),
		},
		Auth: AuthConfig{
			JWTSecret:     v.GetString("JWT_SECRET"),
			TokenTTL:      time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			AdminEmail:    v.GetString("ADMIN_EMAIL"),
			AdminPassword: v.GetString("ADMIN_PASSWORD"),
		},
		Restaurant: RestaurantConfig{
			Name:     v.GetString("RESTAURANT_NAME"),
			Timezone: tz,
		},
		Stripe: StripeConfig{
			SecretKey:     v.GetString("STRIPE_SECRET_KEY"),
			WebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
			Currency:      strings.ToLower(v.GetString("STRIPE_CURRENCY")),
			Timeout:       v.GetDuration("PAYMENT_TIMEOUT"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  v.GetString("OPENAI_API_KEY"),
			Model:   v.GetString("OPENAI_MODEL"),
			Timeout: v.GetDuration("LLM_TIMEOUT"),
		},
		Twilio: TwilioConfig{
			AccountSID:  v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:   v.GetString("TWILIO_AUTH_TOKEN"),
			PhoneNumber: v.GetString("TWILIO_PHONE_NUMBER"),
		},
		Jobs: JobsConfig{
			ReminderCron:   v.GetString("REMINDER_CRON"),
			CleanupCron:    v.GetString("CLEANUP_CRON"),
			ChatSessionTTL: v.GetDuration("CHAT_SESSION_TTL"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.Auth.JWTSecret = "dev-secret-change-me"
		slog.Warn("JWT_SECRET not set, using development secret")
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
