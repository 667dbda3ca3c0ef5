package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	ClinicAPI    ClinicAPIConfig
	Form         FormConfig
	FormToken    FormTokenConfig
	Notification NotificationConfig
	DB           DBConfig
	Redis        RedisConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type ClinicAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type FormConfig struct {
	SessionTTL time.Duration
}

type FormTokenConfig struct {
	Secret string
	Expiry time.Duration
}

type NotificationConfig struct {
	TTL time.Duration
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Enabled reports whether a database was configured. The submission audit is
// log-only without one.
func (c DBConfig) Enabled() bool {
	return c.Host != ""
}

// URL returns the connection string in URL form, as required by the migrator.
func (c DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.Name)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether Redis was configured. Sessions and notifications are
// kept in process memory without it.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CLINIC_API_URL", "https://backendgrupo3.azurewebsites.net")
	v.SetDefault("CLINIC_API_TIMEOUT", "15s")
	v.SetDefault("FORM_SESSION_TTL", "30m")
	v.SetDefault("FORM_TOKEN_EXPIRY", "30m")
	v.SetDefault("NOTIFICATION_TTL", "6s")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("REDIS_PORT", "6379")

	// The .env file is optional; environment variables alone are enough.
	_ = v.ReadInConfig()

	config := &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		ClinicAPI: ClinicAPIConfig{
			BaseURL: v.GetString("CLINIC_API_URL"),
			Timeout: parseDuration(v.GetString("CLINIC_API_TIMEOUT"), 15*time.Second),
		},
		Form: FormConfig{
			SessionTTL: parseDuration(v.GetString("FORM_SESSION_TTL"), 30*time.Minute),
		},
		FormToken: FormTokenConfig{
			Secret: v.GetString("FORM_TOKEN_SECRET"),
			Expiry: parseDuration(v.GetString("FORM_TOKEN_EXPIRY"), 30*time.Minute),
		},
		Notification: NotificationConfig{
			TTL: parseDuration(v.GetString("NOTIFICATION_TTL"), 6*time.Second),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
	}

	if config.ClinicAPI.BaseURL == "" {
		return nil, fmt.Errorf("CLINIC_API_URL is required")
	}
	if config.FormToken.Secret == "" {
		if config.App.Env != "development" {
			return nil, fmt.Errorf("FORM_TOKEN_SECRET is required outside development")
		}
		config.FormToken.Secret = "development-form-token-secret"
	}

	return config, nil
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
