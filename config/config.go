package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Mail         MailConfig
	Payment      PaymentConfig
	Upload       UploadConfig
	Notification NotificationConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
	// CORSOrigins lists the browser origins allowed to call the API. "*" allows any.
	CORSOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int

	DialTimeout time.Duration
	OpTimeout   time.Duration
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// MailConfig holds SMTP settings. An empty Host disables delivery and mails are only logged.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type PaymentConfig struct {
	KeyID     string
	KeySecret string
	Currency  string
}

type UploadConfig struct {
	Dir         string
	URLPrefix   string
	MaxFileSize int64
	MaxFiles    int
}

type NotificationConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Environment variables alone are enough when no .env file is shipped.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	return &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),

			CORSOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			TimeZone: v.GetString("DB_TIMEZONE"),

			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),

			DialTimeout: v.GetDuration("REDIS_DIAL_TIMEOUT"),
			OpTimeout:   v.GetDuration("REDIS_OP_TIMEOUT"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  v.GetDuration("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: v.GetDuration("JWT_REFRESH_EXPIRY"),
		},
		Mail: MailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		Payment: PaymentConfig{
			KeyID:     v.GetString("RAZORPAY_KEY_ID"),
			KeySecret: v.GetString("RAZORPAY_KEY_SECRET"),
			Currency:  v.GetString("PAYMENT_CURRENCY"),
		},
		Upload: UploadConfig{
			Dir:         v.GetString("UPLOAD_DIR"),
			URLPrefix:   v.GetString("UPLOAD_URL_PREFIX"),
			MaxFileSize: v.GetInt64("UPLOAD_MAX_FILE_SIZE"),
			MaxFiles:    v.GetInt("UPLOAD_MAX_FILES"),
		},
		Notification: NotificationConfig{
			Workers:     v.GetInt("NOTIFICATION_WORKERS"),
			QueueSize:   v.GetInt("NOTIFICATION_QUEUE_SIZE"),
			SendTimeout: v.GetDuration("NOTIFICATION_SEND_TIMEOUT"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DIAL_TIMEOUT", 5*time.Second)
	v.SetDefault("REDIS_OP_TIMEOUT", 3*time.Second)

	v.SetDefault("JWT_ACCESS_EXPIRY", 15*time.Minute)
	v.SetDefault("JWT_REFRESH_EXPIRY", 7*24*time.Hour)

	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM", "no-reply@hospital.local")

	v.SetDefault("PAYMENT_CURRENCY", "INR")

	v.SetDefault("UPLOAD_DIR", "uploads/medical-records")
	v.SetDefault("UPLOAD_URL_PREFIX", "/uploads/medical-records")
	v.SetDefault("UPLOAD_MAX_FILE_SIZE", 5*1024*1024)
	v.SetDefault("UPLOAD_MAX_FILES", 5)

	v.SetDefault("NOTIFICATION_WORKERS", 2)
	v.SetDefault("NOTIFICATION_QUEUE_SIZE", 100)
	v.SetDefault("NOTIFICATION_SEND_TIMEOUT", 30*time.Second)
}

// splitList reads a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
