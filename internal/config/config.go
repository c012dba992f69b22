package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `validate:"required,oneof=development stage production"`
	Http Http

	Cors CORS `validate:"required"`

	Postgres Postgres `validate:"required"`

	Cache Cache `validate:"required"`

	Admin Admin `validate:"required"`

	Supabase   Supabase   `validate:"required"`
	Razorpay   Razorpay   `validate:"required"`
	Shiprocket Shiprocket `validate:"required"`
	SMTP       SMTP       `validate:"required"`
	SMS        SMS

	Kafka Kafka

	Reconciler Reconciler
}

type Http struct {
	Host string `validate:"required,hostname|ip"`
	Port string `validate:"required,gt=0,lte=65535"`
}

type CORS struct {
	AllowedOrigins []string `validate:"required,min=1,dive,url"`
}

type Postgres struct {
	Host     string `validate:"required,hostname|ip"`
	Port     int    `validate:"required,gt=0,lte=65535"`
	DBName   string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`

	SSLMode string `validate:"required,oneof=disable require verify-ca verify-full"`

	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`
}

type Cache struct {
	Capacity int           `validate:"gte=1"`
	TTL      time.Duration `validate:"gt=0"`
}

type Admin struct {
	// Shared secret compared against the x-admin-secret header. A migration
	// shim for the legacy admin UI, not a real credential.
	Secret string `validate:"required,min=16"`

	// Whether catalog mutations require the admin secret.
	ProtectCatalog bool
}

type Supabase struct {
	URL        string `validate:"required,url"`
	AnonKey    string `validate:"required"`
	ServiceKey string `validate:"required"`
}

type Razorpay struct {
	KeyID     string `validate:"required"`
	KeySecret string `validate:"required"`
}

type Shiprocket struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`

	PickupLocation string        `validate:"required"`
	TokenTTL       time.Duration `validate:"gt=0"`
}

type SMTP struct {
	Host     string `validate:"required,hostname|ip"`
	Port     int    `validate:"required,gt=0,lte=65535"`
	User     string `validate:"required,email"`
	Password string `validate:"required"`

	AdminEmail string `validate:"required,email"`
}

// SMS gateway for mobile OTP delivery. Optional: when unset, mobile OTP
// endpoints report the dependency as unconfigured.
type SMS struct {
	URL    string `validate:"omitempty,url"`
	APIKey string
	Sender string
}

// Kafka order-event publishing is optional; enabled when brokers are set.
type Kafka struct {
	Brokers []string `validate:"omitempty,min=1,dive,hostname_port"`
	Topic   string

	BatchTimeout time.Duration `validate:"gte=0"`
}

func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

type Reconciler struct {
	Interval time.Duration `validate:"gt=0"`
	// Orders older than MinAge with no shipment reference are retried.
	MinAge time.Duration `validate:"gt=0"`
}

func New() Config {
	return Config{
		Env: env("ENV", "development"),

		Http: Http{
			Host: env("HOST", "localhost"),
			Port: env("PORT", "8080"),
		},

		Cors: CORS{
			AllowedOrigins: strings.Split(env("ALLOWED_CORS_ORIGINS", "http://localhost:3000"), ","),
		},

		Postgres: Postgres{
			Port:     envInt("POSTGRES_PORT", 5432),
			Host:     env("POSTGRES_HOST", "localhost"),
			DBName:   env("POSTGRES_DB", "kottravai"),
			User:     env("POSTGRES_USER", ""),
			Password: env("POSTGRES_PASSWORD", ""),

			SSLMode: env("POSTGRES_SSL_MODE", "disable"),

			MaxOpenConns:    envInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("POSTGRES_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: envDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Cache: Cache{
			Capacity: envInt("CACHE_CAPACITY", 16),
			TTL:      envDuration("CACHE_TTL", 5*time.Minute),
		},

		Admin: Admin{
			Secret:         env("ADMIN_SECRET", ""),
			ProtectCatalog: envBool("ADMIN_PROTECT_CATALOG", true),
		},

		Supabase: Supabase{
			URL:        env("SUPABASE_URL", ""),
			AnonKey:    env("SUPABASE_ANON_KEY", ""),
			ServiceKey: env("SUPABASE_SERVICE_ROLE_KEY", ""),
		},

		Razorpay: Razorpay{
			KeyID:     env("RAZORPAY_KEY_ID", ""),
			KeySecret: env("RAZORPAY_KEY_SECRET", ""),
		},

		Shiprocket: Shiprocket{
			Email:          env("SHIPROCKET_EMAIL", ""),
			Password:       env("SHIPROCKET_PASSWORD", ""),
			PickupLocation: env("SHIPROCKET_PICKUP_LOCATION", "Primary"),
			// Provider tokens live 24h; cache slightly less to avoid racing expiry.
			TokenTTL: envDuration("SHIPROCKET_TOKEN_TTL", 23*time.Hour),
		},

		SMTP: SMTP{
			Host:       env("SMTP_HOST", "smtp.hostinger.com"),
			Port:       envInt("SMTP_PORT", 465),
			User:       env("SMTP_USER", ""),
			Password:   env("SMTP_PASSWORD", ""),
			AdminEmail: env("ADMIN_EMAIL", ""),
		},

		SMS: SMS{
			URL:    env("SMS_GATEWAY_URL", ""),
			APIKey: env("SMS_API_KEY", ""),
			Sender: env("SMS_SENDER_ID", "KTRVAI"),
		},

		Kafka: Kafka{
			Brokers:      splitNonEmpty(env("KAFKA_BROKERS", "")),
			Topic:        env("KAFKA_TOPIC", "kottravai.orders"),
			BatchTimeout: envDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
		},

		Reconciler: Reconciler{
			Interval: envDuration("RECONCILER_INTERVAL", 15*time.Minute),
			MinAge:   envDuration("RECONCILER_MIN_AGE", 30*time.Minute),
		},
	}
}

func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if len(fallback) == 0 {
		return ""
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
