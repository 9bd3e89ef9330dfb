package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Server    ServerConfig
	Store     string
	Mongo     MongoConfig
	Auth      AuthConfig
	Stripe    StripeConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Elastic   ElasticConfig
	MinIO     MinIOConfig
	SMTP      SMTPConfig
	Scylla    ScyllaConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Environment string
	CORSOrigins []string
	// Délai appliqué à chaque appel externe (base, Stripe, index...).
	CallTimeout time.Duration
}

type MongoConfig struct {
	URI      string
	User     string
	Password string
	Host     string
	Database string
}

type AuthConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
	AdminEmail  string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	MenuTTL  time.Duration
}

type RateLimitConfig struct {
	PerMinute int
}

type ElasticConfig struct {
	URL      string
	User     string
	Password string
	Index    string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type ScyllaConfig struct {
	Hosts    []string
	Keyspace string
	Username string
	Password string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// LoadEnvFile charge le fichier .env s'il existe.
func LoadEnvFile(path string) {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		log.Debug().Str("path", path).Msg("no .env file, using process environment")
		return
	}
	log.Info().Str("path", path).Msg(".env loaded")
}

// Load construit la configuration depuis l'environnement.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:        getEnv("HOST", "0.0.0.0"),
			Port:        getEnvInt("PORT", 5000),
			Environment: getEnv("ENVIRONMENT", "development"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
			CallTimeout: getEnvDuration("CALL_TIMEOUT", 10*time.Second),
		},
		Store: strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGODB_URI"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
			Host:     getEnv("DB_HOST", "cluster0.mongodb.net"),
			Database: getEnv("DB_NAME", "bistroDb"),
		},
		Auth: AuthConfig{
			TokenSecret: os.Getenv("ACCESS_TOKEN_SECRET"),
			TokenTTL:    getEnvDuration("TOKEN_TTL", time.Hour),
			AdminEmail:  strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		},
		Stripe: StripeConfig{
			SecretKey:     os.Getenv("PAYMENT_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			Currency:      getEnv("PAYMENT_CURRENCY", "usd"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_HOST"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			MenuTTL:  getEnvDuration("MENU_CACHE_TTL", 10*time.Minute),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),
		},
		Elastic: ElasticConfig{
			URL:      os.Getenv("ELASTIC_URL"),
			User:     os.Getenv("ELASTIC_USER"),
			Password: os.Getenv("ELASTIC_PASSWORD"),
			Index:    getEnv("ELASTIC_MENU_INDEX", "menu"),
		},
		MinIO: MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_BUCKET", "bistro-menu"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "noreply@bistro.local"),
		},
		Scylla: ScyllaConfig{
			Hosts:    splitList(os.Getenv("SCYLLA_HOSTS")),
			Keyspace: os.Getenv("SCYLLA_AUDIT_KEYSPACE"),
			Username: os.Getenv("SCYLLA_USERNAME"),
			Password: os.Getenv("SCYLLA_PASSWORD"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadAuth ne lit que la section Auth ; utilisé par les commandes qui n'ouvrent pas la base.
func LoadAuth() (AuthConfig, error) {
	auth := AuthConfig{
		TokenSecret: os.Getenv("ACCESS_TOKEN_SECRET"),
		TokenTTL:    getEnvDuration("TOKEN_TTL", time.Hour),
		AdminEmail:  strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
	}
	if auth.TokenSecret == "" {
		return AuthConfig{}, errors.New("ACCESS_TOKEN_SECRET is required")
	}
	return auth, nil
}

// Validate vérifie les valeurs obligatoires.
func (c Config) Validate() error {
	var errs []error
	if c.Auth.TokenSecret == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	switch c.Store {
	case StoreMongo:
		if c.Mongo.URI == "" && (c.Mongo.User == "" || c.Mongo.Password == "") {
			errs = append(errs, errors.New("MONGODB_URI or DB_USER and DB_PASS are required"))
		}
		if c.Stripe.SecretKey == "" {
			errs = append(errs, errors.New("PAYMENT_SECRET_KEY is required"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Server.Port))
	}
	return errors.Join(errs...)
}

// MongoURI retourne l'URI explicite ou celle construite depuis DB_USER/DB_PASS.
func (m MongoConfig) MongoURI() string {
	if m.URI != "" {
		return m.URI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(m.User), url.QueryEscape(m.Password), m.Host)
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
