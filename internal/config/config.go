package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Session  SessionConfig
	Cart     CartConfig
	Redis    RedisConfig
	Logging  LoggingConfig
	Store    StoreConfig
	Security SecurityConfig
}

// ServerConfig.TrustProxy enables X-Forwarded-For/X-Real-IP handling and
// must only be set when a reverse proxy overwrites those headers.
type ServerConfig struct {
	Port       string
	Host       string
	Env        string
	TrustProxy bool
}

// BackendConfig points at the ConcertFever REST API.
// Mode "mock" serves an in-memory catalogue instead.
type BackendConfig struct {
	URL     string
	Timeout time.Duration
	Mode    string
}

type SessionConfig struct {
	Secret string
	Secure bool
}

// CartConfig selects where carts are kept: cookie, session or redis.
type CartConfig struct {
	Storage string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type LoggingConfig struct {
	Level  string
	Format string
}

// StoreConfig holds storefront business constants.
type StoreConfig struct {
	QRServiceURL  string
	PromoCouponID int
	SignupBalance float64
}

type SecurityConfig struct {
	LoginMaxAttempts int
	LoginWindow      time.Duration
}

// Backend modes
const (
	BackendModeRemote = "remote"
	BackendModeMock   = "mock"
)

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port:       getEnv("PORT", "3000"),
			Host:       getEnv("HOST", "localhost"),
			Env:        getEnv("ENV", "development"),
			TrustProxy: getEnvAsBool("TRUST_PROXY", false),
		},
		Backend: BackendConfig{
			URL:     strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8080"), "/"),
			Timeout: getEnvAsDuration("BACKEND_TIMEOUT", 30*time.Second),
			Mode:    strings.ToLower(getEnv("BACKEND_MODE", BackendModeRemote)),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "concertfever-secret-change-in-production"),
			Secure: getEnvAsBool("SESSION_SECURE", false),
		},
		Cart: CartConfig{
			Storage: strings.ToLower(getEnv("CART_STORAGE", "cookie")),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Store: StoreConfig{
			QRServiceURL:  getEnv("QR_SERVICE_URL", "https://api.qrserver.com/v1/create-qr-code/"),
			PromoCouponID: getEnvAsInt("PROMO_COUPON_ID", 1),
			SignupBalance: getEnvAsFloat("SIGNUP_BALANCE", 1000),
		},
		Security: SecurityConfig{
			LoginMaxAttempts: getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
			LoginWindow:      getEnvAsDuration("LOGIN_WINDOW", 15*time.Minute),
		},
	}

	return config, nil
}

// IsProduction reports whether the server runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Address is the listen address of the HTTP server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Addr returns host:port for the redis client.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
