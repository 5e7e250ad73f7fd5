package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/joho/godotenv"
)

// Таблицы тарифов, доступные через TARIFF_TABLE
const (
	TariffTableDefault = "default"
	TariffTableLegacy  = "legacy"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Parking  ParkingConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
	CORS     CORSConfig
	Logger   LoggerConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// JWTConfig содержит настройки JWT аутентификации
type JWTConfig struct {
	SecretKey     string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// ParkingConfig содержит настройки парковки и тарифа
type ParkingConfig struct {
	Name        string
	Address     string
	Capacity    int
	TariffTable string // default или legacy

	// Необязательные переопределения ставок, 0 - не задано
	RateOneHour         float64
	RateSixHours        float64
	RateTwelveHours     float64
	RateTwentyFourHours float64
	RateExtraHour       float64
}

// AuditConfig содержит настройки аудита отмен
type AuditConfig struct {
	StoreEnabled   bool
	WebhookURL     string // пусто - уведомления выключены
	WebhookTimeout time.Duration
}

// MetricsConfig содержит настройки Prometheus метрик
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// CORSConfig содержит настройки CORS
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// LoggerConfig содержит настройки логирования
type LoggerConfig struct {
	Level  string
	Format string // json или console
	Output string // stdout или путь к файлу
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку, если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "parking_user"),
			Password:        getEnv("DB_PASSWORD", "parking_password"),
			Database:        getEnv("DB_NAME", "parking_db"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			CacheTTL: getDurationEnv("REDIS_CACHE_TTL", 10*time.Minute),
		},
		JWT: JWTConfig{
			SecretKey:     getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
			AccessExpiry:  getDurationEnv("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getDurationEnv("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Parking: ParkingConfig{
			Name:                getEnv("PARKING_NAME", "Principal Central"),
			Address:             getEnv("PARKING_ADDRESS", "Centro"),
			Capacity:            getIntEnv("PARKING_CAPACITY", domain.MaxSpotID),
			TariffTable:         strings.ToLower(getEnv("TARIFF_TABLE", TariffTableDefault)),
			RateOneHour:         getFloatEnv("TARIFF_R1", 0),
			RateSixHours:        getFloatEnv("TARIFF_R6", 0),
			RateTwelveHours:     getFloatEnv("TARIFF_R12", 0),
			RateTwentyFourHours: getFloatEnv("TARIFF_R24", 0),
			RateExtraHour:       getFloatEnv("TARIFF_ADD", 0),
		},
		Audit: AuditConfig{
			StoreEnabled:   getBoolEnv("AUDIT_STORE_ENABLED", true),
			WebhookURL:     getEnv("AUDIT_WEBHOOK_URL", ""),
			WebhookTimeout: getDurationEnv("AUDIT_WEBHOOK_TIMEOUT", 5*time.Second),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"),
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Parking.Capacity <= 0 {
		return fmt.Errorf("invalid PARKING_CAPACITY %d: must be positive", c.Parking.Capacity)
	}
	if c.Parking.Capacity > domain.MaxSpotID {
		return fmt.Errorf("invalid PARKING_CAPACITY %d: facility has %d spots", c.Parking.Capacity, domain.MaxSpotID)
	}
	if _, err := c.Parking.Rates(); err != nil {
		return err
	}
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	return nil
}

// Rates возвращает тарифную таблицу с учетом переопределений
func (c *ParkingConfig) Rates() (domain.Rates, error) {
	var rates domain.Rates
	switch c.TariffTable {
	case TariffTableDefault, "":
		rates = domain.DefaultRates
	case TariffTableLegacy:
		rates = domain.LegacyRates
	default:
		return domain.Rates{}, fmt.Errorf("unknown TARIFF_TABLE %q", c.TariffTable)
	}

	override(&rates.OneHour, c.RateOneHour)
	override(&rates.SixHours, c.RateSixHours)
	override(&rates.TwelveHours, c.RateTwelveHours)
	override(&rates.TwentyFourHours, c.RateTwentyFourHours)
	override(&rates.ExtraHour, c.RateExtraHour)

	if err := rates.Validate(); err != nil {
		return domain.Rates{}, fmt.Errorf("invalid tariff: %w", err)
	}
	return rates, nil
}

func override(target *float64, value float64) {
	if value != 0 {
		*target = value
	}
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Address возвращает адрес сервера
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Address возвращает адрес Redis
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key, defaultValue string) []string {
	var list []string
	for _, item := range strings.Split(getEnv(key, defaultValue), ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
