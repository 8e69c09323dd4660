// Package config loads the service configuration from TOML with secrets from the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Auth           AuthConfig           `toml:"auth"`
	Booking        BookingConfig        `toml:"booking"`
	ProfileService ProfileServiceConfig `toml:"profile_service"`
	Events         EventsConfig         `toml:"events"`
	RateLimit      RateLimitConfig      `toml:"rate_limit"`
}

// ServerConfig HTTP сервер; таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
	RequestTimeout  int `toml:"request_timeout"` // дедлайн обработки одного запроса
}

// DatabaseConfig PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"` // переопределяется DB_PASSWORD
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// LogsConfig логирование
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig проверка токенов провайдера идентификации
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"` // переопределяется JWT_SECRET
}

// BookingConfig правила бронирования
type BookingConfig struct {
	MinLeadMinutes         int    `toml:"min_lead_minutes"`
	CompletionSchedule     string `toml:"completion_schedule"` // cron выражение
	CompletionGraceMinutes int    `toml:"completion_grace_minutes"`
}

// ProfileServiceConfig сервис публичных профилей; пустой URL выключает интеграцию
type ProfileServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// EventsConfig публикация событий бронирований в Redis
type EventsConfig struct {
	Enabled       bool   `toml:"enabled"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"` // переопределяется REDIS_PASSWORD
	RedisDB       int    `toml:"redis_db"`
	Channel       string `toml:"channel"`
	Timeout       int    `toml:"timeout"` // секунды
}

// RateLimitConfig ограничение частоты записи бронирований с одного IP
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	// TrustedProxies IP или CIDR прокси, от которых принимается X-Forwarded-For
	TrustedProxies []string `toml:"trusted_proxies"`
}

// Load читает TOML файл, подгружает .env (если есть) и применяет переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	// .env необязателен; отсутствие файла не ошибка
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
			RequestTimeout:  10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "consult_booking",
		},
		Booking: BookingConfig{
			CompletionSchedule:     "@every 5m",
			CompletionGraceMinutes: 15,
		},
		ProfileService: ProfileServiceConfig{Timeout: 3},
		Events: EventsConfig{
			RedisAddr: "localhost:6379",
			Channel:   "booking-events",
			Timeout:   2,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             5,
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Events.RedisPassword = v
	}
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port %d out of range", c.Server.HTTPPort))
	}
	if c.Server.RequestTimeout <= 0 {
		problems = append(problems, "server.request_timeout must be positive")
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		problems = append(problems, "database.host, database.dbname and database.user are required")
	}
	if c.Auth.JWTSecret == "" {
		problems = append(problems, "auth.jwt_secret (or JWT_SECRET) is required")
	}
	if c.Booking.MinLeadMinutes < 0 {
		problems = append(problems, "booking.min_lead_minutes must not be negative")
	}
	if c.Booking.CompletionGraceMinutes < 0 {
		problems = append(problems, "booking.completion_grace_minutes must not be negative")
	}
	if c.Events.Enabled && (c.Events.RedisAddr == "" || c.Events.Channel == "") {
		problems = append(problems, "events.redis_addr and events.channel are required when events are enabled")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		problems = append(problems, "rate_limit.requests_per_second and rate_limit.burst must be positive")
	}
	for _, proxy := range c.RateLimit.TrustedProxies {
		if !validProxy(proxy) {
			problems = append(problems, fmt.Sprintf("rate_limit.trusted_proxies: %q is not an IP or CIDR", proxy))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// MinLead минимальный запас времени до начала бронирования
func (b BookingConfig) MinLead() time.Duration {
	return time.Duration(b.MinLeadMinutes) * time.Minute
}

// CompletionGrace задержка автозавершения после окончания консультации
func (b BookingConfig) CompletionGrace() time.Duration {
	return time.Duration(b.CompletionGraceMinutes) * time.Minute
}

func validProxy(value string) bool {
	if strings.Contains(value, "/") {
		_, _, err := net.ParseCIDR(value)
		return err == nil
	}
	return net.ParseIP(value) != nil
}
