// Package config loads the server configuration.
//
// Values are resolved in this order, first hit wins:
//  1. process environment
//  2. the YAML file named by CONFIG_FILE, a flat map of the same keys
//  3. .env in the working directory
//  4. built-in defaults
//
// .env is read, not loaded: it never leaks into the process environment,
// so a deployment's YAML file still beats a developer's leftover .env.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the server needs.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Upload      UploadConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Email       EmailConfig
	Log         LogConfig
	Maintenance MaintenanceConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Path string
}

// JWTConfig configures the session token carried in the jwt cookie.
type JWTConfig struct {
	Secret       string
	ExpiryDays   int
	CookieSecure bool
}

type UploadConfig struct {
	Dir     string
	MaxSize int64 // bytes
}

type CORSConfig struct {
	Origins []string
}

type RateLimitConfig struct {
	RequestsPerMinute int
	LoginMaxAttempts  int
	LoginWindow       time.Duration
}

// EmailConfig is optional. Password reset mail is disabled unless all three are set.
type EmailConfig struct {
	ResendAPIKey string
	FromEmail    string
	AppURL       string
}

type LogConfig struct {
	Level  string
	Format string
}

type MaintenanceConfig struct {
	Schedule string // cron spec, e.g. "@hourly"
}

// Enabled reports whether password reset mail can be sent.
func (c EmailConfig) Enabled() bool {
	return c.ResendAPIKey != "" && c.FromEmail != "" && c.AppURL != ""
}

// Addr returns host:port for the HTTP listener.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Expiry is the lifetime of both the token and its cookie.
func (c *JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryDays) * 24 * time.Hour
}

// Load reads the environment, the optional CONFIG_FILE and .env.
func Load() (*Config, error) {
	dotenv, err := readDotenv(".env")
	if err != nil {
		return nil, err
	}

	src := source{dotenv: dotenv}

	file, err := readFile(src.get("CONFIG_FILE", ""))
	if err != nil {
		return nil, err
	}
	src.file = file

	port, err := src.int("SERVER_PORT", 5001)
	if err != nil {
		return nil, err
	}
	expiryDays, err := src.int("JWT_EXPIRY_DAYS", 30)
	if err != nil {
		return nil, err
	}
	cookieSecure, err := src.bool("COOKIE_SECURE", false)
	if err != nil {
		return nil, err
	}
	maxSize, err := src.int64("UPLOAD_MAX_SIZE", 30<<20)
	if err != nil {
		return nil, err
	}
	rpm, err := src.int("RATE_LIMIT_REQUESTS", 300)
	if err != nil {
		return nil, err
	}
	loginMax, err := src.int("LOGIN_MAX_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}
	loginWindow, err := src.int("LOGIN_WINDOW_SECONDS", 120)
	if err != nil {
		return nil, err
	}

	secret := src.get("JWT_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: src.get("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: src.get("DATABASE_PATH", "./data/facecard.db"),
		},
		JWT: JWTConfig{
			Secret:       secret,
			ExpiryDays:   expiryDays,
			CookieSecure: cookieSecure,
		},
		Upload: UploadConfig{
			Dir:     src.get("UPLOAD_DIR", "./data/assets"),
			MaxSize: maxSize,
		},
		CORS: CORSConfig{
			Origins: splitList(src.get("CORS_ORIGINS", "http://localhost:3000")),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: rpm,
			LoginMaxAttempts:  loginMax,
			LoginWindow:       time.Duration(loginWindow) * time.Second,
		},
		Email: EmailConfig{
			ResendAPIKey: src.get("RESEND_API_KEY", ""),
			FromEmail:    src.get("RESEND_FROM", ""),
			AppURL:       strings.TrimRight(src.get("APP_URL", ""), "/"),
		},
		Log: LogConfig{
			Level:  src.get("LOG_LEVEL", "info"),
			Format: src.get("LOG_FORMAT", "console"),
		},
		Maintenance: MaintenanceConfig{
			Schedule: src.get("MAINTENANCE_SCHEDULE", "@hourly"),
		},
	}

	return cfg, nil
}

// readFile parses a flat YAML map such as:
//
//	SERVER_PORT: 8080
//	CORS_ORIGINS: https://facecard.app
func readFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CONFIG_FILE: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse CONFIG_FILE: %w", err)
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		out[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return out, nil
}

// readDotenv parses path without touching the process environment. A
// missing file is normal in production.
func readDotenv(path string) (map[string]string, error) {
	vals, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return vals, nil
}

type source struct {
	file   map[string]string
	dotenv map[string]string
}

func (s source) get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	if val, ok := s.file[key]; ok {
		return val
	}
	if val, ok := s.dotenv[key]; ok {
		return val
	}
	return fallback
}

func (s source) int(key string, fallback int) (int, error) {
	raw := s.get(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func (s source) int64(key string, fallback int64) (int64, error) {
	raw := s.get(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func (s source) bool(key string, fallback bool) (bool, error) {
	raw := s.get(key, "")
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
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
