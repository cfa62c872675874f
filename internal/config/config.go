package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cfg *APIConfig
	mu  sync.RWMutex
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName     xml.Name         `xml:"API"`
	RequestDump bool             `xml:"REQUEST_DUMP,attr" env:"ASSESS_REQUEST_DUMP"`
	Context     ContextConfig    `xml:"CONTEXT"`
	Assessment  AssessmentConfig `xml:"ASSESSMENT"`
	Session     SessionConfig    `xml:"SESSION"`
	Server      ServerConfig     `xml:"SERVER"`
	Logging     LoggingConfig    `xml:"LOGGING"`
	Report      ReportConfig     `xml:"REPORT"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port     int    `xml:"PORT" env:"ASSESS_PORT"`
	Host     string `xml:"HOST" env:"ASSESS_HOST"`
	TimeZone string `xml:"TIME_ZONE" env:"ASSESS_TIME_ZONE"`
}

// AssessmentConfig selects the question bank and rating scale.
type AssessmentConfig struct {
	Scale         int    `xml:"SCALE,attr" env:"ASSESS_SCALE"`
	Shuffle       bool   `xml:"SHUFFLE,attr" env:"ASSESS_SHUFFLE"`
	Title         string `xml:"TITLE" env:"ASSESS_TITLE"`
	QuestionsFile string `xml:"QUESTIONS_FILE" env:"ASSESS_QUESTIONS_FILE"`
}

type SessionConfig struct {
	CookieName string `xml:"COOKIE_NAME" env:"ASSESS_COOKIE_NAME"`
	Secret     string `xml:"SECRET" env:"ASSESS_SESSION_SECRET"`
	TTLMinutes int    `xml:"TTL_MINUTES" env:"ASSESS_SESSION_TTL_MINUTES"`
}

// ServerConfig bounds the HTTP listener.
type ServerConfig struct {
	MaxConns            int       `xml:"MAX_CONNS" env:"ASSESS_MAX_CONNS"`
	ReadTimeoutSeconds  int       `xml:"READ_TIMEOUT" env:"ASSESS_READ_TIMEOUT"`
	WriteTimeoutSeconds int       `xml:"WRITE_TIMEOUT" env:"ASSESS_WRITE_TIMEOUT"`
	RateLimit           RateLimit `xml:"RATE_LIMIT"`
	AllowOrigins        []string  `xml:"ALLOW_ORIGINS>ORIGIN" env:"ASSESS_ALLOW_ORIGINS" envSeparator:","`
}

// RateLimit applies to report rendering routes.
type RateLimit struct {
	RPS   float64 `xml:"RPS,attr" env:"ASSESS_RATE_RPS"`
	Burst int     `xml:"BURST,attr" env:"ASSESS_RATE_BURST"`
}

type LoggingConfig struct {
	Dir        string `xml:"DIR" env:"ASSESS_LOG_DIR"`
	Level      string `xml:"LEVEL" env:"ASSESS_LOG_LEVEL"`
	MaxSizeMB  int    `xml:"MAX_SIZE_MB" env:"ASSESS_LOG_MAX_SIZE_MB"`
	MaxBackups int    `xml:"MAX_BACKUPS" env:"ASSESS_LOG_MAX_BACKUPS"`
	MaxAgeDays int    `xml:"MAX_AGE_DAYS" env:"ASSESS_LOG_MAX_AGE_DAYS"`
	Compress   bool   `xml:"COMPRESS" env:"ASSESS_LOG_COMPRESS"`
	Console    bool   `xml:"CONSOLE" env:"ASSESS_LOG_CONSOLE"`
}

type ReportConfig struct {
	LogoPath string `xml:"LOGO_PATH" env:"ASSESS_REPORT_LOGO"`
	Author   string `xml:"AUTHOR" env:"ASSESS_REPORT_AUTHOR"`
}

// Default returns the configuration used when no file is present.
func Default() *APIConfig {
	return &APIConfig{
		Context: ContextConfig{
			Port:     8080,
			Host:     "0.0.0.0",
			TimeZone: "UTC",
		},
		Assessment: AssessmentConfig{
			Scale:   5,
			Shuffle: true,
		},
		Session: SessionConfig{
			CookieName: "assessment_session",
			TTLMinutes: 120,
		},
		Server: ServerConfig{
			MaxConns:            256,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 30,
			RateLimit:           RateLimit{RPS: 5, Burst: 10},
		},
		Logging: LoggingConfig{
			Dir:        "logs",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Console:    true,
		},
	}
}

// LoadConfig loads and parses the XML configuration from the given file,
// then applies .env and environment overrides. A missing file falls back to
// Default.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	newCfg := Default()

	data, err := readFile(xmlPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := xml.Unmarshal(data, newCfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", xmlPath, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(newCfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if len(newCfg.Server.AllowOrigins) == 0 {
		newCfg.Server.AllowOrigins = []string{"*"}
	}
	if err := newCfg.Validate(); err != nil {
		return nil, err
	}

	mu.Lock()
	cfg = newCfg
	mu.Unlock()
	return newCfg, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Validate rejects values the service cannot run with.
func (c *APIConfig) Validate() error {
	if c.Context.Port < 1 || c.Context.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Context.Port)
	}
	if c.Assessment.Scale != 3 && c.Assessment.Scale != 5 {
		return fmt.Errorf("invalid scale %d (want 3 or 5)", c.Assessment.Scale)
	}
	if c.Session.CookieName == "" {
		return errors.New("session cookie name is required")
	}
	if c.Session.TTLMinutes < 0 {
		return fmt.Errorf("invalid session ttl %d", c.Session.TTLMinutes)
	}
	if c.Server.RateLimit.RPS < 0 || c.Server.RateLimit.Burst < 0 {
		return errors.New("rate limit values must not be negative")
	}
	if _, err := time.LoadLocation(c.Context.TimeZone); err != nil {
		return fmt.Errorf("invalid time zone %q: %w", c.Context.TimeZone, err)
	}
	return nil
}

func (c *APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Context.Host, c.Context.Port)
}

func (c *APIConfig) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

func (c *APIConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Context.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetConfig returns the loaded configuration.
func GetConfig() *APIConfig {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}
