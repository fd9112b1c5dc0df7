package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName        xml.Name             `xml:"API"`
	RequestDump    bool                 `xml:"REQUEST_DUMP,attr"`
	Context        ContextConfig        `xml:"CONTEXT"`
	Authentication AuthenticationConfig `xml:"AUTHENTICATION"`
	DB             DBConfig             `xml:"DB"`
	LLM            LLMConfig            `xml:"LLM"`
	Logging        LoggingConfig        `xml:"LOGGING"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port           int      `xml:"PORT"`
	Host           string   `xml:"HOST"`
	TimeZone       string   `xml:"TIME_ZONE"`
	AllowedOrigins []string `xml:"ALLOWED_ORIGINS>ORIGIN"`
}

// AuthenticationConfig holds token and cookie settings.
type AuthenticationConfig struct {
	AccessSecret   string `xml:"ACCESS_SECRET"`
	RefreshSecret  string `xml:"REFRESH_SECRET"`
	SessionTimeout int    `xml:"SESSION_TIMEOUT"` // minutes
	RefreshTimeout int    `xml:"REFRESH_TIMEOUT"` // hours
	CookieName     string `xml:"COOKIE_NAME"`
	SecureCookie   bool   `xml:"SECURE_COOKIE,attr"`
	BcryptCost     int    `xml:"BCRYPT_COST"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Driver   string       `xml:"DRIVER"` // postgres or sqlite
	Host     string       `xml:"HOST"`
	Port     int          `xml:"PORT"`
	SSLMode  string       `xml:"SSL_MODE"`
	Names    DBNames      `xml:"NAMES"`
	Username string       `xml:"USERNAME"`
	Password DBPassword   `xml:"PASSWORD"`
	Pool     DBPoolConfig `xml:"POOL"`
}

// DBNames holds the names defined in the DB section. For sqlite the
// name is the database file path.
type DBNames struct {
	StudyBuddy string `xml:"STUDY_BUDDY,attr"`
}

// DBPassword holds password details.
type DBPassword struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"` // minutes
}

// LLMConfig selects and configures the language model provider.
type LLMConfig struct {
	Provider    string  `xml:"PROVIDER"` // openai or ollama
	URL         string  `xml:"URL"`
	Model       string  `xml:"MODEL"`
	APIKey      string  `xml:"API_KEY"`
	Temperature float64 `xml:"TEMPERATURE"`
}

// LoggingConfig controls console and rotating file output.
type LoggingConfig struct {
	Dir        string `xml:"DIR"`
	Level      string `xml:"LEVEL"`
	MaxSizeMB  int    `xml:"MAX_SIZE_MB"`
	MaxBackups int    `xml:"MAX_BACKUPS"`
	MaxAgeDays int    `xml:"MAX_AGE_DAYS"`
}

// Environment variables that override secrets from the XML file.
const (
	EnvDBPassword    = "STUDYBUDDY_DB_PASSWORD"
	EnvAccessSecret  = "STUDYBUDDY_JWT_ACCESS_SECRET"
	EnvRefreshSecret = "STUDYBUDDY_JWT_REFRESH_SECRET"
	EnvLLMURL        = "STUDYBUDDY_LLM_URL"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvPort          = "STUDYBUDDY_PORT"
)

// LoadConfig loads and parses the XML configuration from the given file,
// applies environment overrides and defaults, and validates the result.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	f, err := os.Open(xmlPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a configuration document from r.
func Parse(r io.Reader) (*APIConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg APIConfig
	if err := xml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *APIConfig) applyEnv() {
	if v, ok := os.LookupEnv(EnvDBPassword); ok {
		c.DB.Password.Value = v
	}
	if v, ok := os.LookupEnv(EnvAccessSecret); ok {
		c.Authentication.AccessSecret = v
	}
	if v, ok := os.LookupEnv(EnvRefreshSecret); ok {
		c.Authentication.RefreshSecret = v
	}
	if v, ok := os.LookupEnv(EnvLLMURL); ok {
		c.LLM.URL = v
	}
	if v, ok := os.LookupEnv(EnvOpenAIKey); ok && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v, ok := os.LookupEnv(EnvPort); ok {
		if port, err := strconv.Atoi(v); err == nil {
			c.Context.Port = port
		}
	}
}

func (c *APIConfig) applyDefaults() {
	if c.Context.Host == "" {
		c.Context.Host = "0.0.0.0"
	}
	if c.Context.Port == 0 {
		c.Context.Port = 8080
	}
	if len(c.Context.AllowedOrigins) == 0 {
		c.Context.AllowedOrigins = []string{"*"}
	}

	if c.Authentication.SessionTimeout <= 0 {
		c.Authentication.SessionTimeout = 60
	}
	if c.Authentication.RefreshTimeout <= 0 {
		c.Authentication.RefreshTimeout = 24 * 7
	}
	if c.Authentication.CookieName == "" {
		c.Authentication.CookieName = "study_buddy_session"
	}

	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	if c.DB.Driver == "" {
		c.DB.Driver = "sqlite"
	}
	if c.DB.Driver == "postgres" {
		if c.DB.Port == 0 {
			c.DB.Port = 5432
		}
		if c.DB.SSLMode == "" {
			c.DB.SSLMode = "disable"
		}
	}
	if c.DB.Names.StudyBuddy == "" {
		c.DB.Names.StudyBuddy = "study_buddy"
		if c.DB.Driver == "sqlite" {
			c.DB.Names.StudyBuddy = "study_buddy.db"
		}
	}

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case "ollama":
			c.LLM.Model = "mistral"
		default:
			c.LLM.Model = "gpt-3.5-turbo"
		}
	}
	if c.LLM.Provider == "ollama" && c.LLM.URL == "" {
		c.LLM.URL = "http://localhost:11434/api/generate"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}

	if c.Logging.Dir == "" {
		c.Logging.Dir = "logs"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 5
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = 30
	}
}

// Validate reports configuration that cannot be used to start the server.
func (c *APIConfig) Validate() error {
	var errs []error

	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB driver %q", c.DB.Driver))
	}
	switch c.LLM.Provider {
	case "openai", "ollama":
	default:
		errs = append(errs, fmt.Errorf("unsupported LLM provider %q", c.LLM.Provider))
	}
	if c.Authentication.AccessSecret == "" {
		errs = append(errs, errors.New("access token secret is required"))
	}
	if c.Authentication.RefreshSecret == "" {
		errs = append(errs, errors.New("refresh token secret is required"))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (c *APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Context.Host, c.Context.Port)
}

func (a AuthenticationConfig) AccessTTL() time.Duration {
	return time.Duration(a.SessionTimeout) * time.Minute
}

func (a AuthenticationConfig) RefreshTTL() time.Duration {
	return time.Duration(a.RefreshTimeout) * time.Hour
}
