// internal/common/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"correspondence-workers/internal/correspondence"
)

// Config is the main application configuration struct.
type Config struct {
	App            AppConfig               `mapstructure:"app"`
	Camunda        CamundaConfig           `mapstructure:"camunda"`
	Database       DatabaseConfig          `mapstructure:"database"`
	Template       TemplateConfig          `mapstructure:"template"`
	Workers        map[string]WorkerConfig `mapstructure:"workers"`
	Logging        LoggingConfig           `mapstructure:"logging"`
	HTTP           HTTPConfig              `mapstructure:"http"`
	Observability  ObservabilityConfig     `mapstructure:"observability"`
	Correspondence CorrespondenceConfig    `mapstructure:"correspondence"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	Plaintext      bool   `mapstructure:"plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TemplateConfig holds settings for template storage and the select-template worker.
type TemplateConfig struct {
	RegistryPath      string          `mapstructure:"registry_path"`
	CacheTTL          int             `mapstructure:"cache_ttl"` // seconds
	DefaultTemplateID string          `mapstructure:"default_template_id"`
	Rules             []SelectionRule `mapstructure:"rules"`
}

// SelectionRule routes an inquiry to a template when its event type contains
// one of the keywords, or when MinGuests is set and the guest count reaches it.
type SelectionRule struct {
	Name       string   `mapstructure:"name"`
	Keywords   []string `mapstructure:"keywords"`
	MinGuests  int      `mapstructure:"min_guests"`
	TemplateID string   `mapstructure:"template_id"`
}

// CacheTTLDuration converts cache_ttl to a duration.
func (t TemplateConfig) CacheTTLDuration() time.Duration {
	return time.Duration(t.CacheTTL) * time.Second
}

// HTTPConfig holds the preview/health server settings.
type HTTPConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	ReadTimeout    int      `mapstructure:"read_timeout"` // milliseconds
}

// ObservabilityConfig holds metric and trace exporter settings.
type ObservabilityConfig struct {
	ServiceName      string  `mapstructure:"service_name"`
	OTLPEndpoint     string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure     bool    `mapstructure:"otlp_insecure"`
	TraceSampleRatio float64 `mapstructure:"trace_sample_ratio"`
}

// CorrespondenceConfig is the organization boilerplate and formatting used in letters.
type CorrespondenceConfig struct {
	Locale              string                   `mapstructure:"locale"`
	Currency            string                   `mapstructure:"currency"`
	PackagesURL         string                   `mapstructure:"packages_url"`
	StarterPlatterPrice float64                  `mapstructure:"starter_platter_price"`
	Signature           correspondence.Signature `mapstructure:"signature"`
}

// CorrespondenceSettings builds engine settings, keeping the engine defaults
// for anything left empty.
func (c *Config) CorrespondenceSettings() correspondence.Settings {
	s := correspondence.DefaultSettings()
	cc := c.Correspondence

	if strings.TrimSpace(cc.Locale) != "" {
		s.Locale = correspondence.ParseLocale(cc.Locale)
	}
	if strings.TrimSpace(cc.Currency) != "" {
		s.Currency = cc.Currency
	}
	if strings.TrimSpace(cc.PackagesURL) != "" {
		s.PackagesURL = cc.PackagesURL
	}
	if cc.StarterPlatterPrice > 0 {
		s.StarterPlatterPrice = cc.StarterPlatterPrice
	}

	sig := cc.Signature
	if sig.Closing != "" {
		s.Signature.Closing = sig.Closing
	}
	if sig.TeamName != "" {
		s.Signature.TeamName = sig.TeamName
	}
	if len(sig.Contacts) > 0 {
		s.Signature.Contacts = sig.Contacts
	}
	if sig.CompanyName != "" {
		s.Signature.CompanyName = sig.CompanyName
	}
	if len(sig.AddressLines) > 0 {
		s.Signature.AddressLines = sig.AddressLines
	}
	if sig.Email != "" {
		s.Signature.Email = sig.Email
	}
	if sig.Website != "" {
		s.Signature.Website = sig.Website
	}
	return s
}
