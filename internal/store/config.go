package store

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config carries every externally overridable constant of the export
// pipeline. Values come from config.yaml, then MOOMOO_* environment
// variables on top.
type Config struct {
	Mode string `yaml:"mode"` // EXPORT or DRY_RUN

	Host                string  `yaml:"host"`
	Port                int     `yaml:"port"`
	ProbeTimeoutSeconds float64 `yaml:"probe_timeout_seconds"`
	RetryIntervalMS     int     `yaml:"retry_interval_ms"`

	Market       string `yaml:"market"`
	SecurityFirm string `yaml:"security_firm"`
	Currency     string `yaml:"currency"`
	DataSource   string `yaml:"data_source"` // STATIC or LIVE

	ActivityThreshold string `yaml:"activity_threshold"`
	OutputDir         string `yaml:"output_dir"`

	threshold decimal.Decimal
}

func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds * float64(time.Second))
}

func (c *Config) RetryInterval() time.Duration {
	return time.Duration(c.RetryIntervalMS) * time.Millisecond
}

// Threshold is the parsed activity threshold; valid after LoadConfig.
func (c *Config) Threshold() decimal.Decimal {
	return c.threshold
}

func (c *Config) Validate() error {
	if c.Mode != "EXPORT" && c.Mode != "DRY_RUN" {
		return fmt.Errorf("invalid mode '%s': must be 'EXPORT' or 'DRY_RUN'", c.Mode)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1-65535, got %d", c.Port)
	}
	if c.ProbeTimeoutSeconds <= 0 {
		return fmt.Errorf("probe_timeout_seconds must be positive, got %v", c.ProbeTimeoutSeconds)
	}
	if c.RetryIntervalMS <= 0 {
		return fmt.Errorf("retry_interval_ms must be positive, got %d", c.RetryIntervalMS)
	}
	if c.RetryInterval() > c.ProbeTimeout() {
		return fmt.Errorf("retry_interval_ms %d exceeds probe timeout %vs: probe would make zero attempts", c.RetryIntervalMS, c.ProbeTimeoutSeconds)
	}
	if c.DataSource != "STATIC" && c.DataSource != "LIVE" {
		return fmt.Errorf("invalid data_source '%s': must be 'STATIC' or 'LIVE'", c.DataSource)
	}
	th, err := decimal.NewFromString(c.ActivityThreshold)
	if err != nil {
		return fmt.Errorf("invalid activity_threshold '%s': %w", c.ActivityThreshold, err)
	}
	if th.IsNegative() {
		return fmt.Errorf("activity_threshold must not be negative, got %s", c.ActivityThreshold)
	}
	c.threshold = th
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	c.applyDefaults()
	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = "EXPORT"
	}
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 11111
	}
	if c.ProbeTimeoutSeconds == 0 {
		c.ProbeTimeoutSeconds = 3
	}
	if c.RetryIntervalMS == 0 {
		c.RetryIntervalMS = 500
	}
	if c.Market == "" {
		c.Market = "US"
	}
	if c.SecurityFirm == "" {
		c.SecurityFirm = "FUTUSG"
	}
	if c.Currency == "" {
		c.Currency = "USD"
	}
	if c.DataSource == "" {
		c.DataSource = "STATIC"
	}
	if c.ActivityThreshold == "" {
		c.ActivityThreshold = "0.1"
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MOOMOO_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("MOOMOO_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Port = n
		}
	}
	if v := os.Getenv("MOOMOO_PROBE_TIMEOUT_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.ProbeTimeoutSeconds = f
		}
	}
	if v := os.Getenv("MOOMOO_RETRY_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RetryIntervalMS = n
		}
	}
	if v := os.Getenv("MOOMOO_ACTIVITY_THRESHOLD"); v != "" {
		c.ActivityThreshold = v
	}
	if v := os.Getenv("MOOMOO_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("MOOMOO_DATA_SOURCE"); v != "" {
		c.DataSource = v
	}
	if v := os.Getenv("MOOMOO_CURRENCY"); v != "" {
		c.Currency = v
	}
}
