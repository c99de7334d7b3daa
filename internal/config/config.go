// Package config loads leadpilot configuration from a YAML file with
// environment variable overrides layered on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all leadpilot configuration.
type Config struct {
	// Model gateway configuration
	LLM LLMConfig `yaml:"llm"`

	// Outbound mail transport
	SMTP SMTPConfig `yaml:"smtp"`

	// Campaign pipeline settings
	Campaign CampaignConfig `yaml:"campaign"`
}

// LLMConfig configures the model gateway.
type LLMConfig struct {
	Provider   string `yaml:"provider"` // groq, openai, gemini
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"max_retries"`

	// Minimum gap between consecutive model calls. Keeps batch runs
	// under free-tier rate limits.
	MinInterval string `yaml:"min_interval"`
}

// SMTPConfig configures the outbound mail transport. The defaults target
// a local capture server (MailHog-style), so no auth and no TLS.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// CampaignConfig configures the campaign pipeline.
type CampaignConfig struct {
	LeadsPath  string `yaml:"leads_path"`
	OutputPath string `yaml:"output_path"`
	ReportPath string `yaml:"report_path"`

	// Leads at or above this priority are dispatched.
	SendThreshold int `yaml:"send_threshold"`

	// Maximum sends per run. Zero or negative means uncapped.
	SendBudget int `yaml:"send_budget"`

	// Priority assigned when profile enrichment falls back.
	DefaultPriority int `yaml:"default_priority"`

	// Worker count for the enrichment and reply phases. 1 keeps the
	// whole run sequential.
	Concurrency int `yaml:"concurrency"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "groq",
			Model:       "openai/gpt-oss-20b",
			BaseURL:     "https://api.groq.com/openai/v1",
			Timeout:     "60s",
			MaxRetries:  2,
			MinInterval: "500ms",
		},

		SMTP: SMTPConfig{
			Host: "localhost",
			Port: 1025,
			From: "noreply@example.com",
		},

		Campaign: CampaignConfig{
			LeadsPath:       "data/leads.csv",
			OutputPath:      "data/leads_out.csv",
			ReportPath:      "reports/campaign_summary.md",
			SendThreshold:   4,
			SendBudget:      10,
			DefaultPriority: 3,
			Concurrency:     1,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// API key from environment. GROQ_API_KEY keeps the configured
	// provider; a GEMINI or OPENAI key reassigns it.
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		c.LLM.APIKey = key
		if c.LLM.Provider == "" {
			c.LLM.Provider = "groq"
		}
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "openai"
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}

	// Mail transport from environment
	if host := os.Getenv("SMTP_HOST"); host != "" {
		c.SMTP.Host = host
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.SMTP.Port = p
		}
	}
	if from := os.Getenv("CAMPAIGN_FROM"); from != "" {
		c.SMTP.From = from
	}
}

// GetLLMTimeout returns the per-call model timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// GetMinInterval returns the minimum gap between model calls.
func (c *Config) GetMinInterval() time.Duration {
	d, err := time.ParseDuration(c.LLM.MinInterval)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// ValidProviders lists all supported model providers.
var ValidProviders = []string{"groq", "openai", "gemini"}

// Validate validates the configuration. A missing API key is a fatal
// configuration error: the run must abort before any lead is touched.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("model API key not configured (set GROQ_API_KEY, OPENAI_API_KEY, or GEMINI_API_KEY)")
	}

	validProvider := false
	for _, p := range ValidProviders {
		if c.LLM.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid model provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
	}

	if c.SMTP.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid smtp port: %d", c.SMTP.Port)
	}

	if c.Campaign.SendThreshold < 1 || c.Campaign.SendThreshold > 5 {
		return fmt.Errorf("send threshold must be within 1-5, got %d", c.Campaign.SendThreshold)
	}
	if c.Campaign.DefaultPriority < 1 || c.Campaign.DefaultPriority > 5 {
		return fmt.Errorf("default priority must be within 1-5, got %d", c.Campaign.DefaultPriority)
	}
	if c.Campaign.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Campaign.Concurrency)
	}

	return nil
}
