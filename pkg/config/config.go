// Package config loads application configuration from config.yaml with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/datacustodian/governance-autopilot/pkg/warehouse"
)

// Config holds all configuration for governance-autopilot.
// Configuration can come from YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values. Secrets
// (warehouse password, AI API key) must only come from environment
// variables.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version string `yaml:"-"` // Set at load time, not from config

	// Warehouse connection (PostgreSQL or SQL Server)
	Warehouse warehouse.Config `yaml:"warehouse"`

	// AI inference endpoint used for column classification
	AI AIConfig `yaml:"ai"`

	// Governance object names and sampling bounds
	Governance GovernanceConfig `yaml:"governance"`
}

// AIConfig holds the inference endpoint configuration.
type AIConfig struct {
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`
	Endpoint string `yaml:"endpoint" env:"AI_ENDPOINT" env-default:"https://api.openai.com/v1"`
	Model    string `yaml:"model" env:"AI_MODEL" env-default:"gpt-4o-mini"`
	APIKey   string `yaml:"-" env:"AI_API_KEY"` // Secret - not in YAML
}

// GovernanceConfig names the governance objects the workflow manages.
// The tag and the row access policy are assumed to pre-exist in the
// warehouse; only the audit log table is created on demand.
type GovernanceConfig struct {
	TagName    string `yaml:"tag_name" env:"GOVERNANCE_TAG_NAME" env-default:"DATA_SENSITIVITY"`
	PolicyName string `yaml:"policy_name" env:"GOVERNANCE_POLICY_NAME" env-default:"PII_ROW_POLICY"`
	LogTable   string `yaml:"log_table" env:"GOVERNANCE_LOG_TABLE" env-default:"GOVERNANCE_AUTOPILOT_LOG"`
	SampleRows int    `yaml:"sample_rows" env:"GOVERNANCE_SAMPLE_ROWS" env-default:"10"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. When config.yaml does not exist, configuration comes from
// environment variables and defaults alone. The version parameter is
// injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Redacted renders the effective configuration as YAML for startup
// logging. Secret fields carry yaml:"-" and never appear in the output.
func (c *Config) Redacted() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to render config: %w", err)
	}
	return string(out), nil
}

func (c *Config) validate() error {
	switch c.Warehouse.Type {
	case "postgres", "mssql":
	default:
		return fmt.Errorf("unsupported warehouse type %q", c.Warehouse.Type)
	}

	switch c.AI.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unsupported ai provider %q", c.AI.Provider)
	}

	if c.AI.Endpoint == "" {
		return fmt.Errorf("ai endpoint is required")
	}
	if c.AI.Model == "" {
		return fmt.Errorf("ai model is required")
	}
	if c.Governance.SampleRows < 1 {
		return fmt.Errorf("governance sample_rows must be at least 1")
	}

	return nil
}
