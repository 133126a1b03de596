package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/ochronus/gocomppare/internal/services/comppare"
)

// EnvPrefix is the prefix of the environment variables overriding the file
const EnvPrefix = "COMPPARE"

// Config represents the main application configuration
type Config struct {
	BaseURL     string            `toml:"base_url" validate:"required,url"`
	Loglevel    string            `toml:"loglevel" validate:"oneof=panic fatal error warn warning info debug trace"`
	Credentials CredentialsConfig `toml:"credentials"`
}

// CredentialsConfig holds the account used by the scripted demo
type CredentialsConfig struct {
	Email    string `toml:"email" validate:"omitempty,email"`
	Password string `toml:"password"`
}

// envOverrides mirrors Config with pointer fields so that only variables
// that are actually set replace file values.
type envOverrides struct {
	BaseURL  *string `envconfig:"BASE_URL"`
	Loglevel *string `envconfig:"LOGLEVEL"`
	Email    *string `envconfig:"EMAIL"`
	Password *string `envconfig:"PASSWORD"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL:  comppare.DefaultBaseURL,
		Loglevel: "info",
	}
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "comppare")

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads configuration from a TOML file and applies environment
// overrides. When optional is true a missing file yields the defaults.
func Load(configPath string, optional bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	if env.BaseURL != nil {
		c.BaseURL = *env.BaseURL
	}
	if env.Loglevel != nil {
		c.Loglevel = *env.Loglevel
	}
	if env.Email != nil {
		c.Credentials.Email = *env.Email
	}
	if env.Password != nil {
		c.Credentials.Password = *env.Password
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.StructNamespace() {
	case "Config.BaseURL":
		if fe.Tag() == "required" {
			return "base_url is required"
		}
		return fmt.Sprintf("base_url is invalid: %q", fe.Value())
	case "Config.Loglevel":
		return "loglevel must be one of: panic, fatal, error, warn, info, debug, trace"
	case "Config.Credentials.Email":
		return fmt.Sprintf("credentials.email is invalid: %q", fe.Value())
	}
	return fe.Error()
}

// HasCredentials returns true when both email and password are set
func (c *Config) HasCredentials() bool {
	return c.Credentials.Email != "" && c.Credentials.Password != ""
}
