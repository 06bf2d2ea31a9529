package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// StorageConfig selects and configures the database backend
type StorageConfig struct {
	Backend     string `yaml:"backend" validate:"required,oneof=postgres sqlite"`
	PostgresURL string `yaml:"postgresURL,omitempty" validate:"required_if=Backend postgres"`
	SQLitePath  string `yaml:"sqlitePath,omitempty" validate:"required_if=Backend sqlite"`
}

// OperatorConfig identifies the acting user for CLI operations
type OperatorConfig struct {
	ID   string `yaml:"id" validate:"required"`
	Role string `yaml:"role" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	Environment       string         `yaml:"environment,omitempty"`
	Storage           StorageConfig  `yaml:"storage" validate:"required"`
	Operator          OperatorConfig `yaml:"operator" validate:"required"`
	NotificationEmail string         `yaml:"notificationEmail,omitempty" validate:"omitempty,email"`
	ReminderSchedule  string         `yaml:"reminderSchedule,omitempty"`
	GmailSender       string         `yaml:"gmailSender,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from zad_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks the reminder
// schedule's rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.ReminderSchedule != "" {
		if _, err := rrule.StrToRRule(cfg.ReminderSchedule); err != nil {
			return fmt.Errorf("invalid rrule in reminderSchedule: %w", err)
		}
	}

	return nil
}

// findConfigFile searches for zad_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "zad_config.yaml"

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
