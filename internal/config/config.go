package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	// Config is the application configuration. The provider settings the
	// user edits from the settings view live in internal/settings instead.
	Config struct {
		Home     string
		Language string
		LogLevel string
		Jira     JiraConfig
	}

	JiraConfig struct {
		URL   string
		Email string
		Token string
	}
)

const (
	homeEnv        = "MATETICKET_HOME"
	defaultHomeDir = ".mate-ticket"
	configFileName = "config.toml"

	defaultLang     = LangEN
	defaultLogLevel = "warn"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// LoadConfig reads .env from the working directory, then the environment and
// <home>/config.toml.
func LoadConfig() (*Config, error) {
	return Load(".env")
}

func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}

	home, err := resolveHome()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(home, 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	configPath := filepath.Join(home, configFileName)
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	v.SetDefault("language", defaultLang)
	v.SetDefault("log_level", defaultLogLevel)

	_ = v.BindEnv("language", "MATETICKET_LANG")
	_ = v.BindEnv("log_level", "MATETICKET_LOG_LEVEL")
	_ = v.BindEnv("jira.url", "JIRA_URL")
	_ = v.BindEnv("jira.email", "JIRA_EMAIL")
	_ = v.BindEnv("jira.token", "JIRA_TOKEN")

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{
		Home:     home,
		Language: GetLocaleConfig(strings.ToLower(v.GetString("language"))),
		LogLevel: strings.ToLower(v.GetString("log_level")),
		Jira: JiraConfig{
			URL:   strings.TrimRight(v.GetString("jira.url"), "/"),
			Email: v.GetString("jira.email"),
			Token: v.GetString("jira.token"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func resolveHome() (string, error) {
	if home := os.Getenv(homeEnv); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	if userHome == "" {
		return "", errors.New("home directory is empty")
	}
	return filepath.Join(userHome, defaultHomeDir), nil
}

// SyncDir holds the synced partition (settings).
func (c *Config) SyncDir() string {
	return filepath.Join(c.Home, "sync")
}

// LocalDBPath is the bbolt file backing the local partition (session state).
func (c *Config) LocalDBPath() string {
	return filepath.Join(c.Home, "local.db")
}

func (c *Config) LocalesDir() string {
	return filepath.Join(c.Home, "locales")
}

func validateConfig(config *Config) error {
	if config.Language == "" {
		return errors.New("language cannot be empty")
	}
	if !validLogLevels[config.LogLevel] {
		return fmt.Errorf("unsupported log level: %s", config.LogLevel)
	}
	return nil
}

// ValidateJira reports the Jira variables that are still missing.
func ValidateJira(config *Config) error {
	var missing []string
	if config.Jira.URL == "" {
		missing = append(missing, "JIRA_URL")
	}
	if config.Jira.Email == "" {
		missing = append(missing, "JIRA_EMAIL")
	}
	if config.Jira.Token == "" {
		missing = append(missing, "JIRA_TOKEN")
	}
	if len(missing) > 0 {
		return domainErrors.ErrJiraConfigMissing.WithContext("missing", strings.Join(missing, ", "))
	}
	return nil
}
