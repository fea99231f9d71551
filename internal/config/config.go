package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix          = "OXIDGENE"
	configFileName     = "oxidgene"
	configFileType     = "toml"
	defaultHost        = "0.0.0.0"
	defaultPort        = 8080
	defaultDatabaseURL = "oxidgene.db"
	defaultLogLevel    = "info"
	defaultCORSOrigin  = "*"
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	Host        string
	Port        int
	DatabaseURL string
	LogLevel    string
	CORSOrigin  string
}

// Address composes the HTTP listen address from host and port.
func (c AppConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults, env bindings and the optional config
// file search on the provided viper instance. Environment variables use the
// OXIDGENE_ prefix, e.g. OXIDGENE_HOST, OXIDGENE_PORT, OXIDGENE_DATABASE_URL.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.AutomaticEnv()

	configViper.SetConfigName(configFileName)
	configViper.SetConfigType(configFileType)
	configViper.AddConfigPath(".")

	configViper.SetDefault("host", defaultHost)
	configViper.SetDefault("port", defaultPort)
	configViper.SetDefault("database_url", defaultDatabaseURL)
	configViper.SetDefault("log_level", defaultLogLevel)
	configViper.SetDefault("cors_origin", defaultCORSOrigin)
}

// ReadConfigFile loads the config file into viper. With an explicit path the
// file must exist and parse; otherwise an oxidgene.toml in the working
// directory is loaded when present and silently skipped when absent.
func ReadConfigFile(configViper *viper.Viper, explicitPath string) error {
	if explicitPath != "" {
		configViper.SetConfigFile(explicitPath)
		return configViper.ReadInConfig()
	}
	if err := configViper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		Host:        configViper.GetString("host"),
		Port:        configViper.GetInt("port"),
		DatabaseURL: configViper.GetString("database_url"),
		LogLevel:    configViper.GetString("log_level"),
		CORSOrigin:  configViper.GetString("cors_origin"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("host is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be in [1, 65535], got %d", c.Port)
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("database_url is required")
	}
	return nil
}
