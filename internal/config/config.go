package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix           = "COLLECTIBLES"
	defaultHTTPAddress  = "0.0.0.0:8080"
	defaultDatabasePath = "collectibles.db"
	defaultLogLevel     = "info"
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress        string
	DatabasePath       string
	LogLevel           string
	TwitterBearerToken string
	TwitterVerifyTLS   bool
	GitHubToken        string
	GitHubVerifyTLS    bool
	YouTubeVerifyTLS   bool
	ArxivVerifyTLS     bool
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("twitter.bearer_token", "")
	configViper.SetDefault("twitter.verify_tls", true)
	configViper.SetDefault("github.token", "")
	configViper.SetDefault("github.verify_tls", true)
	configViper.SetDefault("youtube.verify_tls", true)
	configViper.SetDefault("arxiv.verify_tls", true)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:        configViper.GetString("http.address"),
		DatabasePath:       configViper.GetString("database.path"),
		LogLevel:           configViper.GetString("log.level"),
		TwitterBearerToken: configViper.GetString("twitter.bearer_token"),
		TwitterVerifyTLS:   configViper.GetBool("twitter.verify_tls"),
		GitHubToken:        configViper.GetString("github.token"),
		GitHubVerifyTLS:    configViper.GetBool("github.verify_tls"),
		YouTubeVerifyTLS:   configViper.GetBool("youtube.verify_tls"),
		ArxivVerifyTLS:     configViper.GetBool("arxiv.verify_tls"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if strings.TrimSpace(c.HTTPAddress) == "" {
		return fmt.Errorf("http.address is required")
	}
	return nil
}
