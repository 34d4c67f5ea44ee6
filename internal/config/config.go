package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingCredential is returned when no CRM token is provisioned. This is
// a pre-flight failure; no processing may start without it.
var ErrMissingCredential = errors.New("JOINDATE_HUBSPOT_TOKEN is required")

type Config struct {
	Environment string
	Server      ServerConfig
	CRM         CRMConfig
	JoinDate    JoinDateConfig
	Database    DatabaseConfig
	Publisher   PublisherConfig
}

type ServerConfig struct {
	Port int
}

type CRMConfig struct {
	BaseURL string
	Token   string
}

type JoinDateConfig struct {
	// Timezone is the fixed IANA zone used for date truncation. Empty means
	// the UTC calendar date of the event instant.
	Timezone string
	Location *time.Location
}

type DatabaseConfig struct {
	Path string
}

type PublisherConfig struct {
	Endpoint string
	Timeout  time.Duration
}

func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("joindate_env", "")
	v.SetDefault("app_env", "")
	v.SetDefault("go_env", "")
	v.SetDefault("joindate_port", 8080)
	v.SetDefault("joindate_hubspot_token", "")
	v.SetDefault("joindate_crm_base_url", "https://api.hubapi.com")
	v.SetDefault("joindate_timezone", "")
	v.SetDefault("joindate_db_path", "data/deliveries")
	v.SetDefault("joindate_publish_endpoint", "")
	v.SetDefault("joindate_publish_timeout_ms", 10000)

	env := resolveEnvironment(v)
	port := v.GetInt("joindate_port")
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid JOINDATE_PORT: %d", port)
	}

	token := strings.TrimSpace(v.GetString("joindate_hubspot_token"))
	if token == "" {
		return Config{}, ErrMissingCredential
	}

	timezone := strings.TrimSpace(v.GetString("joindate_timezone"))
	location := time.UTC
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return Config{}, fmt.Errorf("invalid JOINDATE_TIMEZONE %q: %w", timezone, err)
		}
		location = loc
	}

	publishTimeout := v.GetInt("joindate_publish_timeout_ms")
	if publishTimeout <= 0 {
		publishTimeout = 10000
	}

	cfg := Config{
		Environment: env,
		Server:      ServerConfig{Port: port},
		CRM: CRMConfig{
			BaseURL: strings.TrimSpace(v.GetString("joindate_crm_base_url")),
			Token:   token,
		},
		JoinDate: JoinDateConfig{
			Timezone: timezone,
			Location: location,
		},
		Database: DatabaseConfig{
			Path: strings.TrimSpace(v.GetString("joindate_db_path")),
		},
		Publisher: PublisherConfig{
			Endpoint: strings.TrimSpace(v.GetString("joindate_publish_endpoint")),
			Timeout:  time.Duration(publishTimeout) * time.Millisecond,
		},
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/deliveries"
	}

	return cfg, nil
}

func (c Config) IsLocalDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "", "local", "dev", "development", "test":
		return true
	default:
		return false
	}
}

func resolveEnvironment(v *viper.Viper) string {
	for _, key := range []string{"joindate_env", "app_env", "go_env"} {
		value := strings.TrimSpace(v.GetString(key))
		if value != "" {
			return strings.ToLower(value)
		}
	}
	return ""
}
