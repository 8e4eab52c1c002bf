package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration (file + env overrides)
type Config struct {
	Server struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		LogLevel string `mapstructure:"log_level"`
		Debug    bool   `mapstructure:"debug"`
	} `mapstructure:"server"`

	GoogleAds Credentials `mapstructure:"google_ads"`
}

// Credentials is the immutable credential context for the Google Ads API.
// Built once at startup and injected into the upstream client; never read
// from the environment again after Load returns.
type Credentials struct {
	DeveloperToken  string `mapstructure:"developer_token"`
	ClientID        string `mapstructure:"client_id"`
	ClientSecret    string `mapstructure:"client_secret"`
	RefreshToken    string `mapstructure:"refresh_token"`
	LoginCustomerID string `mapstructure:"login_customer_id"`
}

func Load() Config {
	v := viper.New()
	v.SetConfigName("application")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	_ = v.ReadInConfig() // optional; env can fully configure

	v.AutomaticEnv()
	_ = v.BindEnv("server.host", "HOST")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("server.log_level", "LOG_LEVEL")
	_ = v.BindEnv("server.debug", "DEBUG")
	_ = v.BindEnv("google_ads.developer_token", "GOOGLE_ADS_DEVELOPER_TOKEN")
	_ = v.BindEnv("google_ads.client_id", "GOOGLE_ADS_CLIENT_ID")
	_ = v.BindEnv("google_ads.client_secret", "GOOGLE_ADS_CLIENT_SECRET")
	_ = v.BindEnv("google_ads.refresh_token", "GOOGLE_ADS_REFRESH_TOKEN")
	_ = v.BindEnv("google_ads.login_customer_id", "GOOGLE_ADS_LOGIN_CUSTOMER_ID")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Errorf("unable to decode config: %w", err))
	}
	validate(&cfg)
	return cfg
}

func validate(c *Config) {
	if c.Server.Host == "" { c.Server.Host = "0.0.0.0" }
	if c.Server.Port == 0 { c.Server.Port = 8000 }
	if c.Server.LogLevel == "" { c.Server.LogLevel = "info" }
}

// Validate reports the first missing Google Ads credential.
func (cr Credentials) Validate() error {
	switch {
	case cr.DeveloperToken == "":
		return errors.New("GOOGLE_ADS_DEVELOPER_TOKEN is required")
	case cr.ClientID == "":
		return errors.New("GOOGLE_ADS_CLIENT_ID is required")
	case cr.ClientSecret == "":
		return errors.New("GOOGLE_ADS_CLIENT_SECRET is required")
	case cr.RefreshToken == "":
		return errors.New("GOOGLE_ADS_REFRESH_TOKEN is required")
	case cr.LoginCustomerID == "":
		return errors.New("GOOGLE_ADS_LOGIN_CUSTOMER_ID is required")
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
