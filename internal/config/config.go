package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default upstream base URLs of the remote API service
const (
	DefaultKIP7URL    = "https://kip7-api.klaytnapi.com"
	DefaultKIP17URL   = "https://kip17-api.klaytnapi.com"
	DefaultWalletURL  = "https://wallet-api.klaytnapi.com"
	DefaultNodeURL    = "https://node-api.klaytnapi.com"
	DefaultHistoryURL = "https://th-api.klaytnapi.com"
)

var (
	ErrMissingChainID     = errors.New("KAS_CHAIN_ID is required")
	ErrMissingCredentials = errors.New("KAS_ACCESS_KEY_ID and KAS_SECRET_ACCESS_KEY are required")
)

type Config struct {
	ChainID         string `mapstructure:"KAS_CHAIN_ID"`
	AccessKeyID     string `mapstructure:"KAS_ACCESS_KEY_ID"`
	SecretAccessKey string `mapstructure:"KAS_SECRET_ACCESS_KEY"`

	KIP7URL    string `mapstructure:"KAS_KIP7_URL"`
	KIP17URL   string `mapstructure:"KAS_KIP17_URL"`
	WalletURL  string `mapstructure:"KAS_WALLET_URL"`
	NodeURL    string `mapstructure:"KAS_NODE_URL"`
	HistoryURL string `mapstructure:"KAS_HISTORY_URL"`

	Timeout    time.Duration `mapstructure:"KAS_TIMEOUT"`
	MaxRetries uint64        `mapstructure:"KAS_MAX_RETRIES"`
	RateLimit  float64       `mapstructure:"KAS_RATE_LIMIT"` // requests per second, 0 disables
	RateBurst  int           `mapstructure:"KAS_RATE_BURST"`

	AccountPoolKRN string `mapstructure:"KAS_ACCOUNT_POOL_KRN"`

	DBUrl            string `mapstructure:"DB_URL"`
	HTTPAddr         string `mapstructure:"HTTP_ADDR"`
	GatewayJWTSecret string `mapstructure:"GATEWAY_JWT_SECRET"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("KAS_CHAIN_ID", "")
	v.SetDefault("KAS_ACCESS_KEY_ID", "")
	v.SetDefault("KAS_SECRET_ACCESS_KEY", "")
	v.SetDefault("KAS_KIP7_URL", DefaultKIP7URL)
	v.SetDefault("KAS_KIP17_URL", DefaultKIP17URL)
	v.SetDefault("KAS_WALLET_URL", DefaultWalletURL)
	v.SetDefault("KAS_NODE_URL", DefaultNodeURL)
	v.SetDefault("KAS_HISTORY_URL", DefaultHistoryURL)
	v.SetDefault("KAS_TIMEOUT", "30s")
	v.SetDefault("KAS_MAX_RETRIES", 0)
	v.SetDefault("KAS_RATE_LIMIT", 0)
	v.SetDefault("KAS_RATE_BURST", 1)
	v.SetDefault("KAS_ACCOUNT_POOL_KRN", "")
	v.SetDefault("DB_URL", "")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GATEWAY_JWT_SECRET", "")
	v.SetDefault("LOG_LEVEL", "info")
}

// isNotFound reports a missing config file. Viper returns a path error for an
// explicit file and ConfigFileNotFoundError when searching.
func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}

// LoadConfig reads the .env file at path when present, then the environment.
// Environment variables win over the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	c.normalize()
	return &c, nil
}

func (c *Config) normalize() {
	c.ChainID = strings.TrimSpace(c.ChainID)
	for _, u := range []*string{&c.KIP7URL, &c.KIP17URL, &c.WalletURL, &c.NodeURL, &c.HistoryURL} {
		*u = strings.TrimRight(strings.TrimSpace(*u), "/")
	}
}

// Validate reports settings the SDK cannot run without.
func (c *Config) Validate() error {
	if c.ChainID == "" {
		return ErrMissingChainID
	}
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return ErrMissingCredentials
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("KAS_RATE_LIMIT must not be negative, got %v", c.RateLimit)
	}
	return nil
}

// ArchiveEnabled reports whether a database is configured for the transfer archive.
func (c *Config) ArchiveEnabled() bool {
	return c.DBUrl != ""
}

// AuthEnabled reports whether gateway routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.GatewayJWTSecret != ""
}
