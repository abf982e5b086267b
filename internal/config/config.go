package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/blackcheck/black-check-api/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"` // Full connection string; takes precedence over the individual fields
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// AlchemyConfig holds Alchemy NFT API configuration
type AlchemyConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	MainnetURL string        `mapstructure:"mainnet_url"`
	SepoliaURL string        `mapstructure:"sepolia_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// BaseURL returns the NFT API base URL for the network
func (c AlchemyConfig) BaseURL(network domain.Network) string {
	if network == domain.NetworkSepolia {
		return c.SepoliaURL
	}
	return c.MainnetURL
}

// OpenSeaConfig holds OpenSea API configuration
type OpenSeaConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// ContractSet is the aggregator and collection addresses of one network
type ContractSet struct {
	Aggregator  string   `mapstructure:"aggregator"`
	Collections []string `mapstructure:"collections"`
}

// ContractsConfig holds the per-network contract sets
type ContractsConfig struct {
	Mainnet ContractSet `mapstructure:"mainnet"`
	Sepolia ContractSet `mapstructure:"sepolia"`
}

// RedisConfig holds Redis connection settings for the shared metadata cache
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MetadataConfig holds metadata resolution settings
type MetadataConfig struct {
	Concurrency      int           `mapstructure:"concurrency"`
	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	HitTTL           time.Duration `mapstructure:"hit_ttl"`
	MissTTL          time.Duration `mapstructure:"miss_ttl"`
	BreakerThreshold int           `mapstructure:"breaker_threshold"`
	BreakerCooldown  time.Duration `mapstructure:"breaker_cooldown"`
	CacheBackend     string        `mapstructure:"cache_backend"` // memory or redis
	Redis            RedisConfig   `mapstructure:"redis"`
}

// RateLimit holds a token bucket definition
type RateLimit struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// RateLimitConfig holds per-provider rate limits
type RateLimitConfig struct {
	Alchemy RateLimit `mapstructure:"alchemy"`
	OpenSea RateLimit `mapstructure:"opensea"`
}

// WebhookConfig holds webhook receiver configuration
type WebhookConfig struct {
	SigningKey string `mapstructure:"signing_key"` // Empty disables signature verification
}

// FeedConfig holds activity feed configuration
type FeedConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// ErrAggregatorNotConfigured is returned when the selected network has no aggregator address.
// Only sepolia ships a default; mainnet deployments must set it.
var ErrAggregatorNotConfigured = errors.New("aggregator address is required")

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Network    domain.Network  `mapstructure:"network"`
	AppBaseURL string          `mapstructure:"app_base_url"`
	Server     ServerConfig    `mapstructure:"server"`
	Database   DatabaseConfig  `mapstructure:"database"`
	Alchemy    AlchemyConfig   `mapstructure:"alchemy"`
	OpenSea    OpenSeaConfig   `mapstructure:"opensea"`
	Contracts  ContractsConfig `mapstructure:"contracts"`
	Metadata   MetadataConfig  `mapstructure:"metadata"`
	RateLimit  RateLimitConfig `mapstructure:"ratelimit"`
	Webhook    WebhookConfig   `mapstructure:"webhook"`
	Feed       FeedConfig      `mapstructure:"feed"`
}

// ActiveContracts returns the contract set of the configured network
func (c *APIConfig) ActiveContracts() ContractSet {
	if c.Network == domain.NetworkSepolia {
		return c.Contracts.Sepolia
	}
	return c.Contracts.Mainnet
}

// Validate checks the network selector and the active contract set
func (c *APIConfig) Validate() error {
	if !domain.IsValidNetwork(c.Network) {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedNetwork, c.Network)
	}

	contracts := c.ActiveContracts()
	if contracts.Aggregator == "" {
		return fmt.Errorf("contracts.%s.aggregator (env BLACK_CHECK_CONTRACTS_%s_AGGREGATOR): %w",
			c.Network, strings.ToUpper(string(c.Network)), ErrAggregatorNotConfigured)
	}
	if !domain.IsValidAddress(contracts.Aggregator) {
		return fmt.Errorf("contracts.%s.aggregator: %w", c.Network, domain.ErrInvalidAddress)
	}
	if len(contracts.Collections) == 0 {
		return fmt.Errorf("contracts.%s.collections is required", c.Network)
	}
	for _, addr := range contracts.Collections {
		if !domain.IsValidAddress(addr) {
			return fmt.Errorf("contracts.%s.collections %q: %w", c.Network, addr, domain.ErrInvalidAddress)
		}
	}

	if c.Metadata.CacheBackend != "memory" && c.Metadata.CacheBackend != "redis" {
		return fmt.Errorf("metadata.cache_backend must be memory or redis, got %q", c.Metadata.CacheBackend)
	}

	return nil
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("network", string(domain.NetworkMainnet))
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("alchemy.mainnet_url", domain.DEFAULT_ALCHEMY_MAINNET_URL)
	v.SetDefault("alchemy.sepolia_url", domain.DEFAULT_ALCHEMY_SEPOLIA_URL)
	v.SetDefault("alchemy.timeout", "10s")
	v.SetDefault("opensea.url", "https://api.opensea.io/api/v2")
	v.SetDefault("contracts.mainnet.collections", []string{domain.MAINNET_CHECKS_ORIGINALS, domain.MAINNET_CHECKS_EDITIONS})
	v.SetDefault("contracts.sepolia.aggregator", domain.SEPOLIA_AGGREGATOR_ADDRESS)
	v.SetDefault("contracts.sepolia.collections", []string{domain.SEPOLIA_CHECKS_COLLECTION})
	v.SetDefault("metadata.concurrency", 4)
	v.SetDefault("metadata.fetch_timeout", "2s")
	v.SetDefault("metadata.hit_ttl", "10m")
	v.SetDefault("metadata.miss_ttl", "1m")
	v.SetDefault("metadata.breaker_threshold", 10)
	v.SetDefault("metadata.breaker_cooldown", "1m")
	v.SetDefault("metadata.cache_backend", "memory")
	v.SetDefault("ratelimit.alchemy.requests_per_second", 25)
	v.SetDefault("ratelimit.alchemy.burst", 10)
	v.SetDefault("ratelimit.opensea.requests_per_second", 4)
	v.SetDefault("ratelimit.opensea.burst", 2)
	v.SetDefault("feed.page_size", domain.DEFAULT_FEED_PAGE_SIZE)

	if err := v.ReadInConfig(); err != nil {
		var error viper.ConfigFileNotFoundError
		if errors.As(err, &error) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Network = domain.Network(strings.ToLower(string(config.Network)))
	config.Contracts.Mainnet.Aggregator = domain.NormalizeAddress(config.Contracts.Mainnet.Aggregator)
	config.Contracts.Sepolia.Aggregator = domain.NormalizeAddress(config.Contracts.Sepolia.Aggregator)
	config.Contracts.Mainnet.Collections = domain.NormalizeAddresses(splitList(config.Contracts.Mainnet.Collections))
	config.Contracts.Sepolia.Collections = domain.NormalizeAddresses(splitList(config.Contracts.Sepolia.Collections))

	return &config, nil
}

// splitList expands comma separated entries, which is how list values arrive from the environment
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("BLACK_CHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		"network",
		"app_base_url",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Database
		"database.url",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Upstream providers
		"alchemy.api_key",
		"alchemy.mainnet_url",
		"alchemy.sepolia_url",
		"alchemy.timeout",
		"opensea.url",
		"opensea.api_key",
		// Contracts
		"contracts.mainnet.aggregator",
		"contracts.mainnet.collections",
		"contracts.sepolia.aggregator",
		"contracts.sepolia.collections",
		// Metadata
		"metadata.concurrency",
		"metadata.fetch_timeout",
		"metadata.hit_ttl",
		"metadata.miss_ttl",
		"metadata.breaker_threshold",
		"metadata.breaker_cooldown",
		"metadata.cache_backend",
		"metadata.redis.addr",
		"metadata.redis.password",
		"metadata.redis.db",
		// Rate limits
		"ratelimit.alchemy.requests_per_second",
		"ratelimit.alchemy.burst",
		"ratelimit.opensea.requests_per_second",
		"ratelimit.opensea.burst",
		// Webhook
		"webhook.signing_key",
		// Feed
		"feed.page_size",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
