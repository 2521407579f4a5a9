package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/secret-santa-backend/internal/matching"
	"github.com/ArowuTest/secret-santa-backend/pkg/mailgateway"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	StorageMongoDB = "mongodb"
	StorageMemory  = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	MongoDB  MongoDBConfig  `mapstructure:"mongodb"`
	Storage  StorageConfig  `mapstructure:"storage"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
	Exchange ExchangeConfig `mapstructure:"exchange"`
	LogLevel string         `mapstructure:"log_level"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	AllowedHosts []string `mapstructure:"allowed_hosts"`
	Mode         string   `mapstructure:"mode"` // gin mode: debug, release, test
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// StorageConfig selects the repository implementation
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret       string        `mapstructure:"secret"`
	ExpiresIn    time.Duration `mapstructure:"expires_in"`
	MagicLinkTTL time.Duration `mapstructure:"magic_link_ttl"`
}

// EmailConfig holds email gateway configuration
type EmailConfig struct {
	DefaultGateway string       `mapstructure:"default_gateway"`
	From           string       `mapstructure:"from"`
	MockGateway    bool         `mapstructure:"mock_gateway"`
	Resend         ResendConfig `mapstructure:"resend"`
}

// ResendConfig holds Resend API credentials
type ResendConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// ExchangeConfig holds the rules of the gift exchange
type ExchangeConfig struct {
	Policy           string   `mapstructure:"policy"`
	AppDomain        string   `mapstructure:"app_domain"`
	AdminEmails      []string `mapstructure:"admin_emails"`
	PledgeMinLength  int      `mapstructure:"pledge_min_length"`
	WishlistMaxItems int      `mapstructure:"wishlist_max_items"`
}

// IsAdmin reports whether email is listed in AdminEmails
func (e ExchangeConfig) IsAdmin(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range e.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}
	return false
}

// Load loads configuration from .env, config files and environment variables.
// Extra search paths are consulted before ./ and ./config.
func Load(paths ...string) (*Config, error) {
	// A missing .env file is fine; real deployments use the environment
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindLegacyEnv(v)

	// Read configuration
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "4000")
	v.SetDefault("server.allowed_hosts", []string{"http://localhost:3000"})
	v.SetDefault("server.mode", "release")
	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "secret-santa")
	v.SetDefault("mongodb.connect_timeout", 10*time.Second)
	v.SetDefault("storage.driver", StorageMongoDB)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expires_in", 24*time.Hour)
	v.SetDefault("jwt.magic_link_ttl", 24*time.Hour)
	v.SetDefault("email.default_gateway", mailgateway.GatewayResend)
	v.SetDefault("email.from", "Secret Santa <onboarding@resend.dev>")
	v.SetDefault("email.mock_gateway", false)
	v.SetDefault("email.resend.base_url", "https://api.resend.com")
	v.SetDefault("email.resend.api_key", "")
	v.SetDefault("exchange.policy", string(matching.PolicyHardPartition))
	v.SetDefault("exchange.app_domain", "http://localhost:3000")
	v.SetDefault("exchange.admin_emails", []string{})
	v.SetDefault("exchange.pledge_min_length", 20)
	v.SetDefault("exchange.wishlist_max_items", 3)
	v.SetDefault("log_level", "info")
}

// bindLegacyEnv accepts the short variable names used by existing deployments
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("email.resend.api_key", "EMAIL_RESEND_API_KEY", "RESEND_API_KEY")
	_ = v.BindEnv("exchange.app_domain", "EXCHANGE_APP_DOMAIN", "APP_DOMAIN")
	_ = v.BindEnv("exchange.admin_emails", "EXCHANGE_ADMIN_EMAILS", "ADMIN_EMAILS")
	_ = v.BindEnv("mongodb.uri", "MONGODB_URI", "MONGO_URI")
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
}

func (c *Config) normalize() {
	admins := make([]string, 0, len(c.Exchange.AdminEmails))
	for _, email := range c.Exchange.AdminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			admins = append(admins, email)
		}
	}
	c.Exchange.AdminEmails = admins
	c.Exchange.Policy = strings.ToLower(strings.TrimSpace(c.Exchange.Policy))
	c.Email.DefaultGateway = strings.ToUpper(strings.TrimSpace(c.Email.DefaultGateway))
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("config: jwt.secret (JWT_SECRET) is required")
	}
	if _, err := matching.ParsePolicy(c.Exchange.Policy); err != nil {
		return fmt.Errorf("config: exchange.policy: %w", err)
	}
	switch c.Storage.Driver {
	case StorageMemory:
	case StorageMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("config: mongodb.uri is required for the mongodb storage driver")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Email.DefaultGateway {
	case mailgateway.GatewayResend, mailgateway.GatewayMock:
	default:
		return fmt.Errorf("config: unknown email gateway %q", c.Email.DefaultGateway)
	}
	if c.Exchange.WishlistMaxItems < 1 {
		return errors.New("config: exchange.wishlist_max_items must be positive")
	}
	if c.Exchange.PledgeMinLength < 0 {
		return errors.New("config: exchange.pledge_min_length must not be negative")
	}
	return nil
}
