package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Turnstile  TurnstileConfig
	WhatsApp   WhatsAppConfig
	Email      EmailConfig
	Commission CommissionConfig
	Telemetry  TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	BaseURL string // Public base URL used in verification and invitation links
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	RefreshSecret          string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitEnabled  bool
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// TurnstileConfig holds Cloudflare Turnstile verification settings for the
// admin login gate
type TurnstileConfig struct {
	Enabled   bool
	SecretKey string
	VerifyURL string
	Timeout   time.Duration
}

// WhatsAppConfig holds Twilio WhatsApp delivery settings
type WhatsAppConfig struct {
	Enabled    bool
	AccountSID string
	AuthToken  string
	FromNumber string // E.164 sender, without the whatsapp: prefix
}

// EmailConfig holds SMTP settings for transactional mail
type EmailConfig struct {
	Enabled      bool
	Host         string
	Port         int
	Username     string
	Password     string
	FromAddress  string
	FromName     string
	ContactInbox string // Where contact-form messages are forwarded
}

// CommissionConfig holds commission split defaults
type CommissionConfig struct {
	DefaultSpotterPercentage float64 // Applied when a lead is accepted without explicit terms
}

// TelemetryConfig holds OpenTelemetry tracing configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SPOTTER_ prefix (e.g., SPOTTER_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SPOTTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			BaseURL: v.GetString("app.base_url"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           v.GetDuration("http.read_timeout"),
			WriteTimeout:          v.GetDuration("http.write_timeout"),
			IdleTimeout:           v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
			MaxBodySize:           v.GetInt64("http.max_body_size"),
			RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
			AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
			AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
			CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
		},
		Turnstile: TurnstileConfig{
			Enabled:   v.GetBool("turnstile.enabled"),
			SecretKey: v.GetString("turnstile.secret_key"),
			VerifyURL: v.GetString("turnstile.verify_url"),
			Timeout:   v.GetDuration("turnstile.timeout"),
		},
		WhatsApp: WhatsAppConfig{
			Enabled:    v.GetBool("whatsapp.enabled"),
			AccountSID: v.GetString("whatsapp.account_sid"),
			AuthToken:  v.GetString("whatsapp.auth_token"),
			FromNumber: v.GetString("whatsapp.from_number"),
		},
		Email: EmailConfig{
			Enabled:      v.GetBool("email.enabled"),
			Host:         v.GetString("email.host"),
			Port:         v.GetInt("email.port"),
			Username:     v.GetString("email.username"),
			Password:     v.GetString("email.password"),
			FromAddress:  v.GetString("email.from_address"),
			FromName:     v.GetString("email.from_name"),
			ContactInbox: v.GetString("email.contact_inbox"),
		},
		Commission: CommissionConfig{
			DefaultSpotterPercentage: v.GetFloat64("commission.default_spotter_percentage"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "propertyspotter-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.BaseURL == "" {
		cfg.App.BaseURL = "http://localhost:8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "propertyspotter"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "propertyspotter-backend"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.AuthRateLimitRequests == 0 {
		cfg.HTTP.AuthRateLimitRequests = 5
	}
	if cfg.HTTP.AuthRateLimitWindow == 0 {
		cfg.HTTP.AuthRateLimitWindow = time.Minute
	}
	// NOTE: CORS origins are intentionally not given a default fallback to "*".
	// An empty list means no cross-origin requests are allowed until explicitly
	// configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Turnstile.VerifyURL == "" {
		cfg.Turnstile.VerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	}
	if cfg.Turnstile.Timeout == 0 {
		cfg.Turnstile.Timeout = 10 * time.Second
	}
	if cfg.Email.Port == 0 {
		cfg.Email.Port = 587
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "PropertySpotter"
	}
	if cfg.Commission.DefaultSpotterPercentage == 0 {
		cfg.Commission.DefaultSpotterPercentage = 40.0
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "propertyspotter-backend"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Commission.DefaultSpotterPercentage < 0 || c.Commission.DefaultSpotterPercentage > 100 {
		return fmt.Errorf("commission.default_spotter_percentage must be between 0 and 100, got %f",
			c.Commission.DefaultSpotterPercentage)
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Turnstile.Enabled && c.Turnstile.SecretKey == "" {
			return fmt.Errorf("turnstile.secret_key is required when turnstile is enabled in production")
		}
		if c.WhatsApp.Enabled && (c.WhatsApp.AccountSID == "" || c.WhatsApp.AuthToken == "") {
			return fmt.Errorf("whatsapp.account_sid and whatsapp.auth_token are required when whatsapp is enabled")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
