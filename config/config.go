// Package config loads relay configuration from the environment (and an
// optional .env file) using viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AsifAhmedTanjid/portfolio_contact_relay/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment is the running environment of the relay.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Mail providers understood by MailConfig.Provider.
const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
)

type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT"`
	Port           string      `mapstructure:"PORT"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS"`
	// AllowedHosts restricts the Host header when non-empty.
	AllowedHosts []string `mapstructure:"ALLOWED_HOSTS"`
}

// MailConfig describes how contact messages leave the relay. Secrets are
// absent: they are read from the environment on every send, see
// Config.Credentials and Config.ResendAPIKey.
type MailConfig struct {
	Provider    string        `mapstructure:"PROVIDER"`
	To          string        `mapstructure:"TO"`
	SMTPHost    string        `mapstructure:"SMTP_HOST"`
	SMTPPort    int           `mapstructure:"SMTP_PORT"`
	SendTimeout time.Duration `mapstructure:"SEND_TIMEOUT"`
	EscapeHTML  bool          `mapstructure:"ESCAPE_HTML"`
}

type RelayConfig struct {
	// ExposeErrors echoes provider errors back to the caller.
	ExposeErrors       bool          `mapstructure:"EXPOSE_ERRORS"`
	DedupeWindow       time.Duration `mapstructure:"DEDUPE_WINDOW"`
	CleanupInterval    time.Duration `mapstructure:"CLEANUP_INTERVAL"`
	RateLimitPerMinute float64       `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	TurnstileSecret    string        `mapstructure:"TURNSTILE_SECRET_KEY"`
	// TurnstileSiteKey is rendered into the contact page widget.
	TurnstileSiteKey string `mapstructure:"TURNSTILE_SITE_KEY"`
	// TurnstileTestToken bypasses siteverify outside production.
	TurnstileTestToken string `mapstructure:"TEST_TOKEN"`
}

type Config struct {
	Server ServerConfig `mapstructure:"SERVER"`
	Mail   MailConfig   `mapstructure:"MAIL"`
	Relay  RelayConfig  `mapstructure:"RELAY"`

	v *viper.Viper
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// Credentials returns the mail account identity and application password as
// they are in the environment right now.
func (c *Config) Credentials() (user, password string) {
	if c.v == nil {
		return os.Getenv("GMAIL_USER"), os.Getenv("GMAIL_APP_PASSWORD")
	}
	return c.v.GetString("MAIL.USER"), c.v.GetString("MAIL.PASSWORD")
}

// ResendAPIKey returns the Resend API key as it is in the environment right now.
func (c *Config) ResendAPIKey() string {
	if c.v == nil {
		return os.Getenv("RESEND_API_KEY")
	}
	return c.v.GetString("MAIL.RESEND_API_KEY")
}

// Recipient is the owner address every contact message is sent to. It falls
// back to the mail account identity.
func (c *Config) Recipient() string {
	if c.Mail.To != "" {
		return c.Mail.To
	}
	user, _ := c.Credentials()
	return user
}

func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadEnvFile copies envFile into the process environment without
// overriding variables that are already set. A missing file is not an error.
// It does not log, so it can run before the logger is built.
func LoadEnvFile(envFile string) (loaded bool, err error) {
	if envFile == "" {
		return false, nil
	}
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("error loading %s: %w", envFile, err)
	}
	return true, nil
}

// LoadConfig reads envFile when it exists, then the process environment.
func LoadConfig(envFile string) (*Config, error) {
	loaded, err := LoadEnvFile(envFile)
	if err != nil {
		return nil, err
	}

	log := logger.GetLogger()
	if envFile != "" && !loaded {
		log.Debugw("No env file found, using process environment", "path", envFile)
	}

	v := viper.New()
	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.ALLOWED_HOSTS", []string{})
	v.SetDefault("MAIL.PROVIDER", ProviderSMTP)
	v.SetDefault("MAIL.SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("MAIL.SMTP_PORT", 587)
	v.SetDefault("MAIL.SEND_TIMEOUT", 30*time.Second)
	v.SetDefault("MAIL.ESCAPE_HTML", false)
	v.SetDefault("RELAY.EXPOSE_ERRORS", true)
	v.SetDefault("RELAY.DEDUPE_WINDOW", 10*time.Minute)
	v.SetDefault("RELAY.CLEANUP_INTERVAL", time.Minute)
	v.SetDefault("RELAY.RATE_LIMIT_PER_MINUTE", 5.0)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"SERVER.ENVIRONMENT", "ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.ALLOWED_HOSTS", "ALLOWED_HOSTS"},
		{"MAIL.USER", "GMAIL_USER"},
		{"MAIL.PASSWORD", "GMAIL_APP_PASSWORD"},
		{"MAIL.TO", "MAIL_TO"},
		{"MAIL.PROVIDER", "MAIL_PROVIDER"},
		{"MAIL.SMTP_HOST", "MAIL_SMTP_HOST"},
		{"MAIL.SMTP_PORT", "MAIL_SMTP_PORT"},
		{"MAIL.RESEND_API_KEY", "RESEND_API_KEY"},
		{"MAIL.SEND_TIMEOUT", "MAIL_SEND_TIMEOUT"},
		{"MAIL.ESCAPE_HTML", "MAIL_ESCAPE_HTML"},
		{"RELAY.EXPOSE_ERRORS", "RELAY_EXPOSE_ERRORS"},
		{"RELAY.DEDUPE_WINDOW", "RELAY_DEDUPE_WINDOW"},
		{"RELAY.CLEANUP_INTERVAL", "RELAY_CLEANUP_INTERVAL"},
		{"RELAY.RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_PER_MINUTE"},
		{"RELAY.TURNSTILE_SECRET_KEY", "TURNSTILE_SECRET_KEY"},
		{"RELAY.TURNSTILE_SITE_KEY", "TURNSTILE_SITE_KEY"},
		{"RELAY.TEST_TOKEN", "TEST_TOKEN"},
	}
	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)
	cfg.Server.AllowedHosts = splitList(cfg.Server.AllowedHosts)
	cfg.v = v

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	user, _ := cfg.Credentials()
	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"provider", cfg.Mail.Provider,
		"mail_user", logger.MaskEmail(user),
		"dedupe_window", cfg.Relay.DedupeWindow,
		"turnstile", cfg.Relay.TurnstileSecret != "")

	return &cfg, nil
}

// splitList accepts both repeated values and a single comma separated value,
// which is how list env vars usually arrive.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// validateConfig checks static settings only. Missing mail credentials are
// not a startup error; sends fail individually instead.
func validateConfig(cfg *Config) error {
	switch cfg.Server.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("invalid environment %q", cfg.Server.Environment)
	}
	if cfg.Server.Port == "" {
		return errors.New("server port is required")
	}
	switch cfg.Mail.Provider {
	case ProviderSMTP:
		if cfg.Mail.SMTPHost == "" || cfg.Mail.SMTPPort <= 0 {
			return errors.New("smtp provider requires MAIL_SMTP_HOST and MAIL_SMTP_PORT")
		}
	case ProviderResend:
	default:
		return fmt.Errorf("unknown mail provider %q", cfg.Mail.Provider)
	}
	if cfg.Mail.SendTimeout < 0 {
		return errors.New("mail send timeout must not be negative")
	}
	if cfg.Relay.RateLimitPerMinute < 0 {
		return errors.New("rate limit must not be negative")
	}
	if cfg.Relay.DedupeWindow < 0 {
		return errors.New("dedupe window must not be negative")
	}
	if cfg.Relay.DedupeWindow > 0 && cfg.Relay.CleanupInterval <= 0 {
		return errors.New("cleanup interval must be positive when dedupe is enabled")
	}
	if cfg.Relay.TurnstileSecret != "" && cfg.Relay.TurnstileSiteKey == "" {
		return errors.New("TURNSTILE_SITE_KEY is required when TURNSTILE_SECRET_KEY is set")
	}
	return nil
}
