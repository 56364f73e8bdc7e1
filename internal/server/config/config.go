// Package config handles configuration for the server, built as defaults,
// then a JSON file overlay, then environment variables, then command-line
// flags. The resulting Config is immutable after startup and injected into
// the components that need it.
package config

import "time"

// Config holds runtime settings for the expense tracker server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - MongoURI / MongoDatabase: document store connection settings.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the test
//     default in prod.
//   - TokenValidity: access token lifetime.
//   - BcryptCost: bcrypt cost factor for password hashing.
//   - SendGridAPIKey / SenderEmail: outbound verification-mail settings. An
//     empty API key disables real sending (messages are logged instead).
//   - MailSendTimeout: upper bound for a single outbound mail attempt.
//   - CORSAllowedOrigins: origins allowed by the CORS middleware.
type Config struct {
	Addr               string        `env:"ADDRESS"`
	MongoURI           string        `env:"MONGO_URI"`
	MongoDatabase      string        `env:"MONGO_DATABASE"`
	SecretKey          string        `env:"JWT_SECRET"`
	TokenValidity      time.Duration `env:"TOKEN_VALIDITY"`
	BcryptCost         int           `env:"BCRYPT_COST"`
	SendGridAPIKey     string        `env:"SENDGRID_API_KEY"`
	SenderEmail        string        `env:"SENDER_EMAIL"`
	MailSendTimeout    time.Duration `env:"MAIL_SEND_TIMEOUT"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":3000"
	c.MongoURI = "mongodb://localhost:27017"
	c.MongoDatabase = "expense_tracker"
	c.SecretKey = "your_jwt_secret_key"
	c.TokenValidity = 72 * time.Hour
	c.BcryptCost = 10
	c.SendGridAPIKey = ""
	c.SenderEmail = "thecloudydeveloper@gmail.com"
	c.MailSendTimeout = 10 * time.Second
	c.CORSAllowedOrigins = []string{"*"}
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fl, err := parseFlags()
	if err != nil {
		return nil, err
	}
	if fl.configFile != "" {
		if err := applyJSON(cfg, fl.configFile); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	fl.apply(cfg)

	return cfg, nil
}
