package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration wraps time.Duration to allow JSON values either as strings such
// as "72h" or as integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration value: %v", v)
	}
	return nil
}

// jsonConfig is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, non-empty fields are copied into the runtime
// Config. Pointers distinguish "absent" from zero values.
type jsonConfig struct {
	Addr               *string   `json:"address"`
	MongoURI           *string   `json:"mongo_uri"`
	MongoDatabase      *string   `json:"mongo_database"`
	SecretKey          *string   `json:"jwt_secret"`
	TokenValidity      *Duration `json:"token_validity"`
	BcryptCost         *int      `json:"bcrypt_cost"`
	SendGridAPIKey     *string   `json:"sendgrid_api_key"`
	SenderEmail        *string   `json:"sender_email"`
	MailSendTimeout    *Duration `json:"mail_send_timeout"`
	CORSAllowedOrigins []string  `json:"cors_allowed_origins"`
}

// applyJSON overlays configuration values from the JSON file at path onto
// cfg. Fields absent from the file keep their current values.
func applyJSON(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if c.Addr != nil {
		cfg.Addr = *c.Addr
	}
	if c.MongoURI != nil {
		cfg.MongoURI = *c.MongoURI
	}
	if c.MongoDatabase != nil {
		cfg.MongoDatabase = *c.MongoDatabase
	}
	if c.SecretKey != nil {
		cfg.SecretKey = *c.SecretKey
	}
	if c.TokenValidity != nil {
		cfg.TokenValidity = c.TokenValidity.Duration
	}
	if c.BcryptCost != nil {
		cfg.BcryptCost = *c.BcryptCost
	}
	if c.SendGridAPIKey != nil {
		cfg.SendGridAPIKey = *c.SendGridAPIKey
	}
	if c.SenderEmail != nil {
		cfg.SenderEmail = *c.SenderEmail
	}
	if c.MailSendTimeout != nil {
		cfg.MailSendTimeout = c.MailSendTimeout.Duration
	}
	if c.CORSAllowedOrigins != nil {
		cfg.CORSAllowedOrigins = c.CORSAllowedOrigins
	}

	return nil
}
