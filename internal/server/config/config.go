// Package config handles configuration for the backend, applying development
// defaults and then overlaying values from the environment, which is the only
// configuration surface Lambda exposes.
package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings shared by every function.
//
// Fields:
//   - UsersTable: DynamoDB table holding user records.
//   - JWTSecret: HMAC secret for signing session tokens (HS256).
//   - TokenValidity: session token lifetime.
//   - BcryptCost: work factor for password hashing.
//   - BaseURL: public API base used to build activation links.
//   - MailFrom: sender address for activation mail.
//   - Offline: serverless-offline style local mode (local DynamoDB endpoint,
//     log-only notifier).
//   - DynamoEndpoint: endpoint override used in offline mode.
//   - LocalAddr: bind address for the local development server.
type Config struct {
	UsersTable     string
	JWTSecret      string
	TokenValidity  time.Duration
	BcryptCost     int
	BaseURL        string
	MailFrom       string
	Offline        bool
	DynamoEndpoint string
	LocalAddr      string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret is insecure and must be overridden outside local runs.
func (c *Config) LoadDefaults() {
	c.UsersTable = "users"
	c.JWTSecret = "secretKey"
	c.TokenValidity = 24 * time.Hour
	c.BcryptCost = bcrypt.DefaultCost
	c.BaseURL = "http://localhost:3000"
	c.MailFrom = "Florin <florin@flado.co>"
	c.Offline = false
	c.DynamoEndpoint = "http://localhost:8000"
	c.LocalAddr = ":3000"
}

// LoadConfig builds a Config by applying defaults and then overlaying values
// from the environment.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	return cfg
}

// parseEnv overlays selected Config fields from environment variables.
//
// Supported variables:
//
//	USERS_TABLE       DynamoDB table name
//	JWT_SECRET        token signing secret
//	TOKEN_VALIDITY    session token lifetime (Go duration, e.g. "24h")
//	BCRYPT_COST       bcrypt work factor
//	API_BASE_URL      public base URL for activation links
//	MAIL_FROM         activation mail sender
//	IS_OFFLINE        "true" enables local mode
//	DYNAMO_ENDPOINT   DynamoDB endpoint override for local mode
//	LOCAL_ADDR        local server bind address
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv("USERS_TABLE"); ok {
		cfg.UsersTable = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		cfg.JWTSecret = v
	}
	if v, ok := os.LookupEnv("TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenValidity = d
		}
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= bcrypt.MinCost && n <= bcrypt.MaxCost {
			cfg.BcryptCost = n
		}
	}
	if v, ok := os.LookupEnv("API_BASE_URL"); ok {
		cfg.BaseURL = v
	}
	if v, ok := os.LookupEnv("MAIL_FROM"); ok {
		cfg.MailFrom = v
	}
	if v, ok := os.LookupEnv("IS_OFFLINE"); ok {
		cfg.Offline = v == "true"
	}
	if v, ok := os.LookupEnv("DYNAMO_ENDPOINT"); ok {
		cfg.DynamoEndpoint = v
	}
	if v, ok := os.LookupEnv("LOCAL_ADDR"); ok {
		cfg.LocalAddr = v
	}
}
