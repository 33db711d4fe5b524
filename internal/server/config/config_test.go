package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.UsersTable != "users" {
		t.Errorf("expected default table %q, got %q", "users", cfg.UsersTable)
	}
	if cfg.TokenValidity != 24*time.Hour {
		t.Errorf("expected 24h token validity, got %v", cfg.TokenValidity)
	}
	if cfg.Offline {
		t.Errorf("expected offline mode disabled by default")
	}
}

func TestLoadConfig_EnvOverlay(t *testing.T) {
	t.Setenv("USERS_TABLE", "users-prod")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("TOKEN_VALIDITY", "1h")
	t.Setenv("IS_OFFLINE", "true")
	t.Setenv("API_BASE_URL", "https://api.example.com/dev")

	cfg := LoadConfig()

	if cfg.UsersTable != "users-prod" {
		t.Errorf("table not overlaid: %q", cfg.UsersTable)
	}
	if cfg.JWTSecret != "s3cr3t" {
		t.Errorf("secret not overlaid")
	}
	if cfg.TokenValidity != time.Hour {
		t.Errorf("validity not overlaid: %v", cfg.TokenValidity)
	}
	if !cfg.Offline {
		t.Errorf("offline flag not overlaid")
	}
	if cfg.BaseURL != "https://api.example.com/dev" {
		t.Errorf("base URL not overlaid: %q", cfg.BaseURL)
	}
}

func TestLoadConfig_InvalidValuesKeepDefaults(t *testing.T) {
	t.Setenv("TOKEN_VALIDITY", "not-a-duration")
	t.Setenv("BCRYPT_COST", "99")

	cfg := LoadConfig()

	if cfg.TokenValidity != 24*time.Hour {
		t.Errorf("invalid duration should keep default, got %v", cfg.TokenValidity)
	}
	if cfg.BcryptCost == 99 {
		t.Errorf("out-of-range bcrypt cost should keep default")
	}
}
