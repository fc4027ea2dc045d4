package config_test

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/sjyoon/taskhub-api/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_PORT", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD",
		"DB_NAME", "DB_SSLMODE", "APP_ENV", "AUTH_DEV_MODE", "LOG_LEVEL",
		"COGNITO_REGION", "COGNITO_USER_POOL_ID", "COGNITO_APP_CLIENT_ID", "COGNITO_APP_CLIENT_SECRET",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := config.Load()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ServerPort", cfg.ServerPort, "8080"},
		{"AppEnv", cfg.AppEnv, "local"},
		{"DB.Host", cfg.DB.Host, "localhost"},
		{"DB.Port", cfg.DB.Port, "5432"},
		{"DB.User", cfg.DB.User, "taskhub"},
		{"DB.Password", cfg.DB.Password, "taskhub"},
		{"DB.Name", cfg.DB.Name, "taskhub"},
		{"DB.SSLMode", cfg.DB.SSLMode, "disable"},
		{"Cognito.Region", cfg.Cognito.Region, "us-east-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}

	t.Run("AuthDevMode", func(t *testing.T) {
		if cfg.AuthDevMode {
			t.Errorf("got AuthDevMode=true, want false")
		}
	})
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("AUTH_DEV_MODE", "TRUE")
	t.Setenv("DB_HOST", "db.internal")

	cfg := config.Load()

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %s, want 9090", cfg.ServerPort)
	}
	if cfg.AppEnv != "prod" {
		t.Errorf("AppEnv = %s, want prod", cfg.AppEnv)
	}
	if !cfg.AuthDevMode {
		t.Error("AuthDevMode = false, want true (case-insensitive parse)")
	}
	if cfg.DB.Host != "db.internal" {
		t.Errorf("DB.Host = %s, want db.internal", cfg.DB.Host)
	}
}

func TestValidate(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			ServerPort: "8080",
			AppEnv:     "local",
			Cognito: config.CognitoConfig{
				UserPoolID:  "us-east-1_abc",
				AppClientID: "client-id",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(c *config.Config) {}, ""},
		{"bad port", func(c *config.Config) { c.ServerPort = "not-a-port" }, "invalid SERVER_PORT"},
		{"bad env", func(c *config.Config) { c.AppEnv = "production" }, "invalid APP_ENV"},
		{"dev mode outside local", func(c *config.Config) {
			c.AppEnv = "prod"
			c.AuthDevMode = true
		}, "AUTH_DEV_MODE"},
		{"dev mode in local", func(c *config.Config) {
			c.AuthDevMode = true
			c.Cognito = config.CognitoConfig{}
		}, ""},
		{"missing pool id", func(c *config.Config) { c.Cognito.UserPoolID = "" }, "COGNITO_USER_POOL_ID"},
		{"missing client id", func(c *config.Config) { c.Cognito.AppClientID = "" }, "COGNITO_APP_CLIENT_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := config.Config{LogLevel: tt.level}
			if got := cfg.ParseLogLevel(); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	db := config.DBConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "taskhub",
		Password: "p@ss/word",
		Name:     "taskhub",
		SSLMode:  "disable",
	}

	dsn := db.DSN()
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Errorf("DSN = %s, want postgres:// scheme", dsn)
	}
	if !strings.Contains(dsn, "localhost:5432") {
		t.Errorf("DSN = %s, want host:port", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("DSN = %s, want sslmode query", dsn)
	}
	if strings.Contains(dsn, "p@ss/word") {
		t.Errorf("DSN = %s, password not escaped", dsn)
	}
}
