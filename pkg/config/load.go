package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from an optional .env file and the process
// environment. A missing .env file is fine; a missing required variable is
// not and fails the load with envconfig's diagnostic naming the variable.
func Load(logger *slog.Logger, envFilePath ...string) (*App, error) {
	var err error
	if len(envFilePath) > 0 && envFilePath[0] != "" {
		err = godotenv.Load(envFilePath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		logger.Warn("No .env file found, using system environment variables")
	} else {
		logger.Info("Environment variables loaded from .env file")
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	logger.Info("App config loaded",
		"env", cfg.Env,
		"port", cfg.Port,
		"cors_origin", cfg.CORSOrigin,
		"storage_bucket", cfg.Storage.Bucket,
		"storage_strict", cfg.Storage.Strict,
		"max_upload_bytes", cfg.Storage.MaxUploadBytes,
		"supabase_url", cfg.Supabase.URL,
		"supabase_key", maskKey(cfg.Supabase.ServiceRoleKey),
		"paypal_base_url", cfg.PayPal.BaseURL,
		"paypal_client_id", maskKey(cfg.PayPal.ClientID),
		"admin_token", maskKey(cfg.Admin.Token),
	)
	return &cfg, nil
}

func maskKey(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
