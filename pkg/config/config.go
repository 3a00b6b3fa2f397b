// Package config loads service configuration from the environment. Every
// required variable is validated at process start so a misconfigured deploy
// fails immediately instead of at first request.
package config

import (
	"time"
)

// DBConfig holds the relational datastore connection settings.
type DBConfig struct {
	Url string `envconfig:"URL" required:"true"`
}

// AdminConfig holds the static admin bearer token.
type AdminConfig struct {
	Token string `envconfig:"TOKEN" required:"true"`
}

// SupabaseConfig holds the object-storage backend endpoint and key.
type SupabaseConfig struct {
	URL            string        `envconfig:"URL" required:"true"`
	ServiceRoleKey string        `envconfig:"SERVICE_ROLE_KEY" required:"true"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
}

// StorageConfig holds document bucket settings.
type StorageConfig struct {
	Bucket         string `envconfig:"BUCKET" default:"documentos"`
	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	// Strict disables the degrade-on-failure fallback of the upload
	// pipeline and surfaces storage outages as errors instead.
	Strict bool `envconfig:"STRICT" default:"false"`
	// DeleteBatchSize bounds keys per bulk-delete call to stay under the
	// backend per-call item limit.
	DeleteBatchSize int `envconfig:"DELETE_BATCH_SIZE" default:"100"`
}

// PayPalConfig holds payment provider credentials.
type PayPalConfig struct {
	ClientID    string        `envconfig:"CLIENT_ID" required:"true"`
	Secret      string        `envconfig:"SECRET" required:"true"`
	BaseURL     string        `envconfig:"BASE_URL" default:"https://api-m.sandbox.paypal.com"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
}

// EmailConfig holds notification mail settings.
type EmailConfig struct {
	ApiKey      string        `envconfig:"API_KEY" required:"true"`
	FromEmail   string        `envconfig:"FROM_EMAIL" default:"noreply@remesas.local"`
	AdminEmail  string        `envconfig:"ADMIN_EMAIL" required:"true"`
	BaseURL     string        `envconfig:"BASE_URL" default:"https://api.sendgrid.com"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[remesas]"`
}

// App is the root configuration.
type App struct {
	Env        string `envconfig:"APP_ENV" default:"development"`
	Host       string `envconfig:"APP_HOST" default:""`
	Port       int    `envconfig:"APP_PORT" default:"8080"`
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"*"`

	Log      LogConfig      `envconfig:"LOG"`
	DB       DBConfig       `envconfig:"DATABASE"`
	Admin    AdminConfig    `envconfig:"ADMIN"`
	Supabase SupabaseConfig `envconfig:"SUPABASE"`
	Storage  StorageConfig  `envconfig:"STORAGE"`
	PayPal   PayPalConfig   `envconfig:"PAYPAL"`
	Email    EmailConfig    `envconfig:"SENDGRID"`
}
