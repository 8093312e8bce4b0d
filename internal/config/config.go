// Package config loads environment variables into typed structs and validates
// them so the application fails fast on bad or missing configuration.
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// envPrefix is stripped from environment variable names before they are
// mapped onto Config fields, e.g. AGREEMENTS_SERVER.PORT -> server.port.
const envPrefix = "AGREEMENTS_"

// Config is the root configuration object. Observability is a pointer so it
// can be omitted entirely; defaults are injected when it is nil.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	BulkUpload    BulkUploadConfig     `koanf:"bulk_upload" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups HTTP server runtime settings. Timeouts are seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
// Schema is the application schema where all tables live.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	Schema          string `koanf:"schema" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details ("host:port").
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig holds the settings needed to verify access tokens issued by the
// identity provider. PublicKey is the PEM-encoded RS256 verification key.
type AuthConfig struct {
	PublicKey string `koanf:"public_key" validate:"required"`
	Audience  string `koanf:"audience" validate:"required"`
	Issuer    string `koanf:"issuer"`
}

// BulkUploadConfig controls the agreements bulk-upload pipeline.
type BulkUploadConfig struct {
	// DocumentsDir is where uploaded spreadsheets are persisted.
	DocumentsDir string `koanf:"documents_dir" validate:"required"`
	// TemplateURL is handed to clients that ask for the upload template.
	TemplateURL string `koanf:"template_url" validate:"required"`
	// MaxRows caps the number of data rows accepted per document.
	MaxRows int `koanf:"max_rows" validate:"required,min=1"`
}

// IntegrationConfig stores credentials for external providers.
type IntegrationConfig struct {
	ResendAPIKey      string `koanf:"resend_api_key"`
	NotificationsFrom string `koanf:"notifications_from"`
}

// loadConfig reads AGREEMENTS_-prefixed env vars, unmarshals them into Config,
// validates the result and applies observability defaults.
func loadConfig() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load env variables")
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("could not unmarshal config")
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("config validation failed")
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are fixed here so telemetry stays
	// consistent no matter what the env provides.
	mainConfig.Observability.ServiceName = "agreements-core-api"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}

// Load returns the fully validated application configuration.
func Load() (*Config, error) {
	return loadConfig()
}
