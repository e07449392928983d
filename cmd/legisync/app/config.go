package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/openstatehouse/legisync/internal/config"
	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/sources"
	pkgsync "github.com/openstatehouse/legisync/pkg/sync"
)

// EnvPrefix prefixes every environment variable legisync reads.
const EnvPrefix = "LEGISYNC"

// Store drivers.
const (
	StoreREST   = "rest"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Remote store
	StoreDriver string
	StoreURL    string
	StoreAPIKey string
	SQLitePath  string

	// Source
	Source       string
	SourcePath   string
	SourceURL    string
	SourceAPIKey string

	// Legislation paging
	PageSize int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by ApplyFlags)
// 2. Environment variables (LEGISYNC_*)
// 3. .env files
// 4. configFile, or ~/.legisync.yaml and ./.legisync.yaml when empty
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	viper.SetDefault("store.driver", StoreREST)
	viper.SetDefault("source.id", sources.LocalID.String())
	viper.SetDefault("page_size", pkgsync.DefaultPageSize)
	viper.SetDefault("sqlite.path", "legisync.db")

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".legisync")
		}
	}

	// A missing config file is fine unless one was named explicitly
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "reading config file", err)
		}
	}

	storeKey, err := config.GetAPIKey("store", "store.api_key", "")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		NoColor: viper.GetBool("no_color"),
		Format:  viper.GetString("format"),

		ConfigFile: viper.ConfigFileUsed(),

		StoreDriver: viper.GetString("store.driver"),
		StoreURL:    viper.GetString("store.url"),
		StoreAPIKey: storeKey,
		SQLitePath:  viper.GetString("sqlite.path"),

		Source:       viper.GetString("source.id"),
		SourcePath:   viper.GetString("source.path"),
		SourceURL:    viper.GetString("source.url"),
		SourceAPIKey: viper.GetString("source.api_key"),

		PageSize: viper.GetInt("page_size"),

		LogLevel:  viper.GetString("log.level"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", viper.GetString("log.format"), "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", viper.GetString("log.output"), "stderr"),
	}

	return cfg, nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreREST:
		if c.StoreURL == "" {
			return errors.NewConfigError("store", "the rest store requires store.url (LEGISYNC_STORE_URL)", nil)
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return errors.NewConfigError("store", "the sqlite store requires sqlite.path", nil)
		}
	case StoreMemory:
	default:
		return errors.NewValidationError("store.driver", c.StoreDriver, "must be one of: rest, sqlite, memory")
	}

	if !sources.ID(c.Source).IsValid() {
		return errors.NewValidationError("source.id", c.Source, "unknown source")
	}
	if c.PageSize <= 0 {
		return errors.NewValidationError("page_size", c.PageSize, "page size must be positive")
	}
	return nil
}

// ApplyFlags copies every flag set on the command line onto c.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) {
	flags.Visit(func(f *pflag.Flag) {
		v := f.Value.String()
		switch f.Name {
		case "verbose":
			c.Verbose = v == "true"
		case "quiet":
			c.Quiet = v == "true"
		case "no-color":
			c.NoColor = v == "true"
		case "format":
			c.Format = v
		case "log-level":
			c.LogLevel = v
		case "store":
			c.StoreDriver = v
		case "store-url":
			c.StoreURL = v
		case "sqlite-path":
			c.SQLitePath = v
		case "source":
			c.Source = v
		case "source-path":
			c.SourcePath = v
		case "source-url":
			c.SourceURL = v
		}
	})
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the unprefixed environment variable, then the
// configured value, then the default.
func getEnvOrDefault(key, configured, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if configured != "" {
		return configured
	}
	return defaultValue
}
