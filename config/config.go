package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/appshelf"
	shelfhttp "github.com/sagarc03/appshelf/http"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "APPSHELF"

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for appshelf.
type Config struct {
	Server  ServerConfig         `mapstructure:"server"`
	Storage StorageConfig        `mapstructure:"storage"`
	Pages   []appshelf.Page      `mapstructure:"pages" validate:"required,min=1,dive"`
	CORS    shelfhttp.CORSConfig `mapstructure:"cors"`
	Log     LogConfig            `mapstructure:"log"`
	// Env selects the log format: prod or production logs JSON.
	Env string `mapstructure:"env"`
}

// IsProduction reports whether Env names a production deployment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "prod" || env == "production"
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
	// ShutdownTimeout is the graceful shutdown budget in seconds.
	ShutdownTimeout int `mapstructure:"shutdown_timeout" validate:"min=1"`
}

// StorageConfig locates the served directory and the service inputs inside
// it.
type StorageConfig struct {
	Path         string `mapstructure:"path" validate:"required"`
	AppsDir      string `mapstructure:"apps_dir" validate:"required"`
	Catalog      string `mapstructure:"catalog" validate:"required"`
	TemplatesDir string `mapstructure:"templates_dir" validate:"required"`
}

// ServiceConfig returns the service settings for this storage layout.
func (s StorageConfig) ServiceConfig() appshelf.ServiceConfig {
	return appshelf.ServiceConfig{
		AppsDir:      s.AppsDir,
		CatalogFile:  s.Catalog,
		TemplatesDir: s.TemplatesDir,
	}
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"port":          "server.port",
	"storage-path":  "storage.path",
	"apps-dir":      "storage.apps_dir",
	"catalog":       "storage.catalog",
	"templates-dir": "storage.templates_dir",
	"log-level":     "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 30) // seconds

	v.SetDefault("storage.path", ".")
	v.SetDefault("storage.apps_dir", appshelf.DefaultAppsDir)
	v.SetDefault("storage.catalog", appshelf.DefaultCatalogFile)
	v.SetDefault("storage.templates_dir", appshelf.DefaultTemplatesDir)

	pages := make([]map[string]any, 0, 2)
	for _, p := range appshelf.DefaultPages() {
		pages = append(pages, map[string]any{
			"route":    p.Route,
			"template": p.Template,
			"app_type": p.AppType,
		})
	}
	v.SetDefault("pages", pages)

	v.SetDefault("cors.enabled", false)
	v.SetDefault("cors.allowed_methods", []string{"GET", "HEAD", "OPTIONS"})

	v.SetDefault("log.level", "info")
	v.SetDefault("env", "")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := appshelf.ValidatePages(cfg.Pages); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
