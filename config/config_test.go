package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/appshelf"
	"github.com/sagarc03/appshelf/config"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	// Load with no config files should use defaults
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.ShutdownTimeout)
	assert.Equal(t, ".", cfg.Storage.Path)
	assert.Equal(t, "apps", cfg.Storage.AppsDir)
	assert.Equal(t, "apps_metadata.json", cfg.Storage.Catalog)
	assert.Equal(t, "templates", cfg.Storage.TemplatesDir)
	assert.Equal(t, appshelf.DefaultPages(), cfg.Pages)
	assert.False(t, cfg.CORS.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_ConfigFile(t *testing.T) {
	configPath := writeConfig(t, "config.yaml", `
server:
  port: 9000
  shutdown_timeout: 5
storage:
  path: /srv/shelf
  apps_dir: packages
  catalog: catalog.yaml
  templates_dir: html
pages:
  - route: /
    template: home.html
  - route: /ios
    template: ios.html
    app_type: ios
log:
  level: debug
env: production
`)

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/srv/shelf", cfg.Storage.Path)
	assert.Equal(t, appshelf.ServiceConfig{
		AppsDir:      "packages",
		CatalogFile:  "catalog.yaml",
		TemplatesDir: "html",
	}, cfg.Storage.ServiceConfig())
	assert.Equal(t, []appshelf.Page{
		{Route: "/", Template: "home.html"},
		{Route: "/ios", Template: "ios.html", AppType: "ios"},
	}, cfg.Pages)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_ConfigFileMerge(t *testing.T) {
	basePath := writeConfig(t, "base.yaml", `
server:
  port: 8080
storage:
  path: ./shelf
log:
  level: info
`)
	overridePath := writeConfig(t, "override.yaml", `
server:
  port: 9000
log:
  level: warn
`)

	// Load with merge (later files override earlier)
	cfg, err := config.Load([]string{basePath, overridePath}, nil)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)

	// Preserved values from base
	assert.Equal(t, "./shelf", cfg.Storage.Path)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	cfg, err := config.Load([]string{filepath.Join(t.TempDir(), "missing.yaml")}, nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "port out of range", content: "server:\n  port: 99999\n"},
		{name: "unknown log level", content: "log:\n  level: loud\n"},
		{name: "empty storage path", content: "storage:\n  path: \"\"\n"},
		{name: "no pages", content: "pages: []\n"},
		{name: "page without template", content: "pages:\n  - route: /\n"},
		{name: "relative route", content: "pages:\n  - route: android\n    template: android.html\n"},
		{name: "route under apps", content: "pages:\n  - route: /apps/x\n    template: x.html\n"},
		{name: "duplicate route", content: "pages:\n  - route: /\n    template: a.html\n  - route: /\n    template: b.html\n"},
		{name: "negative cors max age", content: "cors:\n  max_age: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := writeConfig(t, "config.yaml", tt.content)

			_, err := config.Load([]string{configPath}, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validate config")
		})
	}
}

func TestLoad_WithCORS(t *testing.T) {
	configPath := writeConfig(t, "config.yaml", `
cors:
  enabled: true
  allowed_origins:
    - https://example.com
    - https://app.example.com
  allowed_methods:
    - GET
  allowed_headers:
    - Content-Type
  max_age: 600
`)

	cfg, err := config.Load([]string{configPath}, nil)
	require.NoError(t, err)

	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"https://example.com", "https://app.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET"}, cfg.CORS.AllowedMethods)
	assert.Equal(t, []string{"Content-Type"}, cfg.CORS.AllowedHeaders)
	assert.Equal(t, 600, cfg.CORS.MaxAge)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("APPSHELF_SERVER_PORT", "9090")
	t.Setenv("APPSHELF_STORAGE_PATH", "/var/shelf")
	t.Setenv("APPSHELF_LOG_LEVEL", "error")
	t.Setenv("APPSHELF_ENV", "prod")

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/var/shelf", cfg.Storage.Path)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Flags(t *testing.T) {
	t.Setenv("APPSHELF_SERVER_PORT", "9090")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 8080, "")
	flags.String("storage-path", "", "")
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--port", "7000", "--log-level", "debug"}))

	cfg, err := config.Load(nil, flags)
	require.NoError(t, err)

	// flags beat the environment
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	// unset flags do not shadow defaults
	assert.Equal(t, ".", cfg.Storage.Path)
}

func TestContext(t *testing.T) {
	_, err := config.FromContext(context.Background())
	assert.Error(t, err)

	cfg := &config.Config{Env: "prod"}
	got, err := config.FromContext(config.WithContext(context.Background(), cfg))
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}
