// Package config provides configuration loading and validation for appshelf.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (APPSHELF_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with APPSHELF_ prefix:
//   - server.port → APPSHELF_SERVER_PORT
//   - storage.path → APPSHELF_STORAGE_PATH
//   - log.level → APPSHELF_LOG_LEVEL
//   - env → APPSHELF_ENV
//
// Pages are a list and can only be set in a config file:
//
//	pages:
//	  - route: /
//	    template: index.html
//	  - route: /android
//	    template: android.html
//	    app_type: android
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Storage locations cannot be empty
//   - Every page needs a route starting with / and a template; routes must be
//     unique and cannot overlap /apps/
//   - Log level must be debug, info, warn, or error
package config
