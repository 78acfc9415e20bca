// Package config provides configuration loading and validation for the
// tollgate server.
//
// The package handles YAML configuration files, environment variables, and
// CLI flags with automatic merging and validation using
// go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (TOLLGATE_ prefix)
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
// All config keys map to environment variables with the TOLLGATE_ prefix:
//   - server.port → TOLLGATE_SERVER_PORT
//   - storage.bucket → TOLLGATE_STORAGE_BUCKET
//   - auth.password → TOLLGATE_AUTH_PASSWORD
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: listen port
//   - Storage: backing object-store endpoint, region, bucket, credentials
//   - Auth: admin credentials and the capability-token secret
//   - CORS: cross-origin resource sharing settings
//   - Log: level and format
//
// The token secret falls back to the admin password when unset; with
// neither configured the gateway serves open access.
package config
