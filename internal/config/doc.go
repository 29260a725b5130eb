// Package config loads and validates the co-pilot client configuration.
//
// Configuration is YAML with ${VAR} environment variable substitution.
// Load parses the file as-is, LoadWithDefaults fills unset values, and
// LoadAndValidate additionally rejects invalid configurations.
package config
