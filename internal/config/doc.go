// Package config loads and validates engine configuration from YAML files.
//
// Files support ${VAR} environment variable substitution. Load, LoadWithDefaults,
// and LoadAndValidate offer increasing levels of processing; the daemon uses
// LoadAndValidate.
package config
