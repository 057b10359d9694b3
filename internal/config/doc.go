// Package config loads client configuration from YAML.
//
// Files may reference environment variables with ${VAR}; they are expanded
// before parsing. Zero values are filled in by defaults, then validated.
package config
