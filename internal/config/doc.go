// Package config loads and validates trader configuration from YAML files
// or environment variables. ${VAR} references in the YAML are expanded from
// the environment before parsing.
package config
