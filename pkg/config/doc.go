// Package config loads the starvals CLI configuration from a YAML file:
// logging settings (level, format) and evaluation settings (timeout).
// Missing files and fields fall back to defaults.
package config
