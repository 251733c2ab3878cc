// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Defaults are applied after validation; credentials may be supplied through
// the FIRETRACK_USERNAME and FIRETRACK_PASSWORD environment variables so they
// stay out of the file.
package config
