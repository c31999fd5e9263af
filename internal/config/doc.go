// Package config defines the application's configuration structure and
// loads it from environment variables (STUDYBUDDY_ prefix) and an
// optional config.yaml, validating the result before use.
package config
