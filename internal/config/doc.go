// Package config provides centralized configuration management for the KIND
// disclosure collector. It loads configuration from environment variables and
// an optional YAML file, validates it, and exposes the resolved filesystem
// paths used by every component.
//
// # Configuration Sources
//
// Configuration is loaded in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml next to the executable
//	3. Struct defaults (lowest priority)
//
// # Environment Variables
//
// All environment variables are namespaced with the KIND_ prefix:
//
//	KIND_LOGGING_LEVEL=debug
//	KIND_BROWSER_HEADLESS=false
//	KIND_COLLECTOR_PAGE_SIZE=100
package config
