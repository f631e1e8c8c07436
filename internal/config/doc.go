// Package config loads the application configuration.
//
// Configuration is layered: built-in defaults, then an optional YAML
// file, then INBOXPILOT_* environment variables. Nested keys map to
// environment variables with underscores, e.g. anthropic.api_key
// becomes INBOXPILOT_ANTHROPIC_API_KEY.
package config
