// Package config provides functionality for loading and managing application configuration.
//
// Two documents are handled: the service settings (server, logger, database),
// loaded from a YAML file with environment overrides, and the LLM client
// declarations, loaded as JSON from the CONFIG_JSON environment variable, the
// file named by CONFIG_PATH, or ./config.json, in that order.
package config
