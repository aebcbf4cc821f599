// Package config provides startup configuration for the Redis tool server,
// loading server, store, and logging settings from YAML or JSON files and
// filling in sensible defaults for anything left unset.
package config
