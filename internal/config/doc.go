// Package config loads, normalizes, and validates railcheck configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and applies RAILCHECK_* environment overrides.
// The Config type centralizes every knob the daemon and CLI need so the data
// directory, plan library, export naming and log routing are discovered in one
// pass.
package config
