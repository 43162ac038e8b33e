// Package config loads, normalizes, and validates autolrc configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GEMINI_API_KEY and AUTOLRC_ACOUSTIC_COMMAND. Always obtain settings through
// this package so downstream code receives sanitized paths, canonical
// language names and clear validation errors.
package config
