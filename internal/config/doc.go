// Package config loads, normalizes, and validates cuesheet configuration.
//
// Configuration is TOML, resolved from an explicit --config path, then
// ~/.config/cuesheet/config.toml, then ./cuesheet.toml. Missing files are not
// an error; defaults apply. All path fields are ~-expanded and absolute after
// Load returns.
package config
