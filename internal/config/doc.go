// Package config loads, normalizes, and validates clipkeeper configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CLIPKEEPER_ROOT environment
// fallback for the dataset root. The Config type centralizes the dataset
// layout (split names, replacement pool, annotations directory), probe
// tuning, and subsampling bounds so the reconciliation engine and the
// subsampler receive them at construction time instead of reading globals.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
