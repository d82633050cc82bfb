// Package config loads declaration documents: JSON or YAML files that attach
// a field tree to each content type. Documents are parsed with dual-format
// probing, normalized through pkg/fields, and collected into an immutable
// store keyed by content type.
package config
