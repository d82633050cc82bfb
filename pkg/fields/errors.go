package fields

import "fmt"

// ConfigError reports an integrator mistake found while normalizing a raw
// declaration. Configuration errors are fatal: they are raised immediately
// and never silently coerced.
type ConfigError struct {
	// Path is the dotted location of the offending declaration, e.g.
	// "sections.0.title". Empty when the error is not tied to one field.
	Path   string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Path == "" {
		return "fields: " + e.Reason
	}
	return fmt.Sprintf("fields: %s: %s", e.Path, e.Reason)
}

func configErrorf(path, format string, args ...any) error {
	return &ConfigError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
