package config

import (
	"fmt"
	"strings"
)

// ConfigError collects every problem found while loading a config file:
// unresolved environment variables and failed validation rules.
type ConfigError struct {
	Path    string
	Missing []string // "NAME" or "NAME: message" for ${NAME:?message}
	Errors  []string // "key: problem"
}

func (e *ConfigError) Error() string {
	if !e.HasErrors() {
		return ""
	}

	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "%s: ", e.Path)
	}
	fmt.Fprintf(&b, "%d problem(s)", len(e.Missing)+len(e.Errors))
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "\nmissing environment variables: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Errors) > 0 {
		b.WriteString("\nvalidation failed:")
		for _, msg := range e.Errors {
			b.WriteString("\n  - " + msg)
		}
	}
	return b.String()
}

func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
