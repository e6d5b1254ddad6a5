package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "layout.iterations")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidFormats returns every output format any visualization supports
func ValidFormats() []string {
	return []string{"svg", "dot", "json", "png", "pdf", "txt"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg})
	}

	if c.Layout.Iterations < 1 {
		add("layout.iterations", c.Layout.Iterations, "must be at least 1")
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"layout.spring_length", c.Layout.SpringLength},
		{"layout.attraction", c.Layout.Attraction},
		{"layout.repulsion", c.Layout.Repulsion},
		{"layout.initial_temperature", c.Layout.InitialTemperature},
	} {
		if f.value < 0 {
			add(f.name, f.value, "must not be negative")
		}
	}
	if c.Layout.MinDistance <= 0 {
		add("layout.min_distance", c.Layout.MinDistance, "must be positive")
	}

	for _, f := range c.Render.Formats {
		if !slices.Contains(ValidFormats(), f) {
			add("render.formats", f, "must be one of "+strings.Join(ValidFormats(), ", "))
		}
	}
	if c.Render.Scale <= 0 {
		add("render.scale", c.Render.Scale, "must be positive")
	}
	if c.Render.PNGScale <= 0 {
		add("render.png_scale", c.Render.PNGScale, "must be positive")
	}

	if c.Serve.Addr == "" {
		add("serve.addr", c.Serve.Addr, "must not be empty")
	}
	if c.Serve.MaxIterations < 1 {
		add("serve.max_iterations", c.Serve.MaxIterations, "must be at least 1")
	} else if c.Serve.MaxIterations < c.Layout.Iterations {
		add("serve.max_iterations", c.Serve.MaxIterations, "must not be below layout.iterations")
	}
	return errs
}
