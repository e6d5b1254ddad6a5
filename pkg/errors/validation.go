package errors

import (
	"path/filepath"
	"strings"
)

// ValidateComponentID validates a user-assigned component identifier.
//
// Identifiers are free-form strings. The only rules are that they are not
// empty and contain no null bytes; uniqueness is the store's concern.
func ValidateComponentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "component ID cannot be empty")
	}
	if strings.ContainsRune(id, '\x00') {
		return New(ErrCodeInvalidInput, "component ID contains a null byte")
	}
	return nil
}

// ValidateArchitecturePath validates the path of an architecture file.
// Architecture files are TOML, so the extension must be .toml.
func ValidateArchitecturePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "architecture file path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidInput, "architecture file path contains a null byte")
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".toml" {
		return New(ErrCodeInvalidFormat, "architecture file must be .toml, got %q", filepath.Base(path))
	}
	return nil
}
