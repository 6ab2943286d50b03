package preset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPresetInvalid is the umbrella sentinel for every validation failure
// produced by this package. Callers can match any structured validation
// error with errors.Is(err, ErrPresetInvalid).
var ErrPresetInvalid = errors.New("invalid preset")

// UnsupportedOptionError reports an override option the target algorithm
// does not accept.
type UnsupportedOptionError struct {
	// Algo is the algorithm the override referenced.
	Algo string

	// Option is the offending hyperparameter key.
	Option string

	// Supported is the closed set of keys the algorithm accepts.
	Supported []string
}

func (e *UnsupportedOptionError) Error() string {
	supported := "none"
	if len(e.Supported) > 0 {
		supported = strings.Join(e.Supported, ", ")
	}
	return fmt.Sprintf("unsupported option %q for algo %q; supported options: %s", e.Option, e.Algo, supported)
}

// Is matches the ErrPresetInvalid sentinel.
func (e *UnsupportedOptionError) Is(target error) bool {
	return target == ErrPresetInvalid
}

// UnrecognizedPresetKeysError reports every top-level key of a raw preset
// mapping that falls outside the closed schema. All offenders are collected
// before the error is raised, not just the first.
type UnrecognizedPresetKeysError struct {
	// Keys holds the offending keys in lexical order.
	Keys []string
}

func (e *UnrecognizedPresetKeysError) Error() string {
	return fmt.Sprintf("unknown preset keys: %s; valid keys: %s",
		strings.Join(e.Keys, ", "), strings.Join(ValidPresetKeys, ", "))
}

// Is matches the ErrPresetInvalid sentinel.
func (e *UnrecognizedPresetKeysError) Is(target error) bool {
	return target == ErrPresetInvalid
}

// FileError reports that a preset source could not be read or parsed.
// It wraps the underlying I/O or syntax error and is always propagated to
// the caller, never degraded to a printed diagnostic.
type FileError struct {
	// Path is the preset source location.
	Path string

	// Err is the underlying cause.
	Err error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("preset file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
