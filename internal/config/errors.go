package config

import (
	"errors"
	"fmt"
)

// ErrInvalidName is returned by Save for a section name or key that would
// not read back unchanged.
var ErrInvalidName = errors.New("invalid config name")

// ErrInvalidValue is returned by Save for a value that is not valid UTF-8.
var ErrInvalidValue = errors.New("invalid config value")

// ReadError reports an I/O fault while reading the config file. Callers may
// retry or continue with defaults.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read config %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// DecodeError reports a config file whose content is not UTF-8 text.
type DecodeError struct {
	Path string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("config %s is not valid UTF-8", e.Path)
}
