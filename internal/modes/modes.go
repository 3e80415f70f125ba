// Package modes keeps the ordered list of mode names a project is created
// with. A mode becomes a subfolder name.
package modes

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBlank is wrapped by InvalidModeError for empty or whitespace-only names.
	ErrBlank = errors.New("mode name is blank")
	// ErrDuplicate is wrapped by InvalidModeError for a name already in the list.
	ErrDuplicate = errors.New("mode name already added")
)

// InvalidModeError reports a rejected mode name. Callers re-prompt.
type InvalidModeError struct {
	Name   string
	Reason error
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid mode %q: %v", e.Name, e.Reason)
}

func (e *InvalidModeError) Unwrap() error { return e.Reason }

// List is an ordered set of mode names. The zero value is empty and ready
// to use.
type List struct {
	names []string
}

// Append adds name to the end of the list. Whitespace is trimmed only to
// decide whether the name is blank; the raw name is what gets stored and
// compared, case-sensitively.
func (l *List) Append(name string) error {
	if strings.TrimSpace(name) == "" {
		return &InvalidModeError{Name: name, Reason: ErrBlank}
	}
	for _, existing := range l.names {
		if existing == name {
			return &InvalidModeError{Name: name, Reason: ErrDuplicate}
		}
	}
	l.names = append(l.names, name)
	return nil
}

// Modes returns a copy of the names in insertion order.
func (l *List) Modes() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Len returns the number of modes.
func (l *List) Len() int {
	return len(l.names)
}

// FromSlice appends every name in order. The returned list holds the
// accepted names; the error joins every rejection.
func FromSlice(names []string) (*List, error) {
	l := &List{}
	var errs []error
	for _, name := range names {
		if err := l.Append(name); err != nil {
			errs = append(errs, err)
		}
	}
	return l, errors.Join(errs...)
}
