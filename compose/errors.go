package compose

import "fmt"

// Error is a composition failure. Composition errors are structural, in
// the sense that a template author wrote something unresolvable, and abort
// the whole Compose call; missing data values never produce one.
type Error struct {
	Section string // which part of the walk failed, e.g. "custom section 2"
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("compose: %s: %v", e.Section, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func composeErr(section string, err error) *Error {
	return &Error{Section: section, Err: err}
}
