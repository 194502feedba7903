package reportgen

import "fmt"

// ErrorKind classifies where a generation attempt failed.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindCompose           // template/data binding failed
	KindRender            // backend could not paint the layout
	KindWrite             // output file could not be written
	KindCanceled          // context canceled or deadline exceeded
)

func (k ErrorKind) String() string {
	switch k {
	case KindCompose:
		return "compose"
	case KindRender:
		return "render"
	case KindWrite:
		return "write"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// GenerateError is a generation failure with operation context. It wraps
// the underlying error and records which stage failed.
type GenerateError struct {
	Op   string // operation name, e.g. "Generate", "GenerateToFile"
	Kind ErrorKind
	Err  error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("reportgen.%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *GenerateError) Unwrap() error {
	return e.Err
}

func newGenerateError(op string, kind ErrorKind, err error) *GenerateError {
	return &GenerateError{Op: op, Kind: kind, Err: err}
}
