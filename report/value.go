package report

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnsupportedValue reports an extension value that has no text form.
var ErrUnsupportedValue = errors.New("report: value has no text form")

// Kind tags the type held by a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindBytes
)

// Value is a tagged extension-data value. The zero Value is invalid and
// fails text resolution, as do byte values; the other kinds have a
// canonical text form.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	raw  []byte
}

func String(s string) Value { return Value{kind: KindString, s: s} }
func Int(i int64) Value     { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value     { return Value{kind: KindBool, b: b} }
func Bytes(p []byte) Value  { return Value{kind: KindBytes, raw: p} }

// Kind returns the tag of v.
func (v Value) Kind() Kind { return v.kind }

// Text returns the canonical textual form of v. Byte and zero values
// return ErrUnsupportedValue; the caller decides whether that is fatal.
func (v Value) Text() (string, error) {
	switch v.kind {
	case KindString:
		return v.s, nil
	case KindInt:
		return strconv.FormatInt(v.i, 10), nil
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64), nil
	case KindBool:
		return strconv.FormatBool(v.b), nil
	default:
		return "", fmt.Errorf("%w (kind %d)", ErrUnsupportedValue, v.kind)
	}
}

// BytesValue returns the raw bytes for a KindBytes value, or nil.
func (v Value) BytesValue() []byte {
	if v.kind != KindBytes {
		return nil
	}
	return v.raw
}
