package container

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ArgumentError reports a missing required argument: an absent positional
// tuple at construction, or an absent callable at call-forwarding.
type ArgumentError struct {
	Msg string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return e.Msg
}

// ComparisonError reports a relational ordering operator applied to a
// container. Containers support only == and !=.
type ComparisonError struct {
	Op syntax.Token
}

// Error implements the error interface.
func (e *ComparisonError) Error() string {
	return fmt.Sprintf("unsupported comparison of containers: %s", e.Op)
}

// TypeMismatchError reports a merge between an unsupported pair of operand
// types.
type TypeMismatchError struct {
	Left  string
	Right string
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cannot merge %s and %s", e.Left, e.Right)
}

// IndexError reports an out-of-range positional index.
type IndexError struct {
	// Index is the index as supplied, before negative-index adjustment.
	// Indices too large for int64 saturate to the int64 bound of the
	// matching sign.
	Index int64

	// Len is the number of positional values in the container.
	Len int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("container index %d out of range (%d positional values)", e.Index, e.Len)
}

// KeyError reports a keyword lookup for an absent key.
type KeyError struct {
	// Key is the quoted textual form of the missing key, with any quote
	// characters inside the key escaped.
	Key string
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	return "container has no keyword " + e.Key
}

// quoteKey renders a key as quoted text for a KeyError. String keys
// contribute their raw contents; other keys contribute their repr.
func quoteKey(k starlark.Value) string {
	text := k.String()
	if s, ok := k.(starlark.String); ok {
		text = string(s)
	}
	return `"` + strings.ReplaceAll(text, `"`, `\"`) + `"`
}
