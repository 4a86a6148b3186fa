package material

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFormat = errors.New("material: unknown file format")
	ErrNotFound      = errors.New("material: not found")
	ErrNoResolver    = errors.New("material: no texture resolver")
	ErrInvalidData   = errors.New("material: invalid stream data")
	ErrSyntax        = errors.New("material: syntax error")
)

// ParseError locates a failure inside a material definition file. Line is
// 0 when the underlying parser does not report one.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("material: %s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("material: %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
