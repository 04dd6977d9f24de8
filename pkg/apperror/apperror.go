package apperror

import (
	"errors"
	"fmt"
)

// Kind identifies which stage of the pipeline an error belongs to.
type Kind string

const (
	KindLoad              Kind = "load"
	KindEmbedding         Kind = "embedding"
	KindDimensionMismatch Kind = "dimension_mismatch"
	KindIndexConfig       Kind = "index_config"
	KindIndex             Kind = "index"
	KindGeneration        Kind = "generation"
	KindValidation        Kind = "validation"
)

// Error carries the pipeline stage alongside the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches against the kind sentinels below so callers can use errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Msg == "" && t.Err == nil
}

// Sentinels for errors.Is checks.
var (
	ErrLoad              = &Error{Kind: KindLoad}
	ErrEmbedding         = &Error{Kind: KindEmbedding}
	ErrDimensionMismatch = &Error{Kind: KindDimensionMismatch}
	ErrIndexConfig       = &Error{Kind: KindIndexConfig}
	ErrIndex             = &Error{Kind: KindIndex}
	ErrGeneration        = &Error{Kind: KindGeneration}
	ErrValidation        = &Error{Kind: KindValidation}
)

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the pipeline stage of err, or an empty Kind for errors
// that did not originate in this taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
