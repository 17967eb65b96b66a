package domain

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorKind classifies failures of the data pipeline.
type ErrorKind string

const (
	KindDataUnavailable ErrorKind = "DataUnavailable" // source unreadable or unparsable
	KindDataInvalid     ErrorKind = "DataInvalid"     // source fails GeoJSON validation
	KindEmptyDataset    ErrorKind = "EmptyDataset"    // valid source without features
	KindNotFound        ErrorKind = "NotFound"        // no feature with the requested id
)

// Sentinels for errors.Is comparisons by kind.
var (
	ErrDataUnavailable = &Error{Kind: KindDataUnavailable}
	ErrDataInvalid     = &Error{Kind: KindDataInvalid}
	ErrEmptyDataset    = &Error{Kind: KindEmptyDataset}
	ErrNotFound        = &Error{Kind: KindNotFound}
)

// Error is a classified pipeline failure.
//
// Message is safe to show to clients. Err is the underlying cause and may
// carry internal details such as filesystem paths.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error

	stack []uintptr
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind when target is a sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// StatusCode maps the kind onto an HTTP status.
func (e *Error) StatusCode() int {
	if e.Kind == KindNotFound {
		return 404
	}
	return 500
}

// Stack returns the call stack captured when the error was created.
func (e *Error) Stack() string {
	if len(e.stack) == 0 {
		return ""
	}
	var b strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return b.String()
}

func newError(kind ErrorKind, msg string, cause error) *Error {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	return &Error{Kind: kind, Message: msg, Err: cause, stack: pcs[:n]}
}

// NewDataUnavailable reports a source that could not be read or parsed.
func NewDataUnavailable(cause error) *Error {
	return newError(KindDataUnavailable, "Error al obtener datos", cause)
}

// NewDataInvalid reports a source that failed validation. Every validator
// message is listed.
func NewDataInvalid(violations []string) *Error {
	return newError(KindDataInvalid, "GeoJSON inválido: "+strings.Join(violations, ", "), nil)
}

// NewEmptyDataset reports a structurally valid dataset with no features.
func NewEmptyDataset() *Error {
	return newError(KindEmptyDataset, "No hay datos disponibles", nil)
}

// NewNotFound reports that no station has the given id.
func NewNotFound(id string) *Error {
	return newError(KindNotFound, fmt.Sprintf("Estación con ID %s no encontrada", id), nil)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}
