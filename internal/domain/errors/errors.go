package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalid   = errors.New("invalid")
	ErrExhausted = errors.New("no links left to announce")
)

// FieldError describes one bad value. Row is the 1-based spreadsheet line,
// zero for errors that are not tied to a row (config fields).
type FieldError struct {
	Row     int
	Field   string
	Message string
}

func (e FieldError) Error() string {
	switch {
	case e.Row > 0 && e.Field != "":
		return fmt.Sprintf("line %d: %s: %s", e.Row, e.Field, e.Message)
	case e.Row > 0:
		return fmt.Sprintf("line %d: %s", e.Row, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	default:
		return e.Message
	}
}

type ValidationError struct {
	Items []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "validation failed"
	}

	var b strings.Builder
	b.WriteString("validation failed:\n")
	for _, item := range e.Items {
		b.WriteString(" - ")
		b.WriteString(item.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func (e *ValidationError) Add(field, msg string) {
	e.Items = append(e.Items, FieldError{
		Field:   field,
		Message: msg,
	})
}

func (e *ValidationError) AddRow(row int, field, msg string) {
	e.Items = append(e.Items, FieldError{
		Row:     row,
		Field:   field,
		Message: msg,
	})
}

// Rows returns the distinct line numbers that failed, in report order.
func (e ValidationError) Rows() []int {
	seen := make(map[int]struct{}, len(e.Items))
	var out []int
	for _, item := range e.Items {
		if item.Row == 0 {
			continue
		}
		if _, ok := seen[item.Row]; ok {
			continue
		}
		seen[item.Row] = struct{}{}
		out = append(out, item.Row)
	}
	return out
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e ValidationError) HasAny() bool {
	return len(e.Items) > 0
}

// RenderError is a failed output stage. Earlier stages keep their output.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// SnapshotError is logged and skipped by the build, never returned from it.
type SnapshotError struct {
	URL string
	Err error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot %s: %v", e.URL, e.Err)
}

func (e *SnapshotError) Unwrap() error { return e.Err }

type ExhaustedError struct {
	Index int
	Len   int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s (cursor %d, %d links)", ErrExhausted.Error(), e.Index, e.Len)
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

type WarningKind string

const (
	KindMissingCategory WarningKind = "missing_category"
	KindPathCollision   WarningKind = "path_collision"
)

// Warning is a non-fatal finding surfaced in the build result.
type Warning struct {
	Kind    WarningKind
	Key     string
	Message string
}

func (w Warning) String() string {
	if w.Key == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Key, w.Message)
}
