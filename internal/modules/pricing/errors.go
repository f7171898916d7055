package pricing

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid shipment input")
	ErrInvalidTable = errors.New("invalid rate table")
	ErrNoTable      = errors.New("rate table not found")
)

// ValidationError collects every failing field so one bad value never hides another.
// Messages are user-facing (pt-BR).
type ValidationError struct {
	Cause  error
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return e.Cause.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Cause }

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
