package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInput         = errors.New("input error")
	ErrParse         = errors.New("parse error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Scope reports how far a failure reaches. Input and not-found errors abort
// only the file that produced them; configuration errors abort the run.
type Scope string

const (
	ScopeRecord Scope = "record"
	ScopeFile   Scope = "file"
	ScopeRun    Scope = "run"
)

// FailureScope maps an error to the unit of work it invalidates.
func FailureScope(err error) Scope {
	switch {
	case err == nil:
		return ScopeRecord
	case errors.Is(err, ErrConfiguration):
		return ScopeRun
	case errors.Is(err, ErrInput), errors.Is(err, ErrNotFound):
		return ScopeFile
	default:
		return ScopeRecord
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
