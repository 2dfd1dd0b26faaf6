package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/idilsaglam/standup/internal/kv"
)

// Kind classifies a storage failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindQuotaExceeded
	KindCorrupt
)

func (k Kind) String() string {
	switch k {
	case KindQuotaExceeded:
		return "quota exceeded"
	case KindCorrupt:
		return "corrupt data"
	default:
		return "unknown"
	}
}

// Message is the user-facing text for a failure of this kind.
func (k Kind) Message() string {
	switch k {
	case KindQuotaExceeded:
		return "Storage is full. Please delete some entries to make room."
	case KindCorrupt:
		return "Stored data is corrupted. Starting fresh."
	default:
		return "An unexpected error occurred while accessing storage."
	}
}

// Error is returned by every Store operation that fails.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind of a store failure anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return KindUnknown, false
}

// UserMessage returns the text to show a user for err.
func UserMessage(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return KindUnknown.Message()
}

func classify(op string, err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	kind := KindUnknown
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, kv.ErrQuotaExceeded):
		kind = KindQuotaExceeded
	case errors.As(err, &syntaxErr):
		kind = KindCorrupt
	}
	return &Error{Kind: kind, Message: kind.Message(), Err: fmt.Errorf("%s: %w", op, err)}
}
