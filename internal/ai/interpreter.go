package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PayloadKind selects which bracket pair delimits the payload in a completion.
type PayloadKind int

const (
	PayloadObject PayloadKind = iota
	PayloadArray
)

func (k PayloadKind) String() string {
	if k == PayloadArray {
		return "array"
	}
	return "object"
}

func (k PayloadKind) brackets() (opening, closing string) {
	if k == PayloadArray {
		return "[", "]"
	}
	return "{", "}"
}

// ErrNoPayload is returned when a completion contains no bracketed span.
var ErrNoPayload = errors.New("no JSON payload in completion")

// PayloadError reports a span that was found but did not decode.
type PayloadError struct {
	Kind PayloadKind
	Err  error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("malformed JSON %s payload: %v", e.Kind, e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

// ExtractPayload returns the span from the first opening bracket to the last
// closing bracket of the given kind. Anything around it is commentary.
func ExtractPayload(completion string, kind PayloadKind) (string, error) {
	opening, closing := kind.brackets()
	start := strings.Index(completion, opening)
	if start < 0 {
		return "", ErrNoPayload
	}
	end := strings.LastIndex(completion, closing)
	if end < start {
		return "", ErrNoPayload
	}
	return completion[start : end+1], nil
}

// Interpret extracts and decodes the payload of a completion into T.
// It returns ErrNoPayload or a *PayloadError on failure.
func Interpret[T any](completion string, kind PayloadKind) (T, error) {
	var out T
	span, err := ExtractPayload(completion, kind)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		var zero T
		return zero, &PayloadError{Kind: kind, Err: err}
	}
	return out, nil
}

// failureClass names an interpreter or transport failure for logs and metrics.
func failureClass(err error) string {
	var payloadErr *PayloadError
	switch {
	case errors.Is(err, ErrNoPayload):
		return "no_payload"
	case errors.As(err, &payloadErr):
		return "parse_error"
	default:
		return "transport"
	}
}
