package generation

import (
	"errors"
	"fmt"
)

// Kind classifies a generation failure so callers can map it to a
// response without parsing error strings.
type Kind string

const (
	// KindUnavailable covers network failures and upstream 5xx responses.
	KindUnavailable Kind = "unavailable"
	// KindRateLimited maps an upstream 429.
	KindRateLimited Kind = "rate_limited"
	// KindQuotaExhausted maps an upstream 402.
	KindQuotaExhausted Kind = "quota_exhausted"
	// KindMalformedResponse means the model output was not valid JSON.
	KindMalformedResponse Kind = "malformed_response"
	// KindIncompleteResponse means the JSON parsed but lacked a
	// required field.
	KindIncompleteResponse Kind = "incomplete_response"
)

// Error is a generation failure with a classification and, for
// malformed output, the raw model text for logs.
type Error struct {
	Kind    Kind
	Message string
	Raw     string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.err
}

// KindOf returns the classification of err, or an empty Kind when err
// is not a generation error.
func KindOf(err error) Kind {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return ""
}

func errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapf(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), err: err}
}
