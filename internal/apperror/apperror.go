package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies application errors so transport layers can map them to
// status codes without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConfig
	KindProvider
	KindConflict
	KindValidation
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound covers both "absent" and "not owned by caller"; the two are
// intentionally indistinguishable so that existence is never leaked to
// non-owners.
func NotFound(what string) *AppError {
	return &AppError{Kind: KindNotFound, Message: what + " not found"}
}

// Config reports an integration that is unusable in its current
// configuration. The reason must be human-actionable (which credential is
// missing, which endpoint is unreachable).
func Config(reason string) *AppError {
	return &AppError{Kind: KindConfig, Message: reason}
}

func Configf(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// Provider reports a configured provider failing at call time (timeout,
// rate limit, malformed response).
func Provider(message string, cause error) *AppError {
	return &AppError{Kind: KindProvider, Message: message, Err: cause}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// KindOf extracts the Kind from any error in the chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
func IsConfig(err error) bool   { return KindOf(err) == KindConfig }
func IsProvider(err error) bool { return KindOf(err) == KindProvider }
func IsConflict(err error) bool { return KindOf(err) == KindConflict }
