package commerce

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nimburion/storefront/pkg/repository/document"
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is, except unclassified store failures.
var (
	ErrInvalidIdentifier        = errors.New("invalid identifier")
	ErrEmptyUpdate              = errors.New("empty update")
	ErrNoFilterProvided         = errors.New("no filter provided")
	ErrNotFound                 = errors.New("not found")
	ErrReferencedEntityNotFound = errors.New("referenced entity not found")
	ErrDuplicateEntity          = errors.New("duplicate entity")
	ErrValidation               = errors.New("validation failed")
	ErrServiceUnavailable       = errors.New("service unavailable")
)

// Error is a classified error with a message safe to show to API clients.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports invalid payload fields keyed by their JSON name.
type ValidationError struct {
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
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// fieldErrors accumulates field problems; err returns nil when there are none.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

func (f fieldErrors) prefixed(prefix string, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		for k, v := range ve.Fields {
			f.add(prefix+"."+k, v)
		}
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// storeError classifies an executor failure.
func storeError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, document.ErrUnavailable):
		return &Error{Kind: ErrServiceUnavailable, Message: "document store unavailable during " + op, Cause: err}
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// classify maps repository failures onto the error kinds above.
func classify(op, entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, document.ErrNotFound):
		return newError(ErrNotFound, "%s not found", entity)
	case errors.Is(err, document.ErrDuplicateKey):
		return &Error{Kind: ErrDuplicateEntity, Message: entity + " already exists", Cause: err}
	default:
		return storeError(op, err)
	}
}
