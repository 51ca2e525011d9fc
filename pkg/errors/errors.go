package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrDataStoreUnavailable = errors.New("data store unavailable")
	ErrRouteNotFound        = errors.New("route not found")
	ErrDigestNotFound       = errors.New("digest not found")
	ErrCacheUnavailable     = errors.New("cache unavailable")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeDataStoreUnavailable = "DATA_STORE_UNAVAILABLE"
	ErrCodeRouteNotFound        = "ROUTE_NOT_FOUND"
	ErrCodeDigestNotFound       = "DIGEST_NOT_FOUND"
	ErrCodeCacheError           = "CACHE_ERROR"
)

// WrapDataStoreUnavailable marks a connection or query failure of the fact source.
// Both the sentinel and the driver error stay reachable through errors.Is.
func WrapDataStoreUnavailable(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDataStoreUnavailable,
		"data store operation failed",
		errors.Join(ErrDataStoreUnavailable, err),
	)
}

func WrapRouteNotFound(method, path string) *BusinessError {
	return NewBusinessError(
		ErrCodeRouteNotFound,
		fmt.Sprintf("No route for %s %s", method, path),
		ErrRouteNotFound,
	)
}

func WrapDigestNotFound(kind string) *BusinessError {
	return NewBusinessError(
		ErrCodeDigestNotFound,
		fmt.Sprintf("No digest available for report kind %s", kind),
		ErrDigestNotFound,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		errors.Join(ErrCacheUnavailable, err),
	)
}

// Cause returns the innermost error message of a data store failure, which is
// what debug output exposes to the caller.
func Cause(err error) string {
	var be *BusinessError
	if errors.As(err, &be) && be.Err != nil {
		var joined interface{ Unwrap() []error }
		if errors.As(be.Err, &joined) {
			errs := joined.Unwrap()
			return errs[len(errs)-1].Error()
		}
		return be.Err.Error()
	}
	return err.Error()
}
