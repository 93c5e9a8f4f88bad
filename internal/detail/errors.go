package detail

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// ErrorType represents the category of a fetch failure
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the request timed out
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the detail server refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeHTTP indicates a non-200 response other than 404
	ErrTypeHTTP
	// ErrTypeNotFound indicates the server does not know the airport
	ErrTypeNotFound
	// ErrTypeParse indicates a malformed response body
	ErrTypeParse
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// FetchError is a failed detail fetch
type FetchError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Code       string    // Airport code the fetch was for
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether another attempt may succeed
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *FetchError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError turns a transport error into a FetchError
func ClassifyNetworkError(err error, code string) *FetchError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &FetchError{
			Type:      ErrTypeTimeout,
			Message:   "request timed out",
			Code:      code,
			Err:       err,
			Retryable: true,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &FetchError{
			Type:    ErrTypeDNS,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Code:    code,
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &FetchError{
			Type:      ErrTypeConnectionRefused,
			Message:   "detail server refused connection",
			Code:      code,
			Err:       err,
			Retryable: true,
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err, code)
	}

	return &FetchError{
		Type:      ErrTypeNetwork,
		Message:   "network error occurred",
		Code:      code,
		Err:       err,
		Retryable: true,
	}
}

// NewHTTPError creates an error for an unexpected status code.
// 404 becomes ErrTypeNotFound; 5xx are retryable.
func NewHTTPError(statusCode int, code string) *FetchError {
	if statusCode == 404 {
		return &FetchError{
			Type:       ErrTypeNotFound,
			Message:    fmt.Sprintf("no detail for airport %s", code),
			StatusCode: statusCode,
			Code:       code,
		}
	}
	return &FetchError{
		Type:       ErrTypeHTTP,
		Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		StatusCode: statusCode,
		Code:       code,
		Retryable:  statusCode >= 500,
	}
}

// NewParseError creates a parsing error
func NewParseError(message, code string, err error) *FetchError {
	return &FetchError{
		Type:    ErrTypeParse,
		Message: message,
		Code:    code,
		Err:     err,
	}
}

// IsNetworkError reports whether err is a transport-level FetchError
func IsNetworkError(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Type == ErrTypeNetwork ||
			fe.Type == ErrTypeTimeout ||
			fe.Type == ErrTypeConnectionRefused ||
			fe.Type == ErrTypeDNS
	}
	return false
}

// IsNotFound reports whether the server had no such airport
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Type == ErrTypeNotFound
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Type == ErrTypeHTTP
}

// IsRetryable checks if an error should be retried.
// Errors that are not FetchErrors are never retried.
func IsRetryable(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Retryable
	}
	return false
}

// ShortMessage returns a concise message for the detail card
func ShortMessage(err error) string {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return err.Error()
	}

	switch fe.Type {
	case ErrTypeTimeout:
		return "Detail server not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Detail server refused connection - is airmap serve running?"
	case ErrTypeDNS:
		return "Cannot resolve detail server hostname"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeNotFound:
		return fmt.Sprintf("No detail available for %s", fe.Code)
	case ErrTypeHTTP:
		return fmt.Sprintf("Detail server error (HTTP %d)", fe.StatusCode)
	case ErrTypeParse:
		return "Failed to parse detail response"
	default:
		return fe.Message
	}
}
