package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// --- Sentinel Errors for Categorization ---
var (
	ErrRetryFailed     = errors.New("request failed after all retries") // Wraps the last underlying error
	ErrClientHTTPError = errors.New("client HTTP error (4xx)")          // Wraps original error/status
	ErrServerHTTPError = errors.New("server HTTP error (5xx)")          // Wraps original error/status
	ErrOtherHTTPError  = errors.New("other HTTP error (non-2xx)")       // Wraps original error/status
	ErrRobotsDisallowed      = errors.New("disallowed by robots.txt")
	ErrParsing               = errors.New("parsing error") // Wraps specific parsing error (HTML, URL, JSON)
	ErrMalformedStructured   = errors.New("malformed structured data block")
	ErrProfileSimulation     = errors.New("crawler profile simulation failed")
	ErrUnknownProfile        = errors.New("unknown crawler profile")
	ErrScoringWeights        = errors.New("scoring weights do not sum to expected total")
	ErrDatabase              = errors.New("database error") // Wraps badger errors
	ErrSemaphoreTimeout      = errors.New("timeout acquiring semaphore")
	ErrRequestCreation       = errors.New("failed to create HTTP request")
	ErrResponseBodyRead      = errors.New("failed to read response body")
	ErrMarkdownConversion    = errors.New("failed to convert HTML to markdown")
	ErrConfigValidation      = errors.New("configuration validation error")
	ErrNonHTMLContent        = errors.New("response is not an HTML document")
)

// WrapErrorf wraps err with formatted context, preserving it for errors.Is
// checks. Returns nil when err is nil.
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// CategorizeError maps an error to a predefined category string for logging/metrics.
func CategorizeError(err error) string {
	if err == nil {
		return "None"
	}

	// Check against sentinel errors first
	switch {
	case errors.Is(err, ErrRetryFailed):
		underlying := errors.Unwrap(err)
		if underlying != nil {
			if errors.Is(underlying, ErrServerHTTPError) {
				return "RetryFailed_HTTPServer"
			}
			if errors.Is(underlying, ErrClientHTTPError) {
				return "RetryFailed_HTTPClient"
			}

			// Check for common network error substrings if wrapped error isn't a known sentinel
			errMsg := underlying.Error()
			if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "Timeout") || strings.Contains(errMsg, "deadline exceeded") {
				return "RetryFailed_NetworkTimeout"
			}
			if strings.Contains(errMsg, "connection refused") {
				return "RetryFailed_ConnectionRefused"
			}
			if strings.Contains(errMsg, "no such host") {
				return "RetryFailed_DNSLookup"
			}
			var netErr net.Error
			if errors.As(underlying, &netErr) {
				if netErr.Timeout() {
					return "RetryFailed_NetworkTimeout"
				}
			}
			return "RetryFailed_NetworkOther" // Catch-all for other network errors after retry
		}
		return "RetryFailed_Unknown" // Retry failed, but couldn't identify underlying cause
	case errors.Is(err, ErrClientHTTPError):
		// Could try to extract exact 4xx code if needed, but category is often enough
		errMsg := err.Error()
		if strings.Contains(errMsg, " 404 ") {
			return "HTTP_404"
		}
		if strings.Contains(errMsg, " 403 ") {
			return "HTTP_403"
		}
		if strings.Contains(errMsg, " 401 ") {
			return "HTTP_401"
		}
		if strings.Contains(errMsg, " 429 ") {
			return "HTTP_429"
		}
		return "HTTP_4xx" // Generic 4xx
	case errors.Is(err, ErrServerHTTPError):
		// Should only see this wrapped by ErrRetryFailed usually, but handle directly too
		return "HTTP_5xx"
	case errors.Is(err, ErrOtherHTTPError):
		return "HTTP_OtherStatus"
	case errors.Is(err, ErrRobotsDisallowed):
		return "Policy_Robots"
	case errors.Is(err, ErrNonHTMLContent):
		return "Content_NonHTML"
	case errors.Is(err, ErrMalformedStructured):
		return "Content_StructuredData"
	case errors.Is(err, ErrParsing):
		// Could check wrapped error for URL vs HTML vs JSON parsing if needed
		errMsg := err.Error()
		if strings.Contains(errMsg, "URL") {
			return "Content_ParsingURL"
		}
		if strings.Contains(errMsg, "HTML") {
			return "Content_ParsingHTML"
		}
		if strings.Contains(errMsg, "JSON") {
			return "Content_ParsingJSON"
		}
		return "Content_ParsingOther"
	case errors.Is(err, ErrMarkdownConversion):
		return "Content_Markdown"
	case errors.Is(err, ErrProfileSimulation):
		return "Simulation_ProfileFailed"
	case errors.Is(err, ErrUnknownProfile):
		return "Simulation_UnknownProfile"
	case errors.Is(err, ErrScoringWeights):
		return "Scoring_Weights"
	case errors.Is(err, ErrDatabase):
		// Could check for specific Badger errors if necessary
		return "Database_Other"
	case errors.Is(err, ErrSemaphoreTimeout):
		return "Resource_SemaphoreTimeout"
	case errors.Is(err, ErrRequestCreation):
		return "Internal_RequestCreation"
	case errors.Is(err, ErrResponseBodyRead):
		return "Network_BodyRead"
	case errors.Is(err, ErrConfigValidation):
		return "Config_Validation"
	}

	// --- Fallback checks for common underlying error types/strings ---

	// Context errors
	if errors.Is(err, context.Canceled) {
		return "System_ContextCanceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		// Check if it was semaphore timeout wrapped in context error
		if strings.Contains(err.Error(), "semaphore") {
			return "Resource_SemaphoreTimeout"
		}
		return "System_ContextDeadlineExceeded"
	}

	// Network errors (if not wrapped by custom sentinels)
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "Network_Timeout"
		}
		// Other net.Error checks
	}
	errMsg := err.Error()
	// Use lowercase for reliable substring checks
	lowerErrMsg := strings.ToLower(errMsg)
	if strings.Contains(lowerErrMsg, "timeout") {
		return "Network_TimeoutGeneric"
	}
	if strings.Contains(lowerErrMsg, "connection refused") {
		return "Network_ConnectionRefused"
	}
	if strings.Contains(lowerErrMsg, "no such host") {
		return "Network_DNSLookup"
	}
	if strings.Contains(lowerErrMsg, "tls") || strings.Contains(lowerErrMsg, "certificate") {
		return "Network_TLS"
	}
	if strings.Contains(lowerErrMsg, "reset by peer") {
		return "Network_ConnectionReset"
	}
	if strings.Contains(lowerErrMsg, "broken pipe") {
		return "Network_BrokenPipe"
	}

	return "Unknown"
}
