package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harishkotra/onchain-chronicler/internal/logger"
)

// Error Handling Guidelines:
//
// For HTTP REST handlers:
//   - Use errors.InternalError(), errors.ValidationError(), etc. for critical errors
//     These functions handle both logging and HTTP response automatically
//   - Use logger.ErrorErr() only for non-critical errors where processing continues
//   - Never call both logger.ErrorErr() and errors.InternalError() for the same error
//
// For services/internal packages:
//   - Return wrapped errors with context using fmt.Errorf("context: %w", err)
//   - Let the caller (handler) decide how to log and respond
//   - Do not log errors in non-handler code (avoid double logging)

// represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`             // error code (e.g., "validation_error", "server_error")
	Message string `json:"message"`           // user-friendly message
	Details string `json:"details,omitempty"` // optional details (sanitized in production)
}

// standard error codes
const (
	CodeValidationError = "validation_error"
	CodeServerError     = "server_error"
)

// machine-readable kinds for the analysis pipeline, stable across releases
// because the web client switches on them
const (
	KindPendingRequestNotFound = "PENDING_REQUEST_NOT_FOUND"
	KindTransactionNotFound    = "TRANSACTION_NOT_FOUND"
	KindUpstreamAIError        = "UPSTREAM_AI_ERROR"
	KindLedgerWriteError       = "LEDGER_WRITE_ERROR"
	KindLedgerReadError        = "LEDGER_READ_ERROR"
)

// returns a 400 bad request error for validation failures
func ValidationError(c *gin.Context, message string) {
	if message == "" {
		message = "validation failed"
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeValidationError,
		Message: message,
	})
}

// returns a 500 with the stable ledger-read kind, so the web client can
// tell a failed chain read apart from any other server failure
func LedgerReadError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "failed to read from the ledger"
	}

	logger.ErrorErr(err, message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   KindLedgerReadError,
		Message: message,
		Details: sanitizeError(err),
	})
}

// returns a 500 internal server error
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	// log full error server-side with context
	logger.ErrorErr(err, message,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)

	// return sanitized error to client
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   CodeServerError,
		Message: message,
		Details: sanitizeError(err),
	})
}
