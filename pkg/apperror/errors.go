package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Purchase Governance (GOV) ----

func ErrSystemPaused() *AppError {
	return New("GOV_001", "Agent is paused by owner", http.StatusLocked)
}

func ErrMerchantNotAllowed() *AppError {
	return New("GOV_002", "Merchant is not on the allow-list", http.StatusForbidden)
}

func ErrMerchantLimitExceeded() *AppError {
	return New("GOV_003", "Amount exceeds merchant per-transaction limit", http.StatusUnprocessableEntity)
}

func ErrCooldownActive() *AppError {
	return New("GOV_004", "Cooldown interval has not elapsed", http.StatusTooManyRequests)
}

func ErrInsufficientBudget() *AppError {
	return New("GOV_005", "Remaining budget is insufficient", http.StatusPaymentRequired)
}

func ErrInvalidAmount() *AppError {
	return New("GOV_006", "Invalid amount", http.StatusBadRequest)
}

// ---- Administration (ADM) ----

func ErrUnauthorized() *AppError {
	return New("ADM_001", "Caller lacks owner privilege", http.StatusForbidden)
}

func ErrDuplicateMerchant() *AppError {
	return New("ADM_002", "Wallet address already registered", http.StatusConflict)
}

func ErrMerchantNotFound() *AppError {
	return New("ADM_003", "Merchant not found", http.StatusNotFound)
}

func ErrNotFound(entity string) *AppError {
	return New("ADM_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Security & Authentication (SEC) ----

func ErrInvalidAccessKey() *AppError {
	return New("SEC_001", "Invalid access key", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_003", "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("SEC_004", "Nonce has already been used", http.StatusForbidden)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrPersistenceFailure(err error) *AppError {
	return Wrap("SYS_001", "Persistent store failure, retry later", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_002", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a GOV_006-style validation error.
func Validation(message string) *AppError {
	return New("GOV_006", message, http.StatusBadRequest)
}
