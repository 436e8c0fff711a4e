package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrInternal           = errors.New("internal error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAccountBanned      = errors.New("account banned")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrNoLinkedAccounts   = errors.New("no linked bank accounts")
	ErrFileRejected       = errors.New("file rejected")
)

// Message keys. They are stable identifiers clients translate; see pkg/i18n.
const (
	KeyBadRequest             = "BAD_REQUEST"
	KeyUnauthorized           = "UNAUTHORIZED"
	KeyForbidden              = "FORBIDDEN"
	KeyNotFound               = "NOT_FOUND"
	KeyTooManyRequests        = "TOO_MANY_REQUESTS"
	KeyInternalServerError    = "INTERNAL_SERVER_ERROR"
	KeyValidationFailed       = "VALIDATION_FAILED"
	KeyEmailExist             = "EMAIL_EXIST"
	KeyPhoneExist             = "PHONE_EXIST"
	KeyEmailOrPasswordInvalid = "EMAIL_OR_PASSWORD_INVALID"
	KeyEmailNotVerified       = "EMAIL_NOT_VERIFIED"
	KeyEmailAlreadyVerified   = "EMAIL_ALREADY_VERIFIED"
	KeyAccountIsBanned        = "ACCOUNT_IS_BANNED"
	KeyAccountIsSuspended     = "ACCOUNT_IS_SUSPENDED"
	KeyUserNotFound           = "USER_NOT_FOUND"
	KeyEmailNotExist          = "EMAIL_NOT_EXIST"
	KeyInvalidOTP             = "INVALID_OTP"
	KeyTokenExpired           = "TOKEN_EXPIRED"
	KeyTokenInvalid           = "TOKEN_INVALID"
	KeyLogoutFailed           = "LOGOUT_FAILED"
	KeyOldPasswordInvalid     = "OLD_PASSWORD_INVALID"
	KeyStatusInvalid          = "STATUS_INVALID"
	KeyNoLinkedAccounts       = "NO_LINKED_ACCOUNTS"
	KeyBankNotFound           = "BANK_NOT_FOUND"
	KeyInvalidBankCredentials = "INVALID_BANK_CREDENTIALS"
	KeyInvalidTransaction     = "INVALID_TRANSACTION"
	KeyCannotModifySelf       = "CANNOT_MODIFY_SELF"
	KeyCannotModifyAdmin      = "CANNOT_MODIFY_ADMIN"
	KeyRequestInProgress      = "REQUEST_IN_PROGRESS"
	KeyFileIsRequired         = "FILE_IS_REQUIRED"
	KeyFileSizeInvalid        = "FILE_SIZE_INVALID"
	KeyFileTypeInvalid        = "FILE_TYPE_INVALID"
	KeyFileMaximumQuantity    = "FILE_MAXIMUM_QUANTITY"
	KeyUploadFailed           = "UPLOAD_FAILED"
)

// AppError is an error classified for the client: a numeric response code and a message key.
type AppError struct {
	Code    int         `json:"code"`
	Key     string      `json:"key"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying sentinel so errors.Is works across layers.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy carrying extra client-facing details.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// NewAppError creates a new app error
func NewAppError(code int, key, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Key:     key,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(key, message string) *AppError {
	return NewAppError(http.StatusNotFound, key, message, ErrNotFound)
}

func BadRequest(key, message string) *AppError {
	return NewAppError(http.StatusBadRequest, key, message, ErrInvalidInput)
}

func Unauthorized(key, message string) *AppError {
	return NewAppError(http.StatusUnauthorized, key, message, ErrUnauthorized)
}

func Forbidden(key, message string) *AppError {
	return NewAppError(http.StatusForbidden, key, message, ErrForbidden)
}

func TooManyRequests(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, KeyTooManyRequests, message, ErrTooManyRequests)
}

func InternalError(err error) *AppError {
	if err == nil {
		err = ErrInternal
	}
	return NewAppError(http.StatusInternalServerError, KeyInternalServerError, "internal server error", err)
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
