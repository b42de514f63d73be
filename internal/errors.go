package internal

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeParse      ErrorType = "PARSE_ERROR"
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeExternal   ErrorType = "EXTERNAL_ERROR"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeParseFailure       ErrorCode = "PARSE_FAILURE"
	ErrCodeInvalidAmount      ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidCurrency    ErrorCode = "INVALID_CURRENCY"
	ErrCodeInvalidProjectID   ErrorCode = "INVALID_PROJECT_ID"
	ErrCodeInvalidProjectName ErrorCode = "INVALID_PROJECT_NAME"

	ErrCodeNoActiveProject  ErrorCode = "NO_ACTIVE_PROJECT"
	ErrCodeProjectNotFound  ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	ErrCodeCategoryConflict ErrorCode = "CATEGORY_CONFLICT"

	ErrCodeRateProvider       ErrorCode = "RATE_PROVIDER_FAILURE"
	ErrCodeSemanticParser     ErrorCode = "SEMANTIC_PARSER_FAILURE"
	ErrCodeParserUnavailable  ErrorCode = "SEMANTIC_PARSER_UNAVAILABLE"
	ErrCodePersistenceFailure ErrorCode = "PERSISTENCE_FAILURE"
)

// AppError is the single error shape that crosses package boundaries.
// Everything user-recoverable maps onto a Type/Code pair the transport
// layer can translate into a chat reply.
type AppError struct {
	Type    ErrorType
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	return &AppError{Type: e.Type, Code: e.Code, Message: e.Message, Cause: cause}
}

// Is lets sentinel AppErrors match through errors.Is even after WithCause
// wrapped a fresh copy around a driver error.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !errors.As(target, &appErr) {
		return false
	}
	return e.Type == appErr.Type && e.Code == appErr.Code
}

func NewParseError(message string, code ErrorCode) *AppError {
	return &AppError{Type: ErrorTypeParse, Code: code, Message: message}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{Type: ErrorTypeValidation, Code: code, Message: message}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Code: code, Message: message}
}

func NewExternalError(message string, code ErrorCode) *AppError {
	return &AppError{Type: ErrorTypeExternal, Code: code, Message: message}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Code: ErrCodePersistenceFailure, Message: message, Cause: cause}
}

var (
	// ErrParseFailure: neither the deterministic nor the fallback parser
	// produced an amount. Recovered locally, user is asked to rephrase.
	ErrParseFailure = NewParseError("could not extract an amount from the message", ErrCodeParseFailure)

	// ErrNoActiveProject: expense or report requested without an active
	// project. Recovered locally, user is prompted to create one.
	ErrNoActiveProject = NewNotFoundError("no active project for this user", ErrCodeNoActiveProject)

	// ErrProjectNotFound covers missing, foreign and soft-deleted projects
	// alike so the reply never leaks whether a foreign id exists.
	ErrProjectNotFound = NewNotFoundError("project not found", ErrCodeProjectNotFound)

	ErrUserNotFound = NewNotFoundError("user not found", ErrCodeUserNotFound)

	// ErrSemanticParserUnavailable: missing credentials or config. Treated
	// identically to "fallback returned nothing".
	ErrSemanticParserUnavailable = NewExternalError("semantic parser is not configured", ErrCodeParserUnavailable)

	ErrRateProviderFailure = NewExternalError("exchange-rate provider request failed", ErrCodeRateProvider)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
