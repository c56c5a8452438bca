package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
)

// Aliases used by call sites that predate the module-prefixed names.
const (
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
)

// Configuration Error Codes
const (
	ErrCodeConfigInvalid  ErrorCode = "CFG_001"
	ErrCodeConfigLoad     ErrorCode = "CFG_002"
	ErrCodeConfigNotFound ErrorCode = "CFG_003"
)

// Analysis Module Error Codes
const (
	ErrCodePatternCompile      ErrorCode = "ANA_001"
	ErrCodeLanguageUnsupported ErrorCode = "ANA_002"
	ErrCodeSessionIDEmpty      ErrorCode = "ANA_003"
	ErrCodeSessionNotFound     ErrorCode = "ANA_004"
	ErrCodeScanSuperseded      ErrorCode = "ANA_005"
	ErrCodeSpanInvalid         ErrorCode = "ANA_006"
	ErrCodeStemEmpty           ErrorCode = "ANA_007"
	ErrCodeInputTooLarge       ErrorCode = "ANA_008"
)

// Override Store Error Codes
const (
	ErrCodeStoreUnavailable ErrorCode = "STO_001"
	ErrCodeStoreCorrupt     ErrorCode = "STO_002"
	ErrCodeCacheMiss        ErrorCode = "STO_003"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeFeatureDisabled:    http.StatusForbidden,

	ErrCodeConfigInvalid:  http.StatusInternalServerError,
	ErrCodeConfigLoad:     http.StatusInternalServerError,
	ErrCodeConfigNotFound: http.StatusInternalServerError,

	ErrCodePatternCompile:      http.StatusInternalServerError,
	ErrCodeLanguageUnsupported: http.StatusBadRequest,
	ErrCodeSessionIDEmpty:      http.StatusBadRequest,
	ErrCodeSessionNotFound:     http.StatusNotFound,
	ErrCodeScanSuperseded:      http.StatusConflict,
	ErrCodeSpanInvalid:         http.StatusBadRequest,
	ErrCodeStemEmpty:           http.StatusBadRequest,
	ErrCodeInputTooLarge:       http.StatusRequestEntityTooLarge,

	ErrCodeStoreUnavailable: http.StatusServiceUnavailable,
	ErrCodeStoreCorrupt:     http.StatusInternalServerError,
	ErrCodeCacheMiss:        http.StatusNotFound,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeFeatureDisabled:    "feature disabled",

	ErrCodeConfigInvalid:  "invalid configuration",
	ErrCodeConfigLoad:     "failed to load configuration",
	ErrCodeConfigNotFound: "configuration file not found",

	ErrCodePatternCompile:      "failed to compile reference pattern",
	ErrCodeLanguageUnsupported: "unsupported analysis language",
	ErrCodeSessionIDEmpty:      "session id must not be empty",
	ErrCodeSessionNotFound:     "analysis session not found",
	ErrCodeScanSuperseded:      "scan superseded by a newer edit",
	ErrCodeSpanInvalid:         "invalid text span",
	ErrCodeStemEmpty:           "stem must not be empty",
	ErrCodeInputTooLarge:       "input text too large",

	ErrCodeStoreUnavailable: "override store unavailable",
	ErrCodeStoreCorrupt:     "override store entry corrupt",
	ErrCodeCacheMiss:        "cache miss",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
