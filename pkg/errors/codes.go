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
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeConfiguration      ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_015"
	ErrCodeMessaging          ErrorCode = "COMMON_016"
	ErrCodeStorageError       ErrorCode = "COMMON_017"
)

// Dictionary Module Error Codes
const (
	ErrCodeDictionaryInvalid    ErrorCode = "DICT_001"
	ErrCodeDictionaryNotFound   ErrorCode = "DICT_002"
	ErrCodeDictionaryParse      ErrorCode = "DICT_003"
	ErrCodeCategoryUnknown      ErrorCode = "DICT_004"
	ErrCodeDictionaryEmptyPhrase ErrorCode = "DICT_005"
)

// Document Module Error Codes
const (
	ErrCodeDocumentNotFound  ErrorCode = "DOC_001"
	ErrCodeDocumentEmpty     ErrorCode = "DOC_002"
	ErrCodeDocumentReadFailed ErrorCode = "DOC_003"
	ErrCodeCorpusNotFound    ErrorCode = "DOC_004"
	ErrCodeCorpusEmpty       ErrorCode = "DOC_005"
)

// Risk Module Error Codes
const (
	ErrCodeRiskTierTableEmpty  ErrorCode = "RISK_001"
	ErrCodeRiskCalibration     ErrorCode = "RISK_002"
	ErrCodeRiskAssessmentFailed ErrorCode = "RISK_003"
)

// Prediction Module Error Codes
const (
	ErrCodePredictionCalibration ErrorCode = "PRED_001"
	ErrCodePredictionFailed      ErrorCode = "PRED_002"
)

// Analysis Module Error Codes
const (
	ErrCodeAnalysisFailed      ErrorCode = "ANAL_001"
	ErrCodeAnalysisNotFound    ErrorCode = "ANAL_002"
	ErrCodeAnalysisAllSkipped  ErrorCode = "ANAL_003"
	ErrCodeAnalysisInProgress  ErrorCode = "ANAL_004"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeConfiguration:      http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,
	ErrCodeMessaging:          http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,

	ErrCodeDictionaryInvalid:     http.StatusUnprocessableEntity,
	ErrCodeDictionaryNotFound:    http.StatusNotFound,
	ErrCodeDictionaryParse:       http.StatusUnprocessableEntity,
	ErrCodeCategoryUnknown:       http.StatusBadRequest,
	ErrCodeDictionaryEmptyPhrase: http.StatusUnprocessableEntity,

	ErrCodeDocumentNotFound:   http.StatusNotFound,
	ErrCodeDocumentEmpty:      http.StatusBadRequest,
	ErrCodeDocumentReadFailed: http.StatusInternalServerError,
	ErrCodeCorpusNotFound:     http.StatusNotFound,
	ErrCodeCorpusEmpty:        http.StatusBadRequest,

	ErrCodeRiskTierTableEmpty:   http.StatusInternalServerError,
	ErrCodeRiskCalibration:      http.StatusInternalServerError,
	ErrCodeRiskAssessmentFailed: http.StatusInternalServerError,

	ErrCodePredictionCalibration: http.StatusInternalServerError,
	ErrCodePredictionFailed:      http.StatusInternalServerError,

	ErrCodeAnalysisFailed:     http.StatusInternalServerError,
	ErrCodeAnalysisNotFound:   http.StatusNotFound,
	ErrCodeAnalysisAllSkipped: http.StatusUnprocessableEntity,
	ErrCodeAnalysisInProgress: http.StatusConflict,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeConfiguration:      "invalid configuration",
	ErrCodeNotImplemented:     "not implemented",
	ErrCodeMessaging:          "messaging error",
	ErrCodeStorageError:       "object storage error",

	ErrCodeDictionaryInvalid:     "invalid phrase dictionary",
	ErrCodeDictionaryNotFound:    "phrase dictionary not found",
	ErrCodeDictionaryParse:       "failed to parse phrase dictionary",
	ErrCodeCategoryUnknown:       "unknown phrase category",
	ErrCodeDictionaryEmptyPhrase: "dictionary contains an empty phrase",

	ErrCodeDocumentNotFound:   "document not found",
	ErrCodeDocumentEmpty:      "document content is empty",
	ErrCodeDocumentReadFailed: "failed to read document",
	ErrCodeCorpusNotFound:     "corpus not found",
	ErrCodeCorpusEmpty:        "corpus contains no documents",

	ErrCodeRiskTierTableEmpty:   "risk tier table is empty",
	ErrCodeRiskCalibration:      "invalid risk calibration",
	ErrCodeRiskAssessmentFailed: "risk assessment failed",

	ErrCodePredictionCalibration: "invalid prediction calibration",
	ErrCodePredictionFailed:      "outcome prediction failed",

	ErrCodeAnalysisFailed:     "corpus analysis failed",
	ErrCodeAnalysisNotFound:   "analysis not found",
	ErrCodeAnalysisAllSkipped: "every document in the corpus was skipped",
	ErrCodeAnalysisInProgress: "analysis already in progress",
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
