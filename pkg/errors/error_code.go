package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter ErrorCode = 100
	ErrCodeInvalidSide      ErrorCode = 101
	ErrCodeUnknownProduct   ErrorCode = 102
	ErrCodeInvalidState     ErrorCode = 103

	// Data errors (200-299)
	ErrCodeSourceUnavailable ErrorCode = 200
	ErrCodeMalformedRecord   ErrorCode = 201
	ErrCodeInvalidPrice      ErrorCode = 202
	ErrCodeEmptyLedger       ErrorCode = 203

	// Query errors (300-399)
	ErrCodeEmptyInput  ErrorCode = 300
	ErrCodeQueryFailed ErrorCode = 301

	// Configuration errors (400-499)
	ErrCodeInvalidConfiguration ErrorCode = 400
	ErrCodeVersionMismatch      ErrorCode = 401

	// Command errors (500-599)
	ErrCodeUnknownCommand ErrorCode = 500
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:              "unknown",
	ErrCodeInvalidParameter:     "invalid_parameter",
	ErrCodeInvalidSide:          "invalid_side",
	ErrCodeUnknownProduct:       "unknown_product",
	ErrCodeInvalidState:         "invalid_state",
	ErrCodeSourceUnavailable:    "source_unavailable",
	ErrCodeMalformedRecord:      "malformed_record",
	ErrCodeInvalidPrice:         "invalid_price",
	ErrCodeEmptyLedger:          "empty_ledger",
	ErrCodeEmptyInput:           "empty_input",
	ErrCodeQueryFailed:          "query_failed",
	ErrCodeInvalidConfiguration: "invalid_configuration",
	ErrCodeVersionMismatch:      "version_mismatch",
	ErrCodeUnknownCommand:       "unknown_command",
}

// String returns the snake_case name of the code, used in JSON error bodies.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}

	return codeNames[ErrCodeUnknown]
}
