package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInsufficientData     ErrorCode = 102
	ErrCodeInvalidType          ErrorCode = 103
	ErrCodeInvalidPeriod        ErrorCode = 104
	ErrCodeMissingParameter     ErrorCode = 105
	ErrCodeInvalidThreshold     ErrorCode = 106
	ErrCodeInvalidInterval      ErrorCode = 107
	ErrCodeInvalidTimeRange     ErrorCode = 108
	ErrCodeInvalidVersion       ErrorCode = 109
	ErrCodeUnsortedSeries       ErrorCode = 110

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeFetchFailed           ErrorCode = 203
	ErrCodeParseFailed           ErrorCode = 204

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 300

	// Scanner errors (400-499)
	ErrCodeScanFailed       ErrorCode = 400
	ErrCodeUnknownCondition ErrorCode = 401

	// Hit-rate errors (500-599)
	ErrCodeHitRateForwardData ErrorCode = 500
	ErrCodeInvalidDirection   ErrorCode = 501
	ErrCodeInvalidHorizon     ErrorCode = 502

	// Store errors (600-699)
	ErrCodeStoreInitFailed     ErrorCode = 600
	ErrCodeStoreWriteFailed    ErrorCode = 601
	ErrCodeStoreReadFailed     ErrorCode = 602
	ErrCodeAlertDeliveryFailed ErrorCode = 603

	// Stream errors (700-799)
	ErrCodeStreamConnectFailed ErrorCode = 700
	ErrCodeStreamClosed        ErrorCode = 701
)
