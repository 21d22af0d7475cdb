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
	ErrCodeInvalidPeriod        ErrorCode = 103
	ErrCodeInvalidWeights       ErrorCode = 104
	ErrCodeInvalidCapital       ErrorCode = 105
	ErrCodeInvalidVersion       ErrorCode = 106

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeDataParseFailed       ErrorCode = 203

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound    ErrorCode = 300
	ErrCodeIndicatorCalculation ErrorCode = 301
	ErrCodeFeatureNotEnabled    ErrorCode = 302

	// Strategy errors (400-499)
	ErrCodeUnknownStrategy     ErrorCode = 400
	ErrCodeStrategyConfigError ErrorCode = 401

	// Backtest errors (500-599)
	ErrCodeBacktestNoInstruments ErrorCode = 500
	ErrCodeBacktestConfigError   ErrorCode = 501
	ErrCodeBacktestNoResultsDir  ErrorCode = 502
	ErrCodeEmptyEquityCurve      ErrorCode = 503

	// Market data errors (600-699)
	ErrCodeMarketDataFetchFailed ErrorCode = 600
	ErrCodeMarketDataWriteFailed ErrorCode = 601
	ErrCodeInvalidProvider       ErrorCode = 602

	// Report errors (700-799)
	ErrCodeReportWriteFailed ErrorCode = 700
)
