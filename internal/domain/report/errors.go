package report

import "errors"

var (
	ErrInvalidDateRange       = errors.New("to date must not be before from date")
	ErrRangeTooLong           = errors.New("export range must not exceed one year")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
