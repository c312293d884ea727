package report

import (
	"bytes"
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

// ReportService defines the interface for report generation
type ReportService interface {
	// ExportAttendance renders the actor's visible records in [from, to] and
	// the balances of the from year as an XLSX workbook.
	ExportAttendance(ctx context.Context, actor user.Actor, req ExportRequest) (*bytes.Buffer, string, error)
}
