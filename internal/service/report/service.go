package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

const (
	recordsSheet  = "Records"
	balancesSheet = "Balances"
)

var (
	recordHeaders  = []string{"Date", "Weekday", "Employee", "Department", "Type", "Start", "End", "Days", "Reason"}
	balanceHeaders = []string{"Employee", "Department", "Year", "Leave Type", "Total", "Used", "Remaining"}
)

type ReportServiceImpl struct {
	attendance.AttendanceRepository
	leave.BalanceRepository
	now func() time.Time
}

func NewReportService(attendanceRepository attendance.AttendanceRepository, balanceRepository leave.BalanceRepository) report.ReportService {
	return &ReportServiceImpl{
		AttendanceRepository: attendanceRepository,
		BalanceRepository:    balanceRepository,
		now:                  time.Now,
	}
}

// ExportAttendance implements report.ReportService.
func (s *ReportServiceImpl) ExportAttendance(ctx context.Context, actor user.Actor, req report.ExportRequest) (*bytes.Buffer, string, error) {
	if !actor.IsManager() {
		return nil, "", user.ErrManagerAccessRequired
	}
	if err := req.Validate(s.now()); err != nil {
		return nil, "", err
	}
	from, to := req.Range()

	var (
		records  []attendance.Record
		balances []leave.Balance
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Records in range
	g.Go(func() error {
		var err error
		records, err = s.AttendanceRepository.List(gCtx, attendance.AttendanceFilter{
			Department: req.Department,
			From:       &from,
			To:         &to,
		}, actor)
		if err != nil {
			return fmt.Errorf("failed to load records: %w", err)
		}
		return nil
	})

	// 2. Balances of the starting year
	g.Go(func() error {
		var err error
		balances, err = s.BalanceRepository.ListByYear(gCtx, from.Year(), actor)
		if err != nil {
			return fmt.Errorf("failed to load balances: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	if req.Department != "" {
		filtered := balances[:0]
		for _, b := range balances {
			if b.Department != nil && *b.Department == req.Department {
				filtered = append(filtered, b)
			}
		}
		balances = filtered
	}

	buf, err := buildWorkbook(records, balances)
	if err != nil {
		slog.Error("failed to write attendance workbook", "error", err)
		return nil, "", fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	slog.Info("attendance exported", "user_id", actor.UserID, "from", req.From, "to", req.To, "records", len(records), "balances", len(balances))
	return buf, req.Filename(), nil
}

func buildWorkbook(records []attendance.Record, balances []leave.Balance) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	idx, err := f.NewSheet(recordsSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if _, err := f.NewSheet(balancesSheet); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	// Records
	if err := writeHeader(f, recordsSheet, recordHeaders, headerStyle); err != nil {
		return nil, err
	}
	f.SetColWidth(recordsSheet, "A", "A", 12)
	f.SetColWidth(recordsSheet, "C", "D", 16)
	f.SetColWidth(recordsSheet, "I", "I", 40)
	for i, r := range records {
		d, _ := attendance.Describe(r.Type)
		row := []interface{}{
			r.Date.Format("2006-01-02"),
			r.Date.Weekday().String()[:3],
			deref(r.UserName),
			deref(r.Department),
			string(r.Type),
			deref(r.StartTime),
			deref(r.EndTime),
			d.DayWeight.InexactFloat64(),
			r.Reason,
		}
		if err := writeRow(f, recordsSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	// Balances
	if err := writeHeader(f, balancesSheet, balanceHeaders, headerStyle); err != nil {
		return nil, err
	}
	f.SetColWidth(balancesSheet, "A", "B", 16)
	for i, b := range balances {
		row := []interface{}{
			deref(b.UserName),
			deref(b.Department),
			b.Year,
			string(b.LeaveType),
			b.Total.InexactFloat64(),
			b.Used.InexactFloat64(),
			b.Remaining.InexactFloat64(),
		}
		if err := writeRow(f, balancesSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
