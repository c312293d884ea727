package dashboard

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
)

// UpcomingLimit caps how many future leave records the dashboard lists.
const UpcomingLimit = 5

type MyDashboardResponse struct {
	Year          int                             `json:"year"`
	Today         string                          `json:"today"`
	TodayRecord   *attendance.AttendanceResponse  `json:"todayRecord"`
	Balances      []leave.BalanceResponse         `json:"balances"`
	MonthRecords  []attendance.AttendanceResponse `json:"monthRecords"`
	UpcomingLeave []attendance.AttendanceResponse `json:"upcomingLeave"`
	// LeaveDaysThisMonth sums the day weight of this month's leave records.
	LeaveDaysThisMonth float64 `json:"leaveDaysThisMonth"`
}
