package attendance

import (
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	return verrs.ToMap()
}

func TestCreateAttendanceRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateAttendanceRequest
		wantErr string // field name, empty when valid
	}{
		{
			name: "single day annual leave",
			req:  CreateAttendanceRequest{UserID: "u1", StartDate: "2025-03-10", Type: string(TypeAnnualLeave)},
		},
		{
			name: "range",
			req:  CreateAttendanceRequest{UserID: "u1", StartDate: "2025-06-01", EndDate: "2025-06-05", Type: string(TypeAnnualLeave)},
		},
		{
			name:    "missing user",
			req:     CreateAttendanceRequest{StartDate: "2025-03-10", Type: string(TypeAnnualLeave)},
			wantErr: "userId",
		},
		{
			name:    "bad start date",
			req:     CreateAttendanceRequest{UserID: "u1", StartDate: "2025/03/10", Type: string(TypeAnnualLeave)},
			wantErr: "startDate",
		},
		{
			name:    "end before start",
			req:     CreateAttendanceRequest{UserID: "u1", StartDate: "2025-03-10", EndDate: "2025-03-09", Type: string(TypeAnnualLeave)},
			wantErr: "endDate",
		},
		{
			name:    "unknown type",
			req:     CreateAttendanceRequest{UserID: "u1", StartDate: "2025-03-10", Type: "휴가"},
			wantErr: "type",
		},
		{
			name:    "half day across dates",
			req:     CreateAttendanceRequest{UserID: "u1", StartDate: "2025-03-10", EndDate: "2025-03-11", Type: string(TypeMorningHalfDay)},
			wantErr: "endDate",
		},
		{
			name:    "quarter day needs explicit time",
			req:     CreateAttendanceRequest{UserID: "u1", StartDate: "2025-03-10", Type: string(TypeQuarterDay)},
			wantErr: "startTime",
		},
		{
			name: "quarter day with time",
			req: CreateAttendanceRequest{UserID: "u1", StartDate: "2025-03-10", Type: string(TypeQuarterDay),
				StartTime: strPtr("09:00"), EndTime: strPtr("11:00")},
		},
		{
			name: "inverted window",
			req: CreateAttendanceRequest{UserID: "u1", StartDate: "2025-03-10", Type: string(TypeFieldWork),
				StartTime: strPtr("15:00"), EndTime: strPtr("13:00")},
			wantErr: "endTime",
		},
		{
			name: "malformed time",
			req: CreateAttendanceRequest{UserID: "u1", StartDate: "2025-03-10", Type: string(TypeFieldWork),
				StartTime: strPtr("9am"), EndTime: strPtr("13:00")},
			wantErr: "startTime",
		},
		{
			name: "end only, before default start",
			req: CreateAttendanceRequest{UserID: "u1", StartDate: "2025-03-10", Type: string(TypeMorningHalfDay),
				EndTime: strPtr("08:00")},
			wantErr: "endTime",
		},
		{
			name: "start only, after default end",
			req: CreateAttendanceRequest{UserID: "u1", StartDate: "2025-03-10", Type: string(TypeMorningHalfDay),
				StartTime: strPtr("15:00")},
			wantErr: "startTime",
		},
		{
			name: "start only, inside default window",
			req: CreateAttendanceRequest{UserID: "u1", StartDate: "2025-03-10", Type: string(TypeMorningHalfDay),
				StartTime: strPtr("10:00")},
		},
		{
			name: "duty range of a full year",
			req:  CreateAttendanceRequest{UserID: "u1", StartDate: "2024-01-01", EndDate: "2024-12-31", Type: string(TypeBusinessTrip)},
		},
		{
			name:    "duty range longer than a year",
			req:     CreateAttendanceRequest{UserID: "u1", StartDate: "2025-01-01", EndDate: "2026-12-31", Type: string(TypeBusinessTrip)},
			wantErr: "endDate",
		},
		{
			name:    "unbounded range",
			req:     CreateAttendanceRequest{UserID: "u1", StartDate: "0001-01-01", EndDate: "9999-12-31", Type: string(TypeRemoteWork)},
			wantErr: "endDate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldErrors(t, err), tt.wantErr)
		})
	}
}

func TestCreateAttendanceRequest_Dates(t *testing.T) {
	req := CreateAttendanceRequest{StartDate: "2025-03-10"}
	start, end, err := req.Dates()
	require.NoError(t, err)
	assert.Equal(t, start, end)

	req.EndDate = "2025-03-12"
	_, end, err = req.Dates()
	require.NoError(t, err)
	assert.Equal(t, 12, end.Day())
}

func TestUpdateAttendanceRequest_Validate(t *testing.T) {
	req := UpdateAttendanceRequest{ID: "r1", Date: "2025-03-10", Type: string(TypeRemoteWork)}
	assert.NoError(t, req.Validate())

	req.Date = ""
	assert.Contains(t, fieldErrors(t, req.Validate()), "date")

	req = UpdateAttendanceRequest{ID: "r1", Date: "2025-03-10", Type: string(TypeAfternoonHalfDay), EndTime: strPtr("13:00")}
	assert.Equal(t, "endTime must be after 14:00", fieldErrors(t, req.Validate())["endTime"])
}

func TestNewAttendanceFilter(t *testing.T) {
	f, err := NewAttendanceFilter("u1", "", string(TypeOvertime), "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, "u1", f.UserID)
	require.NotNil(t, f.From)
	require.NotNil(t, f.To)

	_, err = NewAttendanceFilter("", "", "", "2025-03-31", "2025-03-01")
	assert.Contains(t, fieldErrors(t, err), "to")

	_, err = NewAttendanceFilter("", "", "nope", "", "")
	assert.Contains(t, fieldErrors(t, err), "type")
}

func TestNewAttendanceResponse(t *testing.T) {
	r := Record{ID: "r1", UserID: "u1", Type: TypeAfternoonHalfDay, StartTime: strPtr("14:00"), EndTime: strPtr("18:00")}
	resp := NewAttendanceResponse(r)
	assert.Equal(t, SlotRange{10, 17}, resp.Slots)
	assert.Equal(t, 0.5, resp.DayWeight)
	assert.True(t, resp.LeaveBearing)
}

func TestNewTypeResponse(t *testing.T) {
	d, _ := Describe(TypeOvertime)
	resp := NewTypeResponse(d)
	require.NotNil(t, resp.DefaultStartTime)
	assert.Equal(t, "18:00", *resp.DefaultStartTime)
	assert.False(t, resp.LeaveBearing)

	d, _ = Describe(TypeFieldWork)
	resp = NewTypeResponse(d)
	assert.Nil(t, resp.DefaultStartTime)
	assert.True(t, resp.RequiresExplicitTime)
}
