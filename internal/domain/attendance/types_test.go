package attendance

import (
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Descriptors(t *testing.T) {
	tests := []struct {
		typ      Type
		weight   string
		pool     leave.LeaveType
		window   string
		explicit bool
	}{
		{TypeAnnualLeave, "1", leave.LeaveTypeAnnual, "09:00-18:00", false},
		{TypeMorningHalfDay, "0.5", leave.LeaveTypeAnnual, "09:00-14:00", false},
		{TypeAfternoonHalfDay, "0.5", leave.LeaveTypeAnnual, "14:00-18:00", false},
		{TypeQuarterDay, "0.25", leave.LeaveTypeAnnual, "", true},
		{TypeCompensatoryLeave, "1", leave.LeaveTypeCompensatory, "09:00-18:00", false},
		{TypeBusinessTrip, "0", "", "09:00-18:00", false},
		{TypeFieldWork, "0", "", "", true},
		{TypeOvertime, "0", "", "18:00-22:00", false},
		{TypeOther, "0", "", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			d, ok := Describe(tt.typ)
			require.True(t, ok)
			assert.True(t, d.DayWeight.Equal(decimal.RequireFromString(tt.weight)), "weight %s", d.DayWeight)
			assert.Equal(t, tt.pool, d.Pool)
			assert.Equal(t, tt.explicit, d.RequiresExplicitTime)
			if tt.window == "" {
				assert.False(t, d.HasDefaultWindow)
			} else {
				require.True(t, d.HasDefaultWindow)
				assert.Equal(t, tt.window, d.DefaultWindow.String())
			}
		})
	}
}

func TestCatalog_ContainsEveryType(t *testing.T) {
	assert.Len(t, Catalog(), 11)
	for _, d := range Catalog() {
		assert.True(t, d.Type.Known())
	}
}

func TestDescribe_Unknown(t *testing.T) {
	d, ok := Describe("휴가")
	assert.False(t, ok)
	assert.False(t, d.HasDefaultWindow)
	assert.True(t, d.DayWeight.IsZero())
	assert.False(t, d.IsLeaveBearing())
	assert.False(t, IsLeaveBearing("휴가"))
}

func TestLeaveBearing(t *testing.T) {
	assert.True(t, IsLeaveBearing(TypeAnnualLeave))
	assert.True(t, IsLeaveBearing(TypeCompensatoryLeave))
	assert.False(t, IsLeaveBearing(TypeRemoteWork))

	assert.True(t, IsAnnualPool(TypeQuarterDay))
	assert.False(t, IsAnnualPool(TypeCompensatoryLeave))

	pool, ok := Pool(TypeCompensatoryLeave)
	assert.True(t, ok)
	assert.Equal(t, leave.LeaveTypeCompensatory, pool)

	_, ok = Pool(TypeTraining)
	assert.False(t, ok)
}

func TestIsPartialDay(t *testing.T) {
	morning, _ := Describe(TypeMorningHalfDay)
	quarter, _ := Describe(TypeQuarterDay)
	full, _ := Describe(TypeAnnualLeave)
	trip, _ := Describe(TypeBusinessTrip)

	assert.True(t, morning.IsPartialDay())
	assert.True(t, quarter.IsPartialDay())
	assert.False(t, full.IsPartialDay())
	assert.False(t, trip.IsPartialDay())
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, NewClock(9, 30), c)
	assert.Equal(t, "09:30", c.String())

	for _, bad := range []string{"9:30", "24:00", "09:60", "", "0930"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestResolveWindow(t *testing.T) {
	s, e := ResolveWindow(TypeMorningHalfDay, nil, nil)
	require.NotNil(t, s)
	require.NotNil(t, e)
	assert.Equal(t, "09:00", *s)
	assert.Equal(t, "14:00", *e)

	start := "10:00"
	s, e = ResolveWindow(TypeAnnualLeave, &start, nil)
	assert.Equal(t, "10:00", *s)
	assert.Equal(t, "18:00", *e)

	s, e = ResolveWindow(TypeFieldWork, nil, nil)
	assert.Nil(t, s)
	assert.Nil(t, e)
}
