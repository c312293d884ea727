package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotsForWindow(t *testing.T) {
	tests := []struct {
		name       string
		start, end Clock
		want       SlotRange
	}{
		{"full day", NewClock(9, 0), NewClock(18, 0), SlotRange{0, 17}},
		{"morning half", NewClock(9, 0), NewClock(14, 0), SlotRange{0, 9}},
		{"afternoon half", NewClock(14, 0), NewClock(18, 0), SlotRange{10, 17}},
		{"unaligned floors and ceils", NewClock(9, 15), NewClock(10, 10), SlotRange{0, 2}},
		{"single slot", NewClock(13, 0), NewClock(13, 30), SlotRange{8, 8}},
		{"before grid clamps", NewClock(7, 0), NewClock(10, 0), SlotRange{0, 1}},
		{"overtime clamps to last slot", NewClock(18, 0), NewClock(22, 0), SlotRange{17, 17}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlotsForWindow(tt.start, tt.end))
		})
	}
}

func TestSlotsForRecord(t *testing.T) {
	start, end := "11:00", "12:00"

	assert.Equal(t, SlotRange{4, 5}, SlotsForRecord(Record{Type: TypeFieldWork, StartTime: &start, EndTime: &end}))
	assert.Equal(t, SlotRange{10, 17}, SlotsForRecord(Record{Type: TypeAfternoonHalfDay}))
	assert.Equal(t, FullDaySlots, SlotsForRecord(Record{Type: TypeOther}))
}

func TestSlotRange(t *testing.T) {
	r := SlotRange{Start: 2, End: 5}
	assert.Equal(t, 4, r.Len())
	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(5))
	assert.False(t, r.Contains(6))
	assert.True(t, r.Overlaps(SlotRange{5, 9}))
	assert.False(t, r.Overlaps(SlotRange{6, 9}))
}

func TestSlotLabel(t *testing.T) {
	assert.Equal(t, "09:00", SlotLabel(0))
	assert.Equal(t, "13:30", SlotLabel(9))
	assert.Equal(t, "17:30", SlotLabel(17))
}

func TestOccupancy(t *testing.T) {
	var o Occupancy
	o.Add(SlotRange{0, 9})
	o.Add(SlotRange{8, 17})
	o.Add(SlotRange{9, 9})

	assert.Equal(t, 1, o[0])
	assert.Equal(t, 2, o[8])
	assert.Equal(t, 3, o[9])
	assert.Equal(t, 3, o.Max())
}
