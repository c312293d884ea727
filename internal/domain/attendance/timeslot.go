package attendance

// The calendar grid: 18 slots of 30 minutes from 09:00 to 18:00.
const (
	SlotMinutes = 30
	SlotCount   = 18
)

var GridStart = NewClock(9, 0)

// SlotRange is an inclusive range of slot indices.
type SlotRange struct {
	Start int `json:"startSlot"`
	End   int `json:"endSlot"`
}

// FullDaySlots covers the whole grid.
var FullDaySlots = SlotRange{Start: 0, End: SlotCount - 1}

func (s SlotRange) Len() int {
	return s.End - s.Start + 1
}

func (s SlotRange) Contains(slot int) bool {
	return slot >= s.Start && slot <= s.End
}

func (s SlotRange) Overlaps(other SlotRange) bool {
	return s.Start <= other.End && other.Start <= s.End
}

// SlotsForWindow floors start and ceils end onto the grid and clamps the
// result to [0, SlotCount-1].
func SlotsForWindow(start, end Clock) SlotRange {
	first := floorDiv(int(start-GridStart), SlotMinutes)
	last := ceilDiv(int(end-GridStart), SlotMinutes) - 1

	first = clamp(first, 0, SlotCount-1)
	last = clamp(last, 0, SlotCount-1)
	if last < first {
		last = first
	}
	return SlotRange{Start: first, End: last}
}

// SlotsForRecord uses the record's explicit window, else the type default,
// else the full day.
func SlotsForRecord(r Record) SlotRange {
	if w, ok := r.Window(); ok {
		return SlotsForWindow(w.Start, w.End)
	}
	if d, _ := Describe(r.Type); d.HasDefaultWindow {
		return SlotsForWindow(d.DefaultWindow.Start, d.DefaultWindow.End)
	}
	return FullDaySlots
}

// SlotLabel returns the "HH:MM" start of slot i.
func SlotLabel(i int) string {
	return (GridStart + Clock(i*SlotMinutes)).String()
}

// Occupancy counts how many entries cover each slot of a day.
type Occupancy [SlotCount]int

func (o *Occupancy) Add(r SlotRange) {
	for i := r.Start; i <= r.End; i++ {
		o[i]++
	}
}

func (o Occupancy) Max() int {
	max := 0
	for _, n := range o {
		if n > max {
			max = n
		}
	}
	return max
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
