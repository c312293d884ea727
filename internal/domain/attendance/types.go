package attendance

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// Type is the attendance category stored on a record. The wire values are
// the labels the calendar UI shows.
type Type string

const (
	TypeAnnualLeave       Type = "연차"
	TypeMorningHalfDay    Type = "오전반차"
	TypeAfternoonHalfDay  Type = "오후반차"
	TypeQuarterDay        Type = "반반차"
	TypeCompensatoryLeave Type = "대체휴가"
	TypeBusinessTrip      Type = "출장"
	TypeFieldWork         Type = "외근"
	TypeTraining          Type = "교육"
	TypeRemoteWork        Type = "재택"
	TypeOvertime          Type = "야근"
	TypeOther             Type = "기타"
)

// Descriptor is the static policy attached to a Type.
type Descriptor struct {
	Type Type
	// DefaultWindow is meaningful only when HasDefaultWindow is set.
	DefaultWindow    Window
	HasDefaultWindow bool
	// DayWeight is the leave consumed per working day; zero for duty categories.
	DayWeight decimal.Decimal
	// Pool is the leave pool debited; empty for non leave-bearing types.
	Pool                 leave.LeaveType
	RequiresExplicitTime bool
}

var (
	fullDay   = Window{Start: NewClock(9, 0), End: NewClock(18, 0)}
	morning   = Window{Start: NewClock(9, 0), End: NewClock(14, 0)}
	afternoon = Window{Start: NewClock(14, 0), End: NewClock(18, 0)}
	evening   = Window{Start: NewClock(18, 0), End: NewClock(22, 0)}

	weightFull    = decimal.NewFromInt(1)
	weightHalf    = decimal.NewFromFloat(0.5)
	weightQuarter = decimal.NewFromFloat(0.25)
)

// catalog is ordered the way types are offered to users.
var catalog = []Descriptor{
	{Type: TypeAnnualLeave, DefaultWindow: fullDay, HasDefaultWindow: true, DayWeight: weightFull, Pool: leave.LeaveTypeAnnual},
	{Type: TypeMorningHalfDay, DefaultWindow: morning, HasDefaultWindow: true, DayWeight: weightHalf, Pool: leave.LeaveTypeAnnual},
	{Type: TypeAfternoonHalfDay, DefaultWindow: afternoon, HasDefaultWindow: true, DayWeight: weightHalf, Pool: leave.LeaveTypeAnnual},
	{Type: TypeQuarterDay, DayWeight: weightQuarter, Pool: leave.LeaveTypeAnnual, RequiresExplicitTime: true},
	{Type: TypeCompensatoryLeave, DefaultWindow: fullDay, HasDefaultWindow: true, DayWeight: weightFull, Pool: leave.LeaveTypeCompensatory},
	{Type: TypeBusinessTrip, DefaultWindow: fullDay, HasDefaultWindow: true, DayWeight: decimal.Zero},
	{Type: TypeFieldWork, DayWeight: decimal.Zero, RequiresExplicitTime: true},
	{Type: TypeTraining, DefaultWindow: fullDay, HasDefaultWindow: true, DayWeight: decimal.Zero},
	{Type: TypeRemoteWork, DefaultWindow: fullDay, HasDefaultWindow: true, DayWeight: decimal.Zero},
	{Type: TypeOvertime, DefaultWindow: evening, HasDefaultWindow: true, DayWeight: decimal.Zero},
	{Type: TypeOther, DayWeight: decimal.Zero, RequiresExplicitTime: true},
}

var catalogByType = func() map[Type]Descriptor {
	m := make(map[Type]Descriptor, len(catalog))
	for _, d := range catalog {
		m[d.Type] = d
	}
	return m
}()

// Catalog returns every descriptor in display order.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// Describe looks up t. Unknown types yield the zero descriptor (no window,
// zero weight) and false.
func Describe(t Type) (Descriptor, bool) {
	d, ok := catalogByType[t]
	if !ok {
		return Descriptor{Type: t, DayWeight: decimal.Zero}, false
	}
	return d, true
}

func (t Type) Known() bool {
	_, ok := catalogByType[t]
	return ok
}

func (d Descriptor) IsLeaveBearing() bool {
	return d.Pool != ""
}

// IsPartialDay reports whether the type covers less than a full day; such
// requests are limited to a single date.
func (d Descriptor) IsPartialDay() bool {
	return d.IsLeaveBearing() && d.DayWeight.LessThan(weightFull)
}

func IsLeaveBearing(t Type) bool {
	d, _ := Describe(t)
	return d.IsLeaveBearing()
}

func IsAnnualPool(t Type) bool {
	d, _ := Describe(t)
	return d.Pool == leave.LeaveTypeAnnual
}

// Pool returns the leave pool t debits, if any.
func Pool(t Type) (leave.LeaveType, bool) {
	d, _ := Describe(t)
	return d.Pool, d.Pool != ""
}

func DayWeight(t Type) decimal.Decimal {
	d, _ := Describe(t)
	return d.DayWeight
}
