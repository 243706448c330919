package domain

import (
	"fmt"
	"strings"
)

// Month is a planning month. Index gives the total order used for holding
// durations; it is assigned by the Calendar and never changes.
type Month struct {
	Name  string
	Index int
}

// String returns the month name.
func (m Month) String() string {
	return m.Name
}

// Before reports whether m comes strictly before o.
func (m Month) Before(o Month) bool {
	return m.Index < o.Index
}

// DefaultMonthNames are the planning months used by the desk's May–December book.
var DefaultMonthNames = []string{
	"May", "June", "July", "August", "September", "October", "November", "December",
}

// Calendar is an ordered, immutable set of planning months.
type Calendar struct {
	months []Month
	byName map[string]int
}

// NewCalendar builds a calendar from month names in chronological order.
func NewCalendar(names ...string) (Calendar, error) {
	if len(names) == 0 {
		return Calendar{}, fmt.Errorf("%w: no months", ErrInvalidCalendar)
	}

	cal := Calendar{
		months: make([]Month, 0, len(names)),
		byName: make(map[string]int, len(names)),
	}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return Calendar{}, fmt.Errorf("%w: empty month name at position %d", ErrInvalidCalendar, i)
		}
		if _, dup := cal.byName[name]; dup {
			return Calendar{}, fmt.Errorf("%w: duplicate month %q", ErrInvalidCalendar, name)
		}
		cal.byName[name] = i
		cal.months = append(cal.months, Month{Name: name, Index: i})
	}
	return cal, nil
}

// DefaultCalendar returns the May–December calendar.
func DefaultCalendar() Calendar {
	cal, err := NewCalendar(DefaultMonthNames...)
	if err != nil {
		panic(err) // static data
	}
	return cal
}

// Months returns the months in order. The slice is a copy.
func (c Calendar) Months() []Month {
	out := make([]Month, len(c.months))
	copy(out, c.months)
	return out
}

// Names returns the month names in order.
func (c Calendar) Names() []string {
	out := make([]string, len(c.months))
	for i, m := range c.months {
		out[i] = m.Name
	}
	return out
}

// Len returns the number of months.
func (c Calendar) Len() int {
	return len(c.months)
}

// Month looks up a month by name.
func (c Calendar) Month(name string) (Month, error) {
	i, ok := c.byName[name]
	if !ok {
		return Month{}, fmt.Errorf("%w: %q", ErrUnknownMonth, name)
	}
	return c.months[i], nil
}

// Contains reports whether m belongs to this calendar.
func (c Calendar) Contains(m Month) bool {
	i, ok := c.byName[m.Name]
	return ok && i == m.Index
}

// HoldingMonths returns the number of months between buy and sell.
func HoldingMonths(buy, sell Month) int {
	return sell.Index - buy.Index
}
