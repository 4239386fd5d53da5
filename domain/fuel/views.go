package fuel

import (
	"time"

	lo "github.com/samber/lo"
)

// DateRange returns the earliest and latest dates of t. ok is false for an
// empty table.
func DateRange(t Table) (first, last time.Time, ok bool) {
	if len(t) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = t[0].Date, t[0].Date
	for _, r := range t[1:] {
		if r.Date.Before(first) {
			first = r.Date
		}
		if r.Date.After(last) {
			last = r.Date
		}
	}
	return first, last, true
}

// OnDate returns the records reported on d.
func OnDate(t Table, d time.Time) Table {
	d = Day(d)
	return Table(lo.Filter(t, func(r Record, _ int) bool { return r.Date.Equal(d) }))
}

// FirstDay returns the records of the earliest date. Capacity is static, so
// this snapshot is the authoritative one for tank capacity.
func FirstDay(t Table) Table {
	first, _, ok := DateRange(t)
	if !ok {
		return Table{}
	}
	return OnDate(t, first)
}

// LastDay returns the records of the latest date.
func LastDay(t Table) Table {
	_, last, ok := DateRange(t)
	if !ok {
		return Table{}
	}
	return OnDate(t, last)
}

// TrailingWindow returns the records dated on or after last-days. The bound is
// in calendar days, so gaps such as weekends shrink the number of distinct
// dates it contains.
func TrailingWindow(t Table, days int) Table {
	_, last, ok := DateRange(t)
	if !ok {
		return Table{}
	}
	start := last.AddDate(0, 0, -days)
	return Table(lo.Filter(t, func(r Record, _ int) bool { return !r.Date.Before(start) }))
}
