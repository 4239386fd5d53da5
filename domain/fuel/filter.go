package fuel

import (
	"time"

	lo "github.com/samber/lo"

	"fuel-dashboard/domain/config"
)

// ExcludeSector drops every record of the given sector, keeping row order.
func ExcludeSector(t Table, sector string) Table {
	return Table(lo.Filter(t, func(r Record, _ int) bool { return r.Sector != sector }))
}

// WithoutExcludedSector drops the vehicle registration pseudo-sector.
func WithoutExcludedSector(t Table) Table {
	return ExcludeSector(t, ExcludedSector)
}

// WeekdaysOnly keeps records dated Monday to Friday.
func WeekdaysOnly(t Table) Table {
	return Table(lo.Filter(t, func(r Record, _ int) bool { return isWeekday(r.Date) }))
}

func isWeekday(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// Prepare builds the working table for one run. Every derived view, metric
// and chart must be computed from its result so that the weekday mode is
// applied consistently.
func Prepare(t Table, cfg config.Pipeline) Table {
	out := WithoutExcludedSector(t)
	if cfg.ApplyWeekdayFilter {
		out = WeekdaysOnly(out)
	}
	return out
}
