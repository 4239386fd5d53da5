package fuel

import (
	"fmt"
	"sort"
	"time"

	lo "github.com/samber/lo"
)

// DateOptions is the set of selectable report dates.
type DateOptions struct {
	Dates   []time.Time `json:"dates"`
	Min     time.Time   `json:"min"`
	Max     time.Time   `json:"max"`
	Default time.Time   `json:"default"`
	Empty   bool        `json:"empty"`
}

// Contains reports whether d is one of the options.
func (o DateOptions) Contains(d time.Time) bool {
	d = Day(d)
	return lo.ContainsBy(o.Dates, func(x time.Time) bool { return x.Equal(d) })
}

// Strings returns the options in DateLayout.
func (o DateOptions) Strings() []string {
	return lo.Map(o.Dates, func(d time.Time, _ int) string { return d.Format(DateLayout) })
}

// Dates returns the sorted distinct dates of the working table. The latest
// date is the default selection. An empty table is a valid state with no
// options.
func Dates(t Table) DateOptions {
	if len(t) == 0 {
		return DateOptions{Dates: []time.Time{}, Empty: true}
	}
	dates := lo.UniqBy(lo.Map(t, func(r Record, _ int) time.Time { return r.Date }), func(d time.Time) int64 {
		return d.Unix()
	})
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return DateOptions{
		Dates:   dates,
		Min:     dates[0],
		Max:     dates[len(dates)-1],
		Default: dates[len(dates)-1],
	}
}

// SelectDate resolves an operator chosen date to its rows. A date with no
// rows yields an EmptySelectionError.
func SelectDate(t Table, d time.Time) (Table, error) {
	rows := OnDate(t, d)
	if len(rows) == 0 {
		return rows, &EmptySelectionError{Reason: fmt.Sprintf("no data reported on %s", Day(d).Format(DateLayout))}
	}
	return rows, nil
}
