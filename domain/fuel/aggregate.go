package fuel

import (
	"fmt"
	"sort"
	"time"

	lo "github.com/samber/lo"

	"fuel-dashboard/domain/chart"
)

// SectorCapacity is the summed tank capacity of one sector.
type SectorCapacity struct {
	Sector   string  `json:"sector"`
	Capacity float64 `json:"capacity"`
}

// CapacityBySector sums tank capacity per sector over firstDay and sorts the
// groups by descending capacity. Equal sums keep discovery order.
func CapacityBySector(firstDay Table) []SectorCapacity {
	rows := WithoutExcludedSector(firstDay)
	order := lo.Uniq(lo.Map(rows, func(r Record, _ int) string { return r.Sector }))
	groups := lo.GroupBy(rows, func(r Record) string { return r.Sector })

	out := lo.Map(order, func(s string, _ int) SectorCapacity {
		return SectorCapacity{Sector: s, Capacity: sum(groups[s], tankCapacity)}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Capacity > out[j].Capacity })
	return out
}

// CapacityChart turns the per-sector totals into the summary bar chart.
func CapacityChart(groups []SectorCapacity) chart.Bar {
	return chart.Bar{
		Title:  "Total Capacity per Sector (lts)",
		XTitle: "Sector",
		YTitle: "Tank Capacity",
		Bars: lo.Map(groups, func(g SectorCapacity, _ int) chart.BarItem {
			return chart.BarItem{Category: g.Sector, Value: g.Capacity, Text: fmt.Sprintf("%.0f", g.Capacity)}
		}),
	}
}

// Sectors returns the distinct sectors of t in sorted order, never including
// the excluded pseudo-sector.
func Sectors(t Table) []string {
	out := lo.Uniq(lo.Map(WithoutExcludedSector(t), func(r Record, _ int) string { return r.Sector }))
	sort.Strings(out)
	return out
}

// Breakdown holds the per-post series of one sector on one date.
type Breakdown struct {
	Sector         string
	Posts          []string
	TankCapacity   []float64
	AvailableSpace []float64
	DaysOfSupply   []float64
}

// PostBreakdown returns the rows of sector within selected as three series
// aligned on post. ok is false when the sector has no rows; callers skip the
// chart for that sector. The excluded pseudo-sector never has data.
func PostBreakdown(selected Table, sector string) (b Breakdown, ok bool) {
	if sector == ExcludedSector {
		return Breakdown{}, false
	}
	rows := Table(lo.Filter(selected, func(r Record, _ int) bool { return r.Sector == sector }))
	if len(rows) == 0 {
		return Breakdown{}, false
	}
	return Breakdown{
		Sector:         sector,
		Posts:          lo.Map(rows, func(r Record, _ int) string { return r.Post }),
		TankCapacity:   lo.Map(rows, func(r Record, _ int) float64 { return tankCapacity(r) }),
		AvailableSpace: lo.Map(rows, func(r Record, _ int) float64 { return availableStorageSpace(r) }),
		DaysOfSupply:   lo.Map(rows, func(r Record, _ int) float64 { return daysOfSupply(r) }),
	}, true
}

// Chart converts the breakdown to its chart form.
func (b Breakdown) Chart(date time.Time) chart.PostChart {
	return chart.PostChart{
		Sector:         b.Sector,
		Title:          fmt.Sprintf("%s - per Post (%s)", b.Sector, date.Format(DateLayout)),
		Date:           date,
		Posts:          b.Posts,
		TankCapacity:   lo.Map(b.TankCapacity, func(v float64, _ int) *float64 { return chart.Value(v) }),
		AvailableSpace: lo.Map(b.AvailableSpace, func(v float64, _ int) *float64 { return chart.Value(v) }),
		DaysOfSupply:   lo.Map(b.DaysOfSupply, func(v float64, _ int) *float64 { return chart.Value(Round1(v)) }),
	}
}

// PostBreakdowns builds the detail chart of every sector that has rows in
// selected. Sectors without rows are listed in noData.
func PostBreakdowns(selected Table, sectors []string, date time.Time) (charts []chart.PostChart, noData []string) {
	charts = []chart.PostChart{}
	noData = []string{}
	for _, s := range sectors {
		b, ok := PostBreakdown(selected, s)
		if !ok {
			noData = append(noData, s)
			continue
		}
		charts = append(charts, b.Chart(date))
	}
	return charts, noData
}

// DailyTrends returns the per-date totals of daily consumption and reported
// stock, ordered by date.
func DailyTrends(t Table) []chart.TimeSeries {
	dates := Dates(t).Dates
	byDate := lo.GroupBy(t, func(r Record) int64 { return r.Date.Unix() })

	point := func(field func(Record) float64) []chart.TimePoint {
		return lo.Map(dates, func(d time.Time, _ int) chart.TimePoint {
			return chart.TimePoint{Date: d, Value: Round1(sum(byDate[d.Unix()], field))}
		})
	}
	return []chart.TimeSeries{
		{Name: ColAvgDailyConsumption, Title: "Daily Consumption Over Time", Points: point(avgDailyConsumption)},
		{Name: ColReportedStock, Title: "Reported Stock Over Time", Points: point(reportedStock)},
	}
}
