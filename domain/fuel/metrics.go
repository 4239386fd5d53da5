package fuel

import (
	"fmt"
	"math"

	humanize "github.com/dustin/go-humanize"
	lo "github.com/samber/lo"

	"fuel-dashboard/domain/config"
)

// Metric names used in Metrics.Values.
const (
	MetricTotalTankCapacity              = "total_tank_capacity"
	MetricTotalConsumptionLastDay        = "total_consumption_last_day"
	MetricReportedStockLastDay           = "reported_stock_last_day"
	MetricAvgConsumptionTrailingWindow   = "avg_consumption_trailing_window"
	MetricTotalConsumptionTrailingWindow = "total_consumption_trailing_window"
	MetricTotalStockTrailingWindow       = "total_stock_trailing_window"
	MetricPercentageFullCapacity         = "percentage_full_capacity"
	MetricVacancyRate                    = "vacancy_rate"
	MetricOverallAvgDailyConsumption     = "overall_avg_daily_consumption"
)

// Metrics is the fixed set of summary statistics. Every value is rounded to
// one decimal.
type Metrics struct {
	TotalTankCapacity              float64 `json:"total_tank_capacity"`
	TotalConsumptionLastDay        float64 `json:"total_consumption_last_day"`
	ReportedStockLastDay           float64 `json:"reported_stock_last_day"`
	AvgConsumptionTrailingWindow   float64 `json:"avg_consumption_trailing_window"`
	TotalConsumptionTrailingWindow float64 `json:"total_consumption_trailing_window"`
	TotalStockTrailingWindow       float64 `json:"total_stock_trailing_window"`
	PercentageFullCapacity         float64 `json:"percentage_full_capacity"`
	VacancyRate                    float64 `json:"vacancy_rate"`
	OverallAvgDailyConsumption     float64 `json:"overall_avg_daily_consumption"`
	TrailingWindowDays             int     `json:"trailing_window_days"`
}

// ComputeMetrics derives the summary statistics from the working table.
// Numerator and denominator of the fill percentage both come from t; the
// denominator is the unrounded first-day capacity.
func ComputeMetrics(t Table, cfg config.Pipeline) Metrics {
	first := FirstDay(t)
	last := LastDay(t)
	window := TrailingWindow(t, cfg.TrailingWindowDays)
	capacity := sum(first, tankCapacity)

	m := Metrics{
		TotalTankCapacity:              Round1(capacity),
		TotalConsumptionLastDay:        Round1(sum(last, avgDailyConsumption)),
		ReportedStockLastDay:           Round1(sum(last, reportedStock)),
		AvgConsumptionTrailingWindow:   Round1(mean(window, avgDailyConsumption)),
		TotalConsumptionTrailingWindow: Round1(sum(window, avgDailyConsumption)),
		TotalStockTrailingWindow:       Round1(sum(window, reportedStock)),
		OverallAvgDailyConsumption:     Round1(mean(t, avgDailyConsumption)),
		TrailingWindowDays:             cfg.TrailingWindowDays,
	}
	if capacity > 0 {
		m.PercentageFullCapacity = Round1(m.TotalStockTrailingWindow / capacity * 100)
	}
	m.VacancyRate = Round1(100 - m.PercentageFullCapacity)
	return m
}

// Values returns the flat metric name to value mapping.
func (m Metrics) Values() map[string]float64 {
	return map[string]float64{
		MetricTotalTankCapacity:              m.TotalTankCapacity,
		MetricTotalConsumptionLastDay:        m.TotalConsumptionLastDay,
		MetricReportedStockLastDay:           m.ReportedStockLastDay,
		MetricAvgConsumptionTrailingWindow:   m.AvgConsumptionTrailingWindow,
		MetricTotalConsumptionTrailingWindow: m.TotalConsumptionTrailingWindow,
		MetricTotalStockTrailingWindow:       m.TotalStockTrailingWindow,
		MetricPercentageFullCapacity:         m.PercentageFullCapacity,
		MetricVacancyRate:                    m.VacancyRate,
		MetricOverallAvgDailyConsumption:     m.OverallAvgDailyConsumption,
	}
}

// Tile is one labelled, formatted metric ready for display.
type Tile struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value string  `json:"value"`
	Raw   float64 `json:"raw"`
}

// Tiles returns the metric tiles in display order. The trailing consumption
// tile follows cfg.TrailingMetric.
func (m Metrics) Tiles(cfg config.Pipeline) []Tile {
	days := m.TrailingWindowDays
	weekday := ""
	if cfg.ApplyWeekdayFilter {
		weekday = " (Weekday Only)"
	}

	trailing := Tile{
		Key:   MetricTotalConsumptionTrailingWindow,
		Label: fmt.Sprintf("Total Consumption last %d days (lts)", days),
		Raw:   m.TotalConsumptionTrailingWindow,
	}
	if cfg.TrailingMetric == config.TrailingMean {
		trailing = Tile{
			Key:   MetricAvgConsumptionTrailingWindow,
			Label: fmt.Sprintf("Avg Consumption last %d days (lts)", days),
			Raw:   m.AvgConsumptionTrailingWindow,
		}
	}
	trailing.Value = FormatNumber(trailing.Raw)

	return []Tile{
		numberTile(MetricTotalTankCapacity, "Total Tank Capacity (lts)", m.TotalTankCapacity),
		numberTile(MetricTotalConsumptionLastDay, "Total Consumption Last Day (lts)", m.TotalConsumptionLastDay),
		trailing,
		numberTile(MetricReportedStockLastDay, "Reported Stock Last Day"+weekday, m.ReportedStockLastDay),
		numberTile(MetricTotalStockTrailingWindow, fmt.Sprintf("Reported Stock last %d days", days), m.TotalStockTrailingWindow),
		percentTile(MetricPercentageFullCapacity, "% Full Capacity", m.PercentageFullCapacity),
		percentTile(MetricVacancyRate, "% Vacancy Rate", m.VacancyRate),
	}
}

func numberTile(key, label string, v float64) Tile {
	return Tile{Key: key, Label: label, Value: FormatNumber(v), Raw: v}
}

func percentTile(key, label string, v float64) Tile {
	return Tile{Key: key, Label: label, Value: FormatPercent(v), Raw: v}
}

// FormatNumber renders v with thousands separators and one decimal.
func FormatNumber(v float64) string {
	return humanize.FormatFloat("#,###.#", v)
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f %%", v)
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func tankCapacity(r Record) float64          { return r.TankCapacity }
func reportedStock(r Record) float64         { return r.ReportedStock }
func avgDailyConsumption(r Record) float64   { return r.AvgDailyConsumption }
func availableStorageSpace(r Record) float64 { return r.AvailableStorageSpace }
func daysOfSupply(r Record) float64          { return r.DaysOfSupply }

// present returns the non-missing values of field over t.
func present(t Table, field func(Record) float64) []float64 {
	return lo.FilterMap(t, func(r Record, _ int) (float64, bool) {
		v := field(r)
		return v, !Missing(v)
	})
}

// sum adds the non-missing values; an empty set sums to 0.
func sum(t Table, field func(Record) float64) float64 {
	return lo.Sum(present(t, field))
}

// mean averages the non-missing values; it is 0 when there are none.
func mean(t Table, field func(Record) float64) float64 {
	vs := present(t, field)
	if len(vs) == 0 {
		return 0
	}
	return lo.Sum(vs) / float64(len(vs))
}
