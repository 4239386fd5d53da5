package fuel

import (
	"log/slog"
	"time"

	"fuel-dashboard/domain/chart"
	"fuel-dashboard/domain/config"
)

// Dashboard is everything one recomputation pass hands to the presentation
// layer.
type Dashboard struct {
	Config           config.Pipeline    `json:"config"`
	Rows             int                `json:"rows"`
	Metrics          Metrics            `json:"metrics"`
	Tiles            []Tile             `json:"tiles"`
	CapacityBySector chart.Bar          `json:"capacity_by_sector"`
	Trends           []chart.TimeSeries `json:"trends"`
	Dates            DateOptions        `json:"dates"`
	SelectedDate     *time.Time         `json:"selected_date,omitempty"`
	Sectors          []chart.PostChart  `json:"sectors"`
	NoData           []string           `json:"no_data"`
	Notices          []string           `json:"notices"`
}

// BuildDashboard computes every output from the working table built by
// Prepare. A nil date selects the latest date. Empty selections are reported
// as notices and only suppress the branch they affect.
func BuildDashboard(working Table, cfg config.Pipeline, date *time.Time) Dashboard {
	metrics := ComputeMetrics(working, cfg)
	d := Dashboard{
		Config:           cfg,
		Rows:             len(working),
		Metrics:          metrics,
		Tiles:            metrics.Tiles(cfg),
		CapacityBySector: CapacityChart(CapacityBySector(FirstDay(working))),
		Trends:           DailyTrends(working),
		Dates:            Dates(working),
		Sectors:          []chart.PostChart{},
		NoData:           []string{},
		Notices:          []string{},
	}

	if d.Dates.Empty {
		reason := "no rows left after filtering"
		if cfg.ApplyWeekdayFilter {
			reason = "no weekday data available for the uploaded file"
		}
		d.Notices = append(d.Notices, (&EmptySelectionError{Reason: reason}).Error())
		slog.Info("dashboard.empty", "reason", reason)
		return d
	}

	selected := d.Dates.Default
	if date != nil {
		selected = Day(*date)
	}
	d.SelectedDate = &selected

	rows, err := SelectDate(working, selected)
	if err != nil {
		d.Notices = append(d.Notices, err.Error())
		slog.Info("dashboard.selection.empty", "date", selected.Format(DateLayout))
		return d
	}
	d.Sectors, d.NoData = PostBreakdowns(rows, Sectors(working), selected)
	slog.Debug("dashboard.build", "rows", len(working), "date", selected.Format(DateLayout), "sectors", len(d.Sectors), "no_data", len(d.NoData))
	return d
}

// Run is the whole pipeline over a freshly loaded table.
func Run(t Table, cfg config.Pipeline, date *time.Time) Dashboard {
	return BuildDashboard(Prepare(t, cfg), cfg, date)
}
