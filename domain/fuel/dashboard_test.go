package fuel

import (
	"strings"
	"testing"

	"fuel-dashboard/domain/config"
)

func TestDates(t *testing.T) {
	t.Parallel()

	opts := Dates(mixedTable())
	if opts.Empty || len(opts.Dates) != 4 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if got := opts.Strings(); got[0] != "2024-01-05" || got[3] != "2024-01-08" {
		t.Fatalf("dates not sorted: %v", got)
	}
	if !opts.Min.Equal(day("2024-01-05")) || !opts.Max.Equal(day("2024-01-08")) || !opts.Default.Equal(opts.Max) {
		t.Fatalf("bounds = %v %v %v", opts.Min, opts.Max, opts.Default)
	}
	if !opts.Contains(day("2024-01-06")) || opts.Contains(day("2024-01-10")) {
		t.Fatal("Contains() misreported")
	}

	if empty := Dates(Table{}); !empty.Empty || len(empty.Dates) != 0 {
		t.Fatalf("empty options = %+v", empty)
	}
}

func TestSelectDate(t *testing.T) {
	t.Parallel()

	rows, err := SelectDate(mixedTable(), day("2024-01-08"))
	if err != nil || len(rows) != 2 {
		t.Fatalf("SelectDate() = %v, %v", rows, err)
	}
	_, err = SelectDate(mixedTable(), day("2024-02-01"))
	if !IsEmptySelection(err) {
		t.Fatalf("expected EmptySelectionError, got %v", err)
	}
}

func TestBuildDashboard(t *testing.T) {
	t.Parallel()

	d := Run(mixedTable(), allDays(), nil)
	if d.Rows != 4 {
		t.Fatalf("rows = %d, want 4", d.Rows)
	}
	if d.SelectedDate == nil || d.SelectedDate.Format(DateLayout) != "2024-01-08" {
		t.Fatalf("selected = %v", d.SelectedDate)
	}
	if len(d.Sectors) != 1 || d.Sectors[0].Sector != "South" {
		t.Fatalf("sectors = %+v", d.Sectors)
	}
	if len(d.NoData) != 1 || d.NoData[0] != "North" {
		t.Fatalf("noData = %v", d.NoData)
	}
	if len(d.Notices) != 0 {
		t.Fatalf("notices = %v", d.Notices)
	}
	if len(d.Tiles) != 7 || len(d.Trends) != 2 {
		t.Fatalf("tiles = %d trends = %d", len(d.Tiles), len(d.Trends))
	}
	for _, b := range d.CapacityBySector.Bars {
		if b.Category == ExcludedSector {
			t.Fatal("pseudo-sector in capacity chart")
		}
	}
}

func TestBuildDashboardSelectedDateWithoutRows(t *testing.T) {
	t.Parallel()

	missing := day("2024-01-20")
	d := Run(mixedTable(), allDays(), &missing)
	if len(d.Sectors) != 0 || len(d.Notices) != 1 {
		t.Fatalf("sectors = %v notices = %v", d.Sectors, d.Notices)
	}
	if d.Metrics.TotalTankCapacity != 100 {
		t.Fatalf("metrics should still render, capacity = %v", d.Metrics.TotalTankCapacity)
	}
}

func TestBuildDashboardNoWeekdayRows(t *testing.T) {
	t.Parallel()

	weekend := Table{
		rec("2024-01-06", "North", "N1", 100, 50, 50, 10, 5),
		rec("2024-01-07", "North", "N1", 100, 45, 55, 10, 4.5),
	}
	d := Run(weekend, config.DefaultPipeline(), nil)
	if !d.Dates.Empty || d.SelectedDate != nil {
		t.Fatalf("expected no selectable dates: %+v", d.Dates)
	}
	if len(d.Notices) != 1 || !strings.Contains(d.Notices[0], "weekday") {
		t.Fatalf("notices = %v", d.Notices)
	}
	if d.Metrics.VacancyRate != 100 {
		t.Fatalf("vacancy = %v", d.Metrics.VacancyRate)
	}
}
