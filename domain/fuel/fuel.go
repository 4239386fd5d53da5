package fuel

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ExcludedSector holds vehicle registrations, not fuel storage. It never
// takes part in an aggregate.
const ExcludedSector = "UNDOF Vehicle Registration"

// DateLayout is the wire format for report dates.
const DateLayout = "2006-01-02"

// Column names expected in the uploaded CSV.
const (
	ColDate                  = "Date"
	ColSector                = "Sector"
	ColPost                  = "Post"
	ColTankCapacity          = "Tank Capacity"
	ColReportedStock         = "Reported Stock"
	ColAvailableStorageSpace = "Available Storage Space"
	ColAvgDailyConsumption   = "Avg Daily Consumption"
	ColDaysOfSupply          = "Days of Supply"
)

// RequiredColumns lists the upload columns in their documented order.
var RequiredColumns = []string{
	ColDate,
	ColSector,
	ColPost,
	ColTankCapacity,
	ColReportedStock,
	ColAvailableStorageSpace,
	ColAvgDailyConsumption,
	ColDaysOfSupply,
}

// Record is one row of the uploaded table.
// Numeric fields are NaN when the source cell was empty.
type Record struct {
	Date                  time.Time
	Sector                string
	Post                  string
	TankCapacity          float64
	ReportedStock         float64
	AvailableStorageSpace float64
	AvgDailyConsumption   float64
	DaysOfSupply          float64
}

// Table is an ordered sequence of records. Functions in this package never
// modify a Table passed to them.
type Table []Record

// Missing reports whether v stands for an absent value.
func Missing(v float64) bool { return math.IsNaN(v) }

// ErrNoData is returned when a session has no uploaded table yet.
var ErrNoData = errors.New("no data uploaded")

// DataFormatError reports an upload that cannot be turned into a Table.
type DataFormatError struct {
	Line    int    // 1-based line in the CSV, 0 when not tied to a row
	Column  string // offending column, if any
	Value   string // offending raw value, if any
	Reason  string
	Missing []string // missing required columns
}

func (e *DataFormatError) Error() string {
	var b strings.Builder
	switch {
	case len(e.Missing) > 0:
		fmt.Fprintf(&b, "missing required columns: %s", strings.Join(e.Missing, ", "))
	case e.Line > 0 && e.Column != "":
		fmt.Fprintf(&b, "line %d, column %q: %s", e.Line, e.Column, e.Reason)
		if e.Value != "" {
			fmt.Fprintf(&b, " (%q)", e.Value)
		}
	default:
		b.WriteString(e.Reason)
	}
	fmt.Fprintf(&b, "; expected columns: %s", strings.Join(RequiredColumns, ", "))
	return b.String()
}

// EmptySelectionError is informational: a branch of the dashboard has no
// rows to work with. Independent outputs still render.
type EmptySelectionError struct {
	Reason string
}

func (e *EmptySelectionError) Error() string { return e.Reason }

// IsEmptySelection reports whether err is, or wraps, an EmptySelectionError.
func IsEmptySelection(err error) bool {
	var es *EmptySelectionError
	return errors.As(err, &es)
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an operator supplied date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
