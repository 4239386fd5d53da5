package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"fuel-dashboard/domain/fuel"
)

// dateLayouts are tried in order when parsing the Date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// naTokens are cell values read as a missing number.
var naTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
	"-":    {},
}

var numericColumns = []string{
	fuel.ColTankCapacity,
	fuel.ColReportedStock,
	fuel.ColAvailableStorageSpace,
	fuel.ColAvgDailyConsumption,
	fuel.ColDaysOfSupply,
}

// ReadTable parses an uploaded CSV into a normalized table. Any malformed
// date or number, or a missing required column, aborts the whole read with a
// *fuel.DataFormatError; no row is dropped silently.
func ReadTable(in io.Reader) (fuel.Table, error) {
	r := csv.NewReader(transform.NewReader(in, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	// Ragged rows are allowed; absent trailing cells read as empty.
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	head, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &fuel.DataFormatError{Missing: fuel.RequiredColumns, Reason: "empty file"}
		}
		return nil, &fuel.DataFormatError{Line: 1, Reason: fmt.Sprintf("unreadable header: %v", err)}
	}
	idx := indexMap(head)
	var missing []string
	for _, col := range fuel.RequiredColumns {
		if _, ok := idx[normalize(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &fuel.DataFormatError{Missing: missing}
	}

	table := fuel.Table{}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var line int
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &fuel.DataFormatError{Line: line, Reason: fmt.Sprintf("malformed csv: %v", err)}
		}
		line, _ := r.FieldPos(0)
		if blank(rec) {
			continue
		}
		row, err := parseRecord(rec, idx, line)
		if err != nil {
			return nil, err
		}
		table = append(table, row)
	}
	return table, nil
}

func parseRecord(rec []string, idx map[string]int, line int) (fuel.Record, error) {
	get := func(col string) string {
		if i, ok := idx[normalize(col)]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	raw := get(fuel.ColDate)
	date, err := ParseDate(raw)
	if err != nil {
		return fuel.Record{}, &fuel.DataFormatError{Line: line, Column: fuel.ColDate, Value: raw, Reason: "invalid date"}
	}

	sector := get(fuel.ColSector)
	if sector == "" {
		return fuel.Record{}, &fuel.DataFormatError{Line: line, Column: fuel.ColSector, Reason: "missing value"}
	}

	row := fuel.Record{
		Date:   date,
		Sector: sector,
		Post:   get(fuel.ColPost),
	}
	values := make(map[string]float64, len(numericColumns))
	for _, col := range numericColumns {
		raw := get(col)
		v, err := ParseNumber(raw)
		if err != nil {
			reason := "not a number"
			if errors.Is(err, ErrNegative) {
				reason = "negative value"
			}
			return fuel.Record{}, &fuel.DataFormatError{Line: line, Column: col, Value: raw, Reason: reason}
		}
		values[col] = v
	}
	row.TankCapacity = values[fuel.ColTankCapacity]
	row.ReportedStock = values[fuel.ColReportedStock]
	row.AvailableStorageSpace = values[fuel.ColAvailableStorageSpace]
	row.AvgDailyConsumption = values[fuel.ColAvgDailyConsumption]
	row.DaysOfSupply = values[fuel.ColDaysOfSupply]
	return row, nil
}

// ParseDate parses a report date in any of the accepted layouts and drops
// the time of day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return fuel.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ErrNegative is returned by ParseNumber for values below zero.
var ErrNegative = errors.New("negative value")

// ParseNumber parses a numeric cell, stripping thousands separators first.
// NA-like cells return NaN. Commas must group the integer part in threes, so
// a decimal comma such as "1.234,5" is rejected rather than misread.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if _, ok := naTokens[strings.ToLower(s)]; ok {
		return math.NaN(), nil
	}
	clean := strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)
	if strings.Contains(clean, ",") {
		if !thousandsGrouped(clean) {
			return 0, fmt.Errorf("misplaced thousands separator in %q", s)
		}
		clean = strings.ReplaceAll(clean, ",", "")
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNegative, s)
	}
	return v, nil
}

// thousandsGrouped reports whether every comma in s sits in the integer part
// and is followed by exactly three digits.
func thousandsGrouped(s string) bool {
	intPart, _, _ := strings.Cut(s, ".")
	if strings.Count(s, ",") != strings.Count(intPart, ",") {
		return false
	}
	groups := strings.Split(intPart, ",")
	if strings.TrimLeft(groups[0], "+-") == "" {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}

func indexMap(headers []string) map[string]int {
	m := map[string]int{}
	for i, h := range headers {
		key := normalize(h)
		if _, dup := m[key]; !dup {
			m[key] = i
		}
	}
	return m
}

func normalize(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
