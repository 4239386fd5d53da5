// Package chart holds the data-only representation of the dashboard charts.
// Renderers consume these values; nothing here knows how to draw.
package chart

import (
	"math"
	"time"
)

// BarItem is one category of a bar chart.
type BarItem struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Text     string  `json:"text,omitempty"` // optional label drawn on the bar
}

// Bar is a single-series bar chart.
type Bar struct {
	Title  string    `json:"title"`
	XTitle string    `json:"x_title"`
	YTitle string    `json:"y_title"`
	Bars   []BarItem `json:"bars"`
}

// TimePoint is one sample of a time series.
type TimePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// TimeSeries is one trend line.
type TimeSeries struct {
	Name   string      `json:"name"`
	Title  string      `json:"title"`
	Points []TimePoint `json:"points"`
}

// PostChart is the grouped bar plus overlay line chart of one sector. The
// three value series are aligned with Posts; nil marks a missing value.
type PostChart struct {
	Sector         string     `json:"sector"`
	Title          string     `json:"title"`
	Date           time.Time  `json:"date"`
	Posts          []string   `json:"posts"`
	TankCapacity   []*float64 `json:"tank_capacity"`
	AvailableSpace []*float64 `json:"available_storage_space"`
	DaysOfSupply   []*float64 `json:"days_of_supply"`
}

// Value converts a possibly missing number for JSON output.
func Value(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
