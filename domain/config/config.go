package config

import "fmt"

// TrailingMetric selects how the trailing window consumption tile is
// reported.
type TrailingMetric string

const (
	TrailingMean TrailingMetric = "mean"
	TrailingSum  TrailingMetric = "sum"
)

// Pipeline is the parameter bundle of one recomputation pass. It is passed
// in explicitly; nothing in the pipeline reads ambient state.
type Pipeline struct {
	ApplyWeekdayFilter bool           `yaml:"apply_weekday_filter" json:"apply_weekday_filter"`
	TrailingWindowDays int            `yaml:"trailing_window_days" json:"trailing_window_days"`
	TrailingMetric     TrailingMetric `yaml:"trailing_metric" json:"trailing_metric"`
}

// DefaultPipeline keeps weekdays only, with a five day window and a summed
// trailing consumption. The weekday filter can be turned off per run.
func DefaultPipeline() Pipeline {
	return Pipeline{
		ApplyWeekdayFilter: true,
		TrailingWindowDays: 5,
		TrailingMetric:     TrailingSum,
	}
}

// Validate checks the bundle for values the pipeline cannot honour.
func (p Pipeline) Validate() error {
	if p.TrailingWindowDays <= 0 {
		return fmt.Errorf("trailing_window_days must be positive, got %d", p.TrailingWindowDays)
	}
	switch p.TrailingMetric {
	case TrailingMean, TrailingSum:
	default:
		return fmt.Errorf("trailing_metric must be %q or %q, got %q", TrailingMean, TrailingSum, p.TrailingMetric)
	}
	return nil
}
