package config

import "testing"

func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	p := DefaultPipeline()
	if !p.ApplyWeekdayFilter || p.TrailingWindowDays != 5 || p.TrailingMetric != TrailingSum {
		t.Fatalf("DefaultPipeline() = %+v", p)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("default pipeline invalid: %v", err)
	}
}

func TestPipelineValidate(t *testing.T) {
	t.Parallel()

	cases := map[string]Pipeline{
		"zero window":     {TrailingWindowDays: 0, TrailingMetric: TrailingSum},
		"negative window": {TrailingWindowDays: -1, TrailingMetric: TrailingMean},
		"unknown metric":  {TrailingWindowDays: 5, TrailingMetric: "median"},
	}
	for name, p := range cases {
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if err := (Pipeline{TrailingWindowDays: 7, TrailingMetric: TrailingMean}).Validate(); err != nil {
		t.Errorf("weekends and mean: %v", err)
	}
}
