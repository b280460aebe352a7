package airquality

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		samples    []Sample
		wantStatus string
	}{
		{
			name:       "empty window defaults to good",
			samples:    nil,
			wantStatus: StatusGood,
		},
		{
			name: "low readings are good",
			samples: []Sample{
				{Timestamp: ts, O3: 10, NO2: 10, CO: 0.2},
				{Timestamp: ts.Add(time.Hour), O3: 20, NO2: 15, CO: 0.1},
			},
			wantStatus: StatusGood,
		},
		{
			name: "moderate o3 is acceptable",
			samples: []Sample{
				{Timestamp: ts, O3: 40, NO2: 10, CO: 0.2},
			},
			wantStatus: StatusAcceptable,
		},
		{
			name: "one spike dominates the window",
			samples: []Sample{
				{Timestamp: ts, O3: 10, NO2: 10, CO: 0.1},
				{Timestamp: ts.Add(time.Hour), O3: 70, NO2: 10, CO: 0.1},
			},
			wantStatus: StatusSpikes,
		},
		{
			name: "sustained high no2 is poor",
			samples: []Sample{
				{Timestamp: ts, O3: 10, NO2: 90, CO: 0.1},
			},
			wantStatus: StatusPoor,
		},
		{
			name: "co normalized by its own divisor",
			samples: []Sample{
				{Timestamp: ts, O3: 10, NO2: 10, CO: 1.8},
			},
			wantStatus: StatusPoor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, summary := Classify(tt.samples)
			if status != tt.wantStatus {
				t.Fatalf("Classify() status = %q, want %q", status, tt.wantStatus)
			}
			if summary == "" {
				t.Fatal("Classify() returned an empty summary")
			}
			if len(tt.samples) == 0 && summary != EmptyWindowSummary {
				t.Fatalf("empty window summary = %q, want %q", summary, EmptyWindowSummary)
			}
		})
	}
}

func TestIndex(t *testing.T) {
	s := Sample{O3: 50, NO2: 30, CO: 0.4}
	if got := Index(s); got != 0.5 {
		t.Fatalf("Index() = %v, want 0.5", got)
	}
	// CO at 1.2 normalizes to 0.6 and overtakes O3.
	s.CO = 1.2
	if got := Index(s); got != 0.6 {
		t.Fatalf("Index() = %v, want 0.6", got)
	}
}

func TestChartSeries(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC)
	samples := []Sample{
		{Timestamp: ts, O3: 10, NO2: 20, CO: 0.5},
		{Timestamp: ts.Add(30 * time.Minute), O3: 30, NO2: 40, CO: 0.1},
	}

	ch := ChartSeries(samples)

	if len(ch.Timestamps) != 2 || len(ch.Index) != 2 || len(ch.O3) != 2 || len(ch.NO2) != 2 || len(ch.CO) != 2 {
		t.Fatalf("series lengths differ: %+v", ch)
	}
	if ch.Timestamps[0] != "09:05" || ch.Timestamps[1] != "09:35" {
		t.Fatalf("timestamps = %v", ch.Timestamps)
	}
	if ch.O3[1] != 30 || ch.NO2[1] != 40 || ch.CO[1] != 0.1 {
		t.Fatalf("second point = o3 %v no2 %v co %v", ch.O3[1], ch.NO2[1], ch.CO[1])
	}
	if ch.Index[0] != 0.25 {
		t.Fatalf("index[0] = %v, want 0.25", ch.Index[0])
	}
}

func TestChartSeriesEmpty(t *testing.T) {
	ch := ChartSeries(nil)
	if len(ch.Timestamps) != 0 {
		t.Fatalf("expected empty chart, got %+v", ch)
	}
}
