package nodestatus

import (
	"testing"
	"time"
)

func TestIsStale(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		last time.Time
		want bool
	}{
		{"updated just now", now, false},
		{"updated 23h ago", now.Add(-23 * time.Hour), false},
		{"exactly at the window edge", now.Add(-InactivityWindow), false},
		{"one second past the window", now.Add(-InactivityWindow - time.Second), true},
		{"days old", now.Add(-72 * time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStale(tt.last, now); got != tt.want {
				t.Fatalf("IsStale() = %v, want %v", got, tt.want)
			}
		})
	}
}

// varied returns n readings for one node with distinct, plausible values on
// every pollutant.
func varied(nodeID uint64, n int) []Reading {
	rs := make([]Reading, n)
	for i := 0; i < n; i++ {
		rs[i] = Reading{
			NodeID: nodeID,
			CO:     0.5 + float64(i)*0.1,
			O3:     40 + float64(i),
			NO2:    30 + float64(i)*2,
		}
	}
	return rs
}

func TestErroneousNodes(t *testing.T) {
	tests := []struct {
		name     string
		readings []Reading
		want     map[uint64]bool
	}{
		{
			name:     "healthy node is not flagged",
			readings: varied(1, 6),
			want:     map[uint64]bool{},
		},
		{
			name:     "sparse data is never flagged",
			readings: []Reading{{NodeID: 1, CO: -5, O3: 40, NO2: 30}, {NodeID: 1, CO: -5, O3: 41, NO2: 31}, {NodeID: 1, CO: -5, O3: 42, NO2: 32}},
			want:     map[uint64]bool{},
		},
		{
			name: "implausible co reading",
			readings: append(varied(1, 4),
				Reading{NodeID: 1, CO: 60, O3: 40, NO2: 30}),
			want: map[uint64]bool{1: true},
		},
		{
			name: "negative no2 reading",
			readings: append(varied(1, 4),
				Reading{NodeID: 1, CO: 0.5, O3: 40, NO2: -1}),
			want: map[uint64]bool{1: true},
		},
		{
			name: "stuck co sensor",
			readings: []Reading{
				{NodeID: 1, CO: 1.0, O3: 40, NO2: 30},
				{NodeID: 1, CO: 1.0, O3: 41, NO2: 31},
				{NodeID: 1, CO: 1.0, O3: 42, NO2: 32},
				{NodeID: 1, CO: 1.0, O3: 43, NO2: 33},
			},
			want: map[uint64]bool{1: true},
		},
		{
			name: "excessive no2 spread",
			readings: append(varied(1, 4),
				Reading{NodeID: 1, CO: 0.5, O3: 40, NO2: 400}),
			want: map[uint64]bool{1: true},
		},
		{
			name: "only the broken node is flagged",
			readings: append(varied(2, 5),
				append(varied(3, 4),
					Reading{NodeID: 3, CO: 60, O3: 40, NO2: 30})...),
			want: map[uint64]bool{3: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErroneousNodes(tt.readings)
			if len(got) != len(tt.want) {
				t.Fatalf("ErroneousNodes() = %v, want %v", got, tt.want)
			}
			for id := range tt.want {
				if !got[id] {
					t.Fatalf("node %d not flagged; got %v", id, got)
				}
			}
		})
	}
}
