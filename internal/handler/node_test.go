package handler

import (
	"testing"
	"time"

	"github.com/airowalk/airowalk-backend/internal/repository"
)

func TestInInactiveReport(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		status string
		last   time.Time
		want   bool
	}{
		{
			// Reconciliation flips a node inactive and stamps it with the
			// current time. The node must still show up in the listing.
			name:   "freshly deactivated node is listed",
			status: repository.NodeInactive,
			last:   now,
			want:   true,
		},
		{
			name:   "stale active node is listed",
			status: repository.NodeActive,
			last:   now.Add(-25 * time.Hour),
			want:   true,
		},
		{
			name:   "fresh active node is not listed",
			status: repository.NodeActive,
			last:   now.Add(-1 * time.Hour),
			want:   false,
		},
		{
			name:   "long-inactive node is listed",
			status: repository.NodeInactive,
			last:   now.Add(-48 * time.Hour),
			want:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := repository.NodeReportRow{Status: tc.status, LastStatusUpdate: tc.last}
			if got := inInactiveReport(r, now); got != tc.want {
				t.Errorf("inInactiveReport(%s, last=%s) = %v, want %v", tc.status, tc.last, got, tc.want)
			}
		})
	}
}
