// Package nodestatus classifies sensor nodes from their recent measurement
// history: staleness (inactive nodes) and anomaly detection (erroneous
// nodes).  The rules run over rows already fetched from the database.
package nodestatus

import "time"

// Window and threshold constants for the node reports.
const (
	// InactivityWindow is how long a node may go without a status update
	// before the inactive report lists it.
	InactivityWindow = 24 * time.Hour

	// RecentActivityWindow is how fresh a measurement must be for
	// reconciliation to flip a node back to active.
	RecentActivityWindow = time.Hour

	// AnomalyWindow is the trailing interval inspected for erroneous
	// readings.
	AnomalyWindow = 24 * time.Hour

	// MinSamples is the minimum number of readings a node needs inside the
	// anomaly window before it can be flagged at all.  Sparse data is never
	// flagged.
	MinSamples = 4

	// StuckDistinctMax: a pollutant with this many distinct values or fewer
	// across the window indicates a stuck sensor.
	StuckDistinctMax = 2
)

// Plausibility bands per pollutant.  Readings outside these are physically
// impossible for the deployed hardware.
const (
	COMin, COMax   = 0.0, 50.0
	O3Min, O3Max   = 0.0, 500.0
	NO2Min, NO2Max = 0.0, 500.0
)

// Maximum plausible max-minus-min spread per pollutant across the window.
const (
	COSpreadMax  = 100.0
	O3SpreadMax  = 500.0
	NO2SpreadMax = 300.0
)

// Reading is one measurement attributed to a node.
type Reading struct {
	NodeID uint64
	CO     float64
	O3     float64
	NO2    float64
}

// IsStale reports whether a node whose status was last updated at `last`
// should appear in the inactive report as of `now`.
func IsStale(last, now time.Time) bool {
	return now.Sub(last) > InactivityWindow
}

// ErroneousNodes returns the set of node IDs whose readings inside the
// anomaly window look wrong.  A node qualifies when it has at least
// MinSamples readings and any of the following holds:
//   - a single reading falls outside its plausibility band,
//   - any pollutant shows StuckDistinctMax or fewer distinct values,
//   - any pollutant's max-min spread exceeds its calibrated maximum.
func ErroneousNodes(readings []Reading) map[uint64]bool {
	byNode := make(map[uint64][]Reading)
	for _, r := range readings {
		byNode[r.NodeID] = append(byNode[r.NodeID], r)
	}

	flagged := make(map[uint64]bool)
	for id, rs := range byNode {
		if len(rs) < MinSamples {
			continue
		}
		if hasImplausibleReading(rs) || hasStuckPollutant(rs) || hasExcessiveSpread(rs) {
			flagged[id] = true
		}
	}
	return flagged
}

func hasImplausibleReading(rs []Reading) bool {
	for _, r := range rs {
		if r.CO < COMin || r.CO > COMax ||
			r.O3 < O3Min || r.O3 > O3Max ||
			r.NO2 < NO2Min || r.NO2 > NO2Max {
			return true
		}
	}
	return false
}

func hasStuckPollutant(rs []Reading) bool {
	co := make(map[float64]struct{})
	o3 := make(map[float64]struct{})
	no2 := make(map[float64]struct{})
	for _, r := range rs {
		co[r.CO] = struct{}{}
		o3[r.O3] = struct{}{}
		no2[r.NO2] = struct{}{}
	}
	return len(co) <= StuckDistinctMax || len(o3) <= StuckDistinctMax || len(no2) <= StuckDistinctMax
}

func hasExcessiveSpread(rs []Reading) bool {
	coMin, coMax := rs[0].CO, rs[0].CO
	o3Min, o3Max := rs[0].O3, rs[0].O3
	no2Min, no2Max := rs[0].NO2, rs[0].NO2
	for _, r := range rs[1:] {
		coMin, coMax = minMax(coMin, coMax, r.CO)
		o3Min, o3Max = minMax(o3Min, o3Max, r.O3)
		no2Min, no2Max = minMax(no2Min, no2Max, r.NO2)
	}
	return coMax-coMin > COSpreadMax || o3Max-o3Min > O3SpreadMax || no2Max-no2Min > NO2SpreadMax
}

func minMax(lo, hi, v float64) (float64, float64) {
	if v < lo {
		lo = v
	}
	if v > hi {
		hi = v
	}
	return lo, hi
}
