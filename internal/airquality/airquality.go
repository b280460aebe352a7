// Package airquality holds the pure classification and charting logic for
// sensor measurements.  It operates on rows already fetched from the
// database so it can be exercised without one.
package airquality

import "time"

// Normalization divisors for the composite pollution index.  A reading at
// the divisor value contributes 1.0 to the index.
const (
	O3Divisor  = 100.0
	NO2Divisor = 100.0
	CODivisor  = 2.0
)

// Band thresholds on the maximum normalized index observed in the window.
const (
	GoodBelow       = 0.3
	AcceptableBelow = 0.5
	SpikesBelow     = 0.8
)

// Status values returned to clients.  The wire values are the Spanish
// labels the mobile app expects.
const (
	StatusGood       = "buena"
	StatusAcceptable = "regular"
	StatusSpikes     = "picos"
	StatusPoor       = "mala"
)

// EmptyWindowSummary is returned when the node produced no measurements in
// the rolling window; the absence of data is treated as good air.
const EmptyWindowSummary = "No hay mediciones recientes; asumimos que la calidad del aire ha sido buena."

// Sample is one measurement row from a node.
type Sample struct {
	Timestamp time.Time
	O3        float64
	NO2       float64
	CO        float64
}

// Index computes the dimensionless pollution index of a single sample: the
// worst pollutant after normalization.
func Index(s Sample) float64 {
	idx := s.O3 / O3Divisor
	if v := s.NO2 / NO2Divisor; v > idx {
		idx = v
	}
	if v := s.CO / CODivisor; v > idx {
		idx = v
	}
	return idx
}

// Classify maps a measurement window onto one of the four severity bands
// using the maximum index across the window, and returns the band together
// with its canned summary text.  An empty window classifies as good.
func Classify(samples []Sample) (status, summary string) {
	if len(samples) == 0 {
		return StatusGood, EmptyWindowSummary
	}
	maxIndex := 0.0
	for _, s := range samples {
		if idx := Index(s); idx > maxIndex {
			maxIndex = idx
		}
	}
	switch {
	case maxIndex < GoodBelow:
		return StatusGood, "La calidad del aire ha sido buena."
	case maxIndex < AcceptableBelow:
		return StatusAcceptable, "La calidad del aire ha sido aceptable."
	case maxIndex < SpikesBelow:
		return StatusSpikes, "Se han detectado varios picos de contaminación."
	default:
		return StatusPoor, "La calidad del aire ha sido mala."
	}
}

// Chart carries the parallel series plotted by the client.  All slices have
// the same length and follow the sample order (ascending timestamp when the
// caller queried them that way).
type Chart struct {
	Timestamps []string  `json:"timestamps"`
	Index      []float64 `json:"index"`
	O3         []float64 `json:"o3"`
	NO2        []float64 `json:"no2"`
	CO         []float64 `json:"co"`
}

// ChartSeries projects samples into the chart structure, labelling each
// point with its hour and minute.
func ChartSeries(samples []Sample) Chart {
	ch := Chart{
		Timestamps: make([]string, 0, len(samples)),
		Index:      make([]float64, 0, len(samples)),
		O3:         make([]float64, 0, len(samples)),
		NO2:        make([]float64, 0, len(samples)),
		CO:         make([]float64, 0, len(samples)),
	}
	for _, s := range samples {
		ch.Timestamps = append(ch.Timestamps, s.Timestamp.Format("15:04"))
		ch.Index = append(ch.Index, Index(s))
		ch.O3 = append(ch.O3, s.O3)
		ch.NO2 = append(ch.NO2, s.NO2)
		ch.CO = append(ch.CO, s.CO)
	}
	return ch
}
