package repository

import (
	"context"
	"database/sql"
	"time"
)

// Measurement mirrors the 'measurements' table. Coordinates are optional;
// indoor nodes report without them.
type Measurement struct {
	ID        uint64    `json:"id"`
	NodeID    uint64    `json:"node_id"`
	Timestamp time.Time `json:"timestamp"`
	CO        float64   `json:"co_value"`
	O3        float64   `json:"o3_value"`
	NO2       float64   `json:"no2_value"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
}

// NodeReading is the projection consumed by the anomaly classifier: one
// pollutant triple attributed to a node.
type NodeReading struct {
	NodeID uint64
	CO     float64
	O3     float64
	NO2    float64
}

type MeasurementRepo struct{ DB *sql.DB }

func NewMeasurementRepo(db *sql.DB) *MeasurementRepo { return &MeasurementRepo{DB: db} }

// NodeExists reports whether the node id is present.
func (r *MeasurementRepo) NodeExists(ctx context.Context, nodeID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM nodes WHERE id=? LIMIT 1", nodeID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert appends one measurement row.
func (r *MeasurementRepo) Insert(ctx context.Context, nodeID uint64, ts time.Time, co, o3, no2 float64, lat, lon *float64) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO measurements (node_id, timestamp, co_value, o3_value, no2_value, latitude, longitude)
		 VALUES (?,?,?,?,?,?,?)`,
		nodeID, ts, co, o3, no2, lat, lon)
	return err
}

func scanMeasurements(rows *sql.Rows) ([]Measurement, error) {
	out := make([]Measurement, 0)
	for rows.Next() {
		var m Measurement
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&m.ID, &m.NodeID, &m.Timestamp, &m.CO, &m.O3, &m.NO2, &lat, &lon); err != nil {
			return nil, err
		}
		if lat.Valid {
			m.Latitude = &lat.Float64
		}
		if lon.Valid {
			m.Longitude = &lon.Float64
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every stored measurement.
func (r *MeasurementRepo) ListAll(ctx context.Context) ([]Measurement, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,node_id,timestamp,co_value,o3_value,no2_value,latitude,longitude FROM measurements")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMeasurements(rows)
}

// ListWithCoordinates returns the measurements usable by the nearest-point
// lookup, i.e. the ones that carry both coordinates.
func (r *MeasurementRepo) ListWithCoordinates(ctx context.Context) ([]Measurement, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,node_id,timestamp,co_value,o3_value,no2_value,latitude,longitude
		 FROM measurements
		 WHERE latitude IS NOT NULL AND longitude IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMeasurements(rows)
}

// ListByNodeSince returns a node's measurements after the cutoff in
// ascending timestamp order, the shape the aggregation pipeline expects.
func (r *MeasurementRepo) ListByNodeSince(ctx context.Context, nodeID uint64, since time.Time) ([]Measurement, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,node_id,timestamp,co_value,o3_value,no2_value,latitude,longitude
		 FROM measurements
		 WHERE node_id = ? AND timestamp >= ?
		 ORDER BY timestamp ASC`,
		nodeID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMeasurements(rows)
}

// ListReadingsSince returns every node's pollutant readings after the
// cutoff, for the anomaly classifier.
func (r *MeasurementRepo) ListReadingsSince(ctx context.Context, since time.Time) ([]NodeReading, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT node_id, co_value, o3_value, no2_value FROM measurements WHERE timestamp >= ?",
		since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]NodeReading, 0)
	for rows.Next() {
		var nr NodeReading
		if err := rows.Scan(&nr.NodeID, &nr.CO, &nr.O3, &nr.NO2); err != nil {
			return nil, err
		}
		out = append(out, nr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
