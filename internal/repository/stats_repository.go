package repository

import (
	"context"
	"database/sql"
	"time"
)

// StatsRepo covers the append-only daily_stats ledger: one row per
// recorded activity session.
type StatsRepo struct{ DB *sql.DB }

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{DB: db} }

// Insert appends one activity session.
func (r *StatsRepo) Insert(ctx context.Context, userID uint64, ts time.Time, activeHours, distance float64, points int64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO daily_stats (user_id, timestamp, active_hours, distance, points) VALUES (?,?,?,?,?)",
		userID, ts, activeHours, distance, points)
	return err
}

// SumHoursSince totals active hours after the cutoff. COALESCE keeps an
// empty window at zero instead of NULL.
func (r *StatsRepo) SumHoursSince(ctx context.Context, userID uint64, since time.Time) (float64, error) {
	var total float64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(active_hours),0) FROM daily_stats WHERE user_id=? AND timestamp >= ?",
		userID, since).Scan(&total)
	return total, err
}

// SumDistanceSince totals distance after the cutoff.
func (r *StatsRepo) SumDistanceSince(ctx context.Context, userID uint64, since time.Time) (float64, error) {
	var total float64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(distance),0) FROM daily_stats WHERE user_id=? AND timestamp >= ?",
		userID, since).Scan(&total)
	return total, err
}

// SumPointsSince totals points after the cutoff.
func (r *StatsRepo) SumPointsSince(ctx context.Context, userID uint64, since time.Time) (int64, error) {
	var total int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(points),0) FROM daily_stats WHERE user_id=? AND timestamp >= ?",
		userID, since).Scan(&total)
	return total, err
}
