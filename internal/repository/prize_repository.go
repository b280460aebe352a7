package repository

import (
	"context"
	"database/sql"
	"time"
)

// Prize mirrors the 'prizes' table.
type Prize struct {
	ID                uint64  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	PointsRequired    int64   `json:"points_required"`
	QuantityAvailable int64   `json:"quantity_available"`
	InitialQuantity   int64   `json:"initial_quantity"`
	Active            int64   `json:"active"`
	ImageURL          *string `json:"image_url,omitempty"`
}

// Redemption is one line of a user's redemption history: the winners row
// joined with prize display fields.
type Redemption struct {
	ID             uint64    `json:"id"`
	CouponCode     string    `json:"coupon_code"`
	RedemptionDate time.Time `json:"redemption_date"`
	PrizeName      string    `json:"prize_name"`
	Description    string    `json:"description"`
	PointsRequired int64     `json:"points_required"`
	ImageURL       *string   `json:"image_url,omitempty"`
}

type PrizeRepo struct{ DB *sql.DB }

func NewPrizeRepo(db *sql.DB) *PrizeRepo { return &PrizeRepo{DB: db} }

// ListAvailable returns active prizes that still have stock, cheapest
// first.
func (r *PrizeRepo) ListAvailable(ctx context.Context) ([]Prize, error) {
	const q = `SELECT id, name, description, points_required, quantity_available, initial_quantity, active, image_url
	           FROM prizes
	           WHERE active > 0 AND quantity_available > 0
	           ORDER BY points_required ASC`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Prize, 0)
	for rows.Next() {
		var p Prize
		var img sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PointsRequired,
			&p.QuantityAvailable, &p.InitialQuantity, &p.Active, &img); err != nil {
			return nil, err
		}
		if img.Valid {
			p.ImageURL = &img.String
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one prize. sql.ErrNoRows when absent.
func (r *PrizeRepo) GetByID(ctx context.Context, id uint64) (Prize, error) {
	var p Prize
	var img sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, description, points_required, quantity_available, initial_quantity, active, image_url
		 FROM prizes WHERE id=? LIMIT 1`,
		id).Scan(&p.ID, &p.Name, &p.Description, &p.PointsRequired,
		&p.QuantityAvailable, &p.InitialQuantity, &p.Active, &img)
	if err != nil {
		return Prize{}, err
	}
	if img.Valid {
		p.ImageURL = &img.String
	}
	return p, nil
}

// DecrementStockTx takes one unit of stock inside a transaction. The
// WHERE clause makes the decrement conditional so two concurrent
// redemptions can never oversell the last unit; ErrOutOfStock when no row
// matched.
func (r *PrizeRepo) DecrementStockTx(ctx context.Context, tx *sql.Tx, prizeID uint64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE prizes SET quantity_available=quantity_available-1 WHERE id=? AND active > 0 AND quantity_available > 0",
		prizeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOutOfStock
	}
	return nil
}

// InsertWinnerTx records the redemption inside the same transaction.
func (r *PrizeRepo) InsertWinnerTx(ctx context.Context, tx *sql.Tx, userID, prizeID uint64, couponCode string, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO winners (user_id, prize_id, coupon_code, redemption_date) VALUES (?,?,?,?)",
		userID, prizeID, couponCode, at)
	return err
}

// ListRedemptionsByUser returns the user's redemption history, newest
// first.
func (r *PrizeRepo) ListRedemptionsByUser(ctx context.Context, userID uint64) ([]Redemption, error) {
	const q = `SELECT w.id, w.coupon_code, w.redemption_date,
	                  p.name, p.description, p.points_required, p.image_url
	           FROM winners w
	           INNER JOIN prizes p ON p.id = w.prize_id
	           WHERE w.user_id = ?
	           ORDER BY w.redemption_date DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Redemption, 0)
	for rows.Next() {
		var rd Redemption
		var img sql.NullString
		if err := rows.Scan(&rd.ID, &rd.CouponCode, &rd.RedemptionDate,
			&rd.PrizeName, &rd.Description, &rd.PointsRequired, &img); err != nil {
			return nil, err
		}
		if img.Valid {
			rd.ImageURL = &img.String
		}
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
