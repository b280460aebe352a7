package repository

import (
	"context"
	"database/sql"
)

// TownHall is the id+name pair shown in the registration form dropdown.
type TownHall struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type TownHallRepo struct{ DB *sql.DB }

func NewTownHallRepo(db *sql.DB) *TownHallRepo { return &TownHallRepo{DB: db} }

// ListAll returns every town hall ordered alphabetically.
func (r *TownHallRepo) ListAll(ctx context.Context) ([]TownHall, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name FROM town_halls ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TownHall, 0)
	for rows.Next() {
		var th TownHall
		if err := rows.Scan(&th.ID, &th.Name); err != nil {
			return nil, err
		}
		out = append(out, th)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
