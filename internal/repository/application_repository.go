package repository

import (
	"context"
	"database/sql"
	"strings"
)

// Application mirrors the 'applications' table: a pending registration
// request awaiting conversion into a user account.
type Application struct {
	ID         uint64
	FirstName  string
	LastName   string
	Email      string
	DNI        string
	Phone      string
	TownHallID uint64
}

type ApplicationRepo struct{ DB *sql.DB }

func NewApplicationRepo(db *sql.DB) *ApplicationRepo { return &ApplicationRepo{DB: db} }

// Insert stores a new application and returns its ID.
func (r *ApplicationRepo) Insert(ctx context.Context, a Application) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO applications (first_name, last_name, email, dni, phone, town_hall_id)
		 VALUES (?,?,?,?,?,?)`,
		a.FirstName, a.LastName, strings.ToLower(strings.TrimSpace(a.Email)), a.DNI, a.Phone, a.TownHallID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// LatestByEmail returns the most recent application for an email.
// sql.ErrNoRows when none exists.
func (r *ApplicationRepo) LatestByEmail(ctx context.Context, email string) (Application, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var a Application
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email, dni, phone, town_hall_id
		 FROM applications WHERE email=? ORDER BY id DESC LIMIT 1`,
		email).Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.DNI, &a.Phone, &a.TownHallID)
	return a, err
}

// Delete removes an application by id. sql.ErrNoRows when nothing matched.
func (r *ApplicationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM applications WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RoleID looks up a role id by name (the registration flow needs the
// default 'walker' role).
func (r *ApplicationRepo) RoleID(ctx context.Context, name string) (uint64, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM roles WHERE name=? LIMIT 1", name).Scan(&id)
	return id, err
}
