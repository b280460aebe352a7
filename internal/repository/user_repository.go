package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// User mirrors the 'users' table.
type User struct {
	ID            uint64
	Username      string
	Email         string
	PasswordHash  string
	RoleID        uint64
	Points        int64
	ActiveHours   float64
	TotalDistance float64
	TownHallID    uint64
	PhotoURL      *string
}

// Profile is the joined view returned to clients: the user's own columns
// plus the town hall and role display fields.
type Profile struct {
	ID            uint64  `json:"id"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	Points        int64   `json:"points"`
	ActiveHours   float64 `json:"active_hours"`
	TotalDistance float64 `json:"total_distance"`
	PhotoURL      *string `json:"photo_url"`
	TownHallName  *string `json:"town_hall_name"`
	Province      *string `json:"province"`
	Role          *string `json:"role"`
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var (
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
)

// dupKeyError maps a MySQL 1062 duplicate-key error onto the matching
// sentinel based on which unique index it names.
func dupKeyError(err error) error {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") {
		return nil
	}
	switch {
	case strings.Contains(msg, "username"):
		return ErrUsernameExists
	case strings.Contains(msg, "email"):
		return ErrEmailExists
	default:
		return ErrConflict
	}
}

// Create inserts a user with zeroed accumulators and returns its ID.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string, roleID, townHallID uint64) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, role_id, points, active_hours, total_distance, town_hall_id)
		 VALUES (?,?,?,?,0,0,0,?)`,
		username, email, passwordHash, roleID, townHallID)
	if err != nil {
		if dup := dupKeyError(err); dup != nil {
			return 0, dup
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches the columns needed for authentication.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,points FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Points)
	return u, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,points FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Points)
	return u, err
}

// GetByID fetches the authentication columns by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,points FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Points)
	return u, err
}

// Exists reports whether the user id is present.
func (r *UserRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetProfile returns the joined profile view. sql.ErrNoRows when absent.
func (r *UserRepo) GetProfile(ctx context.Context, id uint64) (Profile, error) {
	const q = `SELECT u.id, u.username, u.email, u.points, u.active_hours, u.total_distance, u.photo_url,
	                  th.name, th.province, ro.name
	           FROM users u
	           LEFT JOIN town_halls th ON th.id = u.town_hall_id
	           LEFT JOIN roles ro ON ro.id = u.role_id
	           WHERE u.id = ?`
	var p Profile
	var photo, thName, province, role sql.NullString
	err := r.DB.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.Username, &p.Email, &p.Points, &p.ActiveHours, &p.TotalDistance,
		&photo, &thName, &province, &role,
	)
	if err != nil {
		return Profile{}, err
	}
	if photo.Valid {
		p.PhotoURL = &photo.String
	}
	if thName.Valid {
		p.TownHallName = &thName.String
	}
	if province.Valid {
		p.Province = &province.String
	}
	if role.Valid {
		p.Role = &role.String
	}
	return p, nil
}

// UpdateFields applies a partial profile update. Nil pointers leave the
// column untouched. The SET list is assembled from fixed column fragments
// with placeholder values only; no user input is ever interpolated.
func (r *UserRepo) UpdateFields(ctx context.Context, id uint64, username, email, passwordHash *string) error {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if username != nil {
		sets = append(sets, "username=?")
		args = append(args, *username)
	}
	if email != nil {
		sets = append(sets, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(*email)))
	}
	if passwordHash != nil {
		sets = append(sets, "password_hash=?")
		args = append(args, *passwordHash)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		if dup := dupKeyError(err); dup != nil {
			return dup
		}
		return err
	}
	return nil
}

// UpdatePassword replaces the stored hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", passwordHash, id)
	return err
}

// AddActivity accumulates walking time and distance on the user row and
// returns the new totals.
func (r *UserRepo) AddActivity(ctx context.Context, id uint64, hours, distance float64) (newHours, newDistance float64, err error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET active_hours=active_hours+?, total_distance=total_distance+? WHERE id=?",
		hours, distance, id)
	if err != nil {
		return 0, 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, 0, err
	}
	if n == 0 {
		return 0, 0, sql.ErrNoRows
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT active_hours, total_distance FROM users WHERE id=?", id).
		Scan(&newHours, &newDistance)
	return newHours, newDistance, err
}

// GetPoints returns the user's accumulated points. sql.ErrNoRows when the
// user does not exist.
func (r *UserRepo) GetPoints(ctx context.Context, id uint64) (int64, error) {
	var points int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT points FROM users WHERE id=? LIMIT 1", id).Scan(&points)
	return points, err
}

// AddPoints awards points and returns the new balance.
func (r *UserRepo) AddPoints(ctx context.Context, id uint64, points int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET points=points+? WHERE id=?", points, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, sql.ErrNoRows
	}
	var total int64
	err = r.DB.QueryRowContext(ctx,
		"SELECT points FROM users WHERE id=?", id).Scan(&total)
	return total, err
}

// DebitPointsTx subtracts points inside a transaction, but only when the
// balance covers the amount. ErrInsufficientPoints when the conditional
// update matches no row, which keeps the balance non-negative under
// concurrent redemptions.
func (r *UserRepo) DebitPointsTx(ctx context.Context, tx *sql.Tx, id uint64, amount int64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE users SET points=points-? WHERE id=? AND points >= ?",
		amount, id, amount)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientPoints
	}
	return nil
}
