package repository

import (
	"context"
	"database/sql"
	"time"
)

// Node mirrors the 'nodes' table. UserID is nil while the node is
// unlinked.
type Node struct {
	ID               uint64
	Name             string
	UserID           *uint64
	Status           string
	LastStatusUpdate time.Time
}

// Node status values.
const (
	NodeActive   = "active"
	NodeInactive = "inactive"
)

// NodeReportRow is one line of the node report: the node joined with the
// username of its current owner, if any.
type NodeReportRow struct {
	ID               uint64    `json:"id"`
	Name             string    `json:"name"`
	Username         *string   `json:"username"`
	Status           string    `json:"status"`
	LastStatusUpdate time.Time `json:"lastStatusUpdate"`
}

type NodeRepo struct{ DB *sql.DB }

func NewNodeRepo(db *sql.DB) *NodeRepo { return &NodeRepo{DB: db} }

// GetByName fetches a node by its globally unique name.
func (r *NodeRepo) GetByName(ctx context.Context, name string) (Node, error) {
	var n Node
	var userID sql.NullInt64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,user_id,status,last_status_update FROM nodes WHERE name=? LIMIT 1",
		name).Scan(&n.ID, &n.Name, &userID, &n.Status, &n.LastStatusUpdate)
	if err != nil {
		return Node{}, err
	}
	if userID.Valid {
		uid := uint64(userID.Int64)
		n.UserID = &uid
	}
	return n, nil
}

// GetActiveByUser returns the user's currently linked node.
// sql.ErrNoRows when the user has none.
func (r *NodeRepo) GetActiveByUser(ctx context.Context, userID uint64) (Node, error) {
	var n Node
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,status,last_status_update FROM nodes WHERE user_id=? AND status=? LIMIT 1",
		userID, NodeActive).Scan(&n.ID, &n.Name, &n.Status, &n.LastStatusUpdate)
	if err != nil {
		return Node{}, err
	}
	n.UserID = &userID
	return n, nil
}

// Create inserts a new active node owned by the user.
func (r *NodeRepo) Create(ctx context.Context, userID uint64, name string, now time.Time) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO nodes (user_id, name, status, last_status_update) VALUES (?,?,?,?)",
		userID, name, NodeActive, now)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Reactivate binds an inactive node to a new owner and flips it active.
func (r *NodeRepo) Reactivate(ctx context.Context, nodeID, userID uint64, now time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE nodes SET user_id=?, status=?, last_status_update=? WHERE id=?",
		userID, NodeActive, now, nodeID)
	return err
}

// Unlink detaches the node from its owner and marks it inactive.
func (r *NodeRepo) Unlink(ctx context.Context, nodeID uint64, now time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE nodes SET user_id=NULL, status=?, last_status_update=? WHERE id=?",
		NodeInactive, now, nodeID)
	return err
}

// ListAll returns every node joined with its owner's username, if any.
func (r *NodeRepo) ListAll(ctx context.Context) ([]NodeReportRow, error) {
	const q = `SELECT n.id, n.name, u.username, n.status, n.last_status_update
	           FROM nodes n
	           LEFT JOIN users u ON u.id = n.user_id
	           ORDER BY n.id`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	report := make([]NodeReportRow, 0)
	for rows.Next() {
		var row NodeReportRow
		var username sql.NullString
		if err := rows.Scan(&row.ID, &row.Name, &username, &row.Status, &row.LastStatusUpdate); err != nil {
			return nil, err
		}
		if username.Valid {
			row.Username = &username.String
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return report, nil
}

// Reconcile realigns node status with measurement activity. Linked nodes
// with a measurement after activeSince become active; active nodes with no
// measurement after inactiveSince become inactive. Every flip stamps
// last_status_update. Only nodes with an owner are ever activated, so an
// unlinked node stays inactive regardless of traffic.
func (r *NodeRepo) Reconcile(ctx context.Context, activeSince, inactiveSince, now time.Time) error {
	const activate = `UPDATE nodes SET status=?, last_status_update=?
	                  WHERE status=? AND user_id IS NOT NULL
	                    AND id IN (SELECT DISTINCT node_id FROM measurements WHERE timestamp >= ?)`
	if _, err := r.DB.ExecContext(ctx, activate, NodeActive, now, NodeInactive, activeSince); err != nil {
		return err
	}
	const deactivate = `UPDATE nodes SET status=?, last_status_update=?
	                    WHERE status=? AND id NOT IN
	                      (SELECT DISTINCT node_id FROM measurements WHERE timestamp >= ?)`
	_, err := r.DB.ExecContext(ctx, deactivate, NodeInactive, now, NodeActive, inactiveSince)
	return err
}
