package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/airowalk/airowalk-backend/internal/nodestatus"
	"github.com/airowalk/airowalk-backend/internal/repository"
)

// Node report variants accepted by GET /informeNodos/:tipo.
const (
	reportAll       = "todos"
	reportInactive  = "inactivos"
	reportErroneous = "erroneos"
)

// NodeHandler bundles dependencies for node linking and the node reports.
type NodeHandler struct {
	Nodes        *repository.NodeRepo
	Users        *repository.UserRepo
	Measurements *repository.MeasurementRepo
}

func NewNodeHandler(n *repository.NodeRepo, u *repository.UserRepo, m *repository.MeasurementRepo) *NodeHandler {
	return &NodeHandler{Nodes: n, Users: u, Measurements: m}
}

type linkNodeReq struct {
	UserID   uint64 `json:"userId"`
	NodeName string `json:"nodeName"`
}

// LinkNode attaches a sensor node to a user. An unknown name creates the
// node, an inactive node is reactivated under the requester, and an active
// node cannot be claimed by anyone while it has an owner.
func (h *NodeHandler) LinkNode(c echo.Context) error {
	var req linkNodeReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.NodeName = strings.TrimSpace(req.NodeName)
	if req.UserID == 0 || req.NodeName == "" {
		return fail(c, http.StatusBadRequest, "userId and nodeName required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	exists, err := h.Users.Exists(ctx, req.UserID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load user failed")
	}
	if !exists {
		return fail(c, http.StatusNotFound, "user not found")
	}

	now := time.Now().UTC()

	n, err := h.Nodes.GetByName(ctx, req.NodeName)
	if err == sql.ErrNoRows {
		id, err := h.Nodes.Create(ctx, req.UserID, req.NodeName, now)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "create node failed")
		}
		return ok(c, http.StatusCreated, echo.Map{"nodeId": id, "message": "node linked"})
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load node failed")
	}

	if n.Status == repository.NodeActive {
		if n.UserID != nil && *n.UserID == req.UserID {
			return fail(c, http.StatusConflict, "node already linked to this user")
		}
		return fail(c, http.StatusConflict, "node already linked to another user")
	}

	if err := h.Nodes.Reactivate(ctx, n.ID, req.UserID, now); err != nil {
		return fail(c, http.StatusInternalServerError, "link node failed")
	}
	return ok(c, http.StatusOK, echo.Map{"nodeId": n.ID, "message": "node linked"})
}

// GetLinkedNode returns the user's currently linked node.
func (h *NodeHandler) GetLinkedNode(c echo.Context) error {
	id, okID := paramUint(c, "userId")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	n, err := h.Nodes.GetActiveByUser(ctx, id)
	if err == sql.ErrNoRows {
		return fail(c, http.StatusNotFound, "user has no linked node")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load node failed")
	}
	return ok(c, http.StatusOK, echo.Map{"node": echo.Map{
		"id":               n.ID,
		"name":             n.Name,
		"status":           n.Status,
		"lastStatusUpdate": n.LastStatusUpdate,
	}})
}

// UnlinkNode detaches the user's node, leaving it inactive and unowned.
func (h *NodeHandler) UnlinkNode(c echo.Context) error {
	id, okID := paramUint(c, "userId")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	n, err := h.Nodes.GetActiveByUser(ctx, id)
	if err == sql.ErrNoRows {
		return fail(c, http.StatusNotFound, "user has no linked node")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load node failed")
	}
	if err := h.Nodes.Unlink(ctx, n.ID, time.Now().UTC()); err != nil {
		return fail(c, http.StatusInternalServerError, "unlink node failed")
	}
	return ok(c, http.StatusOK, echo.Map{"message": "node unlinked"})
}

// NodeReport serves GET /informeNodos/:tipo. Node statuses are reconciled
// against recent measurement activity before the listing so the report
// reflects the fleet as it is now, not as of the last write.
func (h *NodeHandler) NodeReport(c echo.Context) error {
	tipo := c.Param("tipo")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	now := time.Now().UTC()
	activeSince := now.Add(-nodestatus.RecentActivityWindow)
	inactiveSince := now.Add(-nodestatus.InactivityWindow)
	if err := h.Nodes.Reconcile(ctx, activeSince, inactiveSince, now); err != nil {
		return fail(c, http.StatusInternalServerError, "reconcile nodes failed")
	}

	rows, err := h.Nodes.ListAll(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list nodes failed")
	}

	switch tipo {
	case reportAll:
		return ok(c, http.StatusOK, echo.Map{"nodes": rows})

	case reportInactive:
		out := make([]repository.NodeReportRow, 0)
		for _, r := range rows {
			if inInactiveReport(r, now) {
				out = append(out, r)
			}
		}
		return ok(c, http.StatusOK, echo.Map{"nodes": out})

	case reportErroneous:
		readings, err := h.Measurements.ListReadingsSince(ctx, now.Add(-nodestatus.AnomalyWindow))
		if err != nil {
			return fail(c, http.StatusInternalServerError, "list measurements failed")
		}
		rs := make([]nodestatus.Reading, len(readings))
		for i, m := range readings {
			rs[i] = nodestatus.Reading{NodeID: m.NodeID, CO: m.CO, O3: m.O3, NO2: m.NO2}
		}
		flagged := nodestatus.ErroneousNodes(rs)
		out := make([]repository.NodeReportRow, 0)
		for _, r := range rows {
			if flagged[r.ID] {
				out = append(out, r)
			}
		}
		return ok(c, http.StatusOK, echo.Map{"nodes": out})
	}
	return fail(c, http.StatusBadRequest, "unknown report type")
}

// inInactiveReport decides membership in the inactive view. Staleness alone
// is not enough: reconciliation stamps last_status_update when it flips a
// node inactive, and that fresh stamp must not hide the node from the very
// report that triggered the flip.
func inInactiveReport(r repository.NodeReportRow, now time.Time) bool {
	return r.Status == repository.NodeInactive || nodestatus.IsStale(r.LastStatusUpdate, now)
}
