package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/airowalk/airowalk-backend/internal/config"
	"github.com/airowalk/airowalk-backend/internal/repository"
	"github.com/airowalk/airowalk-backend/internal/utils"
)

// UserHandler bundles dependencies for profile, activity and points
// endpoints.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Stats *repository.StatsRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, s *repository.StatsRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Stats: s}
}

// ----- DTOs -----

type updateUserReq struct {
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	NewPassword     *string `json:"newPassword"`
	CurrentPassword string  `json:"currentPassword"`
}
type activityReq struct {
	UserID      uint64  `json:"userId"`
	ActiveHours float64 `json:"activeHours"`
	Distance    float64 `json:"distance"`
}
type dailyStatsReq struct {
	UserID      uint64  `json:"userId"`
	ActiveHours float64 `json:"activeHours"`
	Distance    float64 `json:"distance"`
	Points      int64   `json:"points"`
}
type addPointsReq struct {
	UserID uint64 `json:"userId"`
	Points int64  `json:"points"`
}

func paramUint(c echo.Context, name string) (uint64, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}

// GetUser returns the profile joined with town hall and role names.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, okID := paramUint(c, "userId")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	p, err := h.Users.GetProfile(ctx, id)
	if err == sql.ErrNoRows {
		return fail(c, http.StatusNotFound, "user not found")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load user failed")
	}
	return ok(c, http.StatusOK, echo.Map{"user": p})
}

// UpdateUser partially updates username, email and/or password. A password
// change requires the current password; every provided column is written
// through one parameterized dynamic SET list.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, okID := paramUint(c, "userId")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Username == nil && req.Email == nil && req.NewPassword == nil {
		return fail(c, http.StatusBadRequest, "nothing to update")
	}

	if req.Username != nil {
		v := strings.TrimSpace(*req.Username)
		if v == "" {
			return fail(c, http.StatusBadRequest, "username must not be empty")
		}
		req.Username = &v
	}
	if req.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*req.Email))
		if v == "" || !strings.Contains(v, "@") {
			return fail(c, http.StatusBadRequest, "invalid email")
		}
		req.Email = &v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	var newHash *string
	if req.NewPassword != nil {
		if len(*req.NewPassword) < 6 {
			return fail(c, http.StatusBadRequest, "password must be at least 6 characters")
		}
		if req.CurrentPassword == "" {
			return fail(c, http.StatusBadRequest, "current password required")
		}
		u, err := h.Users.GetByID(ctx, id)
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "user not found")
		}
		if err != nil {
			return fail(c, http.StatusInternalServerError, "load user failed")
		}
		if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
			return fail(c, http.StatusUnauthorized, "current password incorrect")
		}
		hash, err := utils.HashPassword(*req.NewPassword, h.Cfg.BcryptCost)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "hash password failed")
		}
		newHash = &hash
	}

	if err := h.Users.UpdateFields(ctx, id, req.Username, req.Email, newHash); err != nil {
		switch err {
		case sql.ErrNoRows:
			return fail(c, http.StatusNotFound, "user not found")
		case repository.ErrUsernameExists:
			return fail(c, http.StatusConflict, "username already exists")
		case repository.ErrEmailExists:
			return fail(c, http.StatusConflict, "email already registered")
		}
		return fail(c, http.StatusInternalServerError, "update user failed")
	}
	return ok(c, http.StatusOK, echo.Map{"message": "user updated"})
}

// UpdateActivity accumulates walking time and distance onto the user row and
// returns the new totals.
func (h *UserHandler) UpdateActivity(c echo.Context) error {
	var req activityReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.UserID == 0 {
		return fail(c, http.StatusBadRequest, "userId required")
	}
	if req.ActiveHours < 0 || req.Distance < 0 {
		return fail(c, http.StatusBadRequest, "activity values must not be negative")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	hours, distance, err := h.Users.AddActivity(ctx, req.UserID, req.ActiveHours, req.Distance)
	if err == sql.ErrNoRows {
		return fail(c, http.StatusNotFound, "user not found")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "update activity failed")
	}
	return ok(c, http.StatusOK, echo.Map{
		"active_hours":   hours,
		"total_distance": distance,
	})
}

// AddDailyStats appends one daily_stats row, stamped with the server clock.
func (h *UserHandler) AddDailyStats(c echo.Context) error {
	var req dailyStatsReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.UserID == 0 {
		return fail(c, http.StatusBadRequest, "userId required")
	}
	if req.ActiveHours < 0 || req.Distance < 0 || req.Points < 0 {
		return fail(c, http.StatusBadRequest, "stats values must not be negative")
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
	if err := h.Stats.Insert(ctx, req.UserID, time.Now().UTC(), req.ActiveHours, req.Distance, req.Points); err != nil {
		return fail(c, http.StatusInternalServerError, "insert stats failed")
	}
	return ok(c, http.StatusCreated, echo.Map{"message": "stats recorded"})
}

// GetPoints returns the user's current points balance.
func (h *UserHandler) GetPoints(c echo.Context) error {
	id, okID := paramUint(c, "userId")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	points, err := h.Users.GetPoints(ctx, id)
	if err == sql.ErrNoRows {
		return fail(c, http.StatusNotFound, "user not found")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load points failed")
	}
	return ok(c, http.StatusOK, echo.Map{"points": points})
}

// AddPoints awards points and returns the new balance.
func (h *UserHandler) AddPoints(c echo.Context) error {
	var req addPointsReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.UserID == 0 {
		return fail(c, http.StatusBadRequest, "userId required")
	}
	if req.Points < 0 {
		return fail(c, http.StatusBadRequest, "points must not be negative")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	total, err := h.Users.AddPoints(ctx, req.UserID, req.Points)
	if err == sql.ErrNoRows {
		return fail(c, http.StatusNotFound, "user not found")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "add points failed")
	}
	return ok(c, http.StatusOK, echo.Map{"points": total})
}
