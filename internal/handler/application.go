package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/airowalk/airowalk-backend/internal/repository"
)

// ApplicationHandler bundles dependencies for the application flow and the
// town hall listing.
type ApplicationHandler struct {
	Apps      *repository.ApplicationRepo
	Users     *repository.UserRepo
	TownHalls *repository.TownHallRepo
}

func NewApplicationHandler(a *repository.ApplicationRepo, u *repository.UserRepo, t *repository.TownHallRepo) *ApplicationHandler {
	return &ApplicationHandler{Apps: a, Users: u, TownHalls: t}
}

type applyReq struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	DNI        string `json:"dni"`
	Phone      string `json:"phone"`
	TownHallID uint64 `json:"townHallId"`
}

// Apply stores a registration application. The account itself is created
// later through the register endpoint.
func (h *ApplicationHandler) Apply(c echo.Context) error {
	var req applyReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.DNI = strings.ToUpper(strings.TrimSpace(req.DNI))
	req.Phone = strings.TrimSpace(req.Phone)

	if req.FirstName == "" || req.LastName == "" || req.DNI == "" || req.Phone == "" {
		return fail(c, http.StatusBadRequest, "all fields are required")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return fail(c, http.StatusBadRequest, "invalid email")
	}
	if req.TownHallID == 0 {
		return fail(c, http.StatusBadRequest, "townHallId required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	_, err := h.Users.GetByEmail(ctx, req.Email)
	if err == nil {
		return fail(c, http.StatusConflict, "email already registered")
	}
	if err != sql.ErrNoRows {
		return fail(c, http.StatusInternalServerError, "load user failed")
	}

	id, err := h.Apps.Insert(ctx, repository.Application{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		DNI:        req.DNI,
		Phone:      req.Phone,
		TownHallID: req.TownHallID,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "insert application failed")
	}
	return ok(c, http.StatusCreated, echo.Map{"applicationId": id})
}

// DeleteApplication withdraws a pending application.
func (h *ApplicationHandler) DeleteApplication(c echo.Context) error {
	id, okID := paramUint(c, "id")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid application id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	err := h.Apps.Delete(ctx, id)
	if err == sql.ErrNoRows {
		return fail(c, http.StatusNotFound, "application not found")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "delete application failed")
	}
	return ok(c, http.StatusOK, echo.Map{"message": "application deleted"})
}

// ListTownHalls serves GET /getAyuntamientos.
func (h *ApplicationHandler) ListTownHalls(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ths, err := h.TownHalls.ListAll(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list town halls failed")
	}
	return ok(c, http.StatusOK, echo.Map{"townHalls": ths})
}
