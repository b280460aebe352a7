package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"
	"unicode"

	"github.com/labstack/echo/v4"

	"github.com/airowalk/airowalk-backend/internal/config"
	"github.com/airowalk/airowalk-backend/internal/queue"
	"github.com/airowalk/airowalk-backend/internal/repository"
	queuepublisher "github.com/airowalk/airowalk-backend/internal/service"
	"github.com/airowalk/airowalk-backend/internal/utils"
)

// walkerRole is the role every registered user starts with.
const walkerRole = "walker"

// AuthHandler bundles dependencies for registration, login and recovery.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Apps  *repository.ApplicationRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, a *repository.ApplicationRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Apps: a}
}

// ----- DTOs -----

type registerReq struct {
	Email string `json:"email"`
	// Direct-creation variant; when Username and Password are present the
	// application lookup is skipped.
	Username   string `json:"username"`
	Password   string `json:"password"`
	TownHallID uint64 `json:"townHallId"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type recoverReq struct {
	Email string `json:"email"`
}

// Register converts the most recent pending application for an email into a
// user account. The username is derived from the applicant's name, the
// initial password from their DNI, and the application row is consumed on
// success. Like recovery, the generated credentials travel over the message
// broker for the mailer service, never in the HTTP response.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return fail(c, http.StatusBadRequest, "email required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if req.Username != "" || req.Password != "" {
		return h.registerDirect(ctx, c, req)
	}

	app, err := h.Apps.LatestByEmail(ctx, req.Email)
	if err == sql.ErrNoRows {
		return fail(c, http.StatusNotFound, "no application found for this email")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load application failed")
	}

	roleID, err := h.Apps.RoleID(ctx, walkerRole)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "resolve role failed")
	}

	username := utils.DeriveUsername(app.FirstName, app.LastName)
	rawPassword := dniDigits(app.DNI)
	hash, err := utils.HashPassword(rawPassword, h.Cfg.BcryptCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "hash password failed")
	}

	uid, err := h.Users.Create(ctx, username, app.Email, hash, roleID, app.TownHallID)
	if err != nil {
		switch err {
		case repository.ErrUsernameExists:
			return fail(c, http.StatusConflict, "username already exists")
		case repository.ErrEmailExists:
			return fail(c, http.StatusConflict, "email already registered")
		}
		return fail(c, http.StatusInternalServerError, "create user failed")
	}

	// The application served its purpose; a leftover row only blocks future
	// applications, so a failed delete is logged but does not undo the account.
	if err := h.Apps.Delete(ctx, app.ID); err != nil {
		log.Printf("register: delete application %d failed: %v", app.ID, err)
	}

	if err := queuepublisher.PublishUserRegistered(ctx, queue.UserRegisteredEvent{
		UserID:   uid,
		Email:    app.Email,
		Username: username,
		Password: rawPassword,
	}); err != nil {
		log.Printf("register: publish event failed: %v", err)
	}

	return ok(c, http.StatusCreated, registrationPayload(uid, username))
}

// registrationPayload is the registration response body. It deliberately
// carries no password; generated credentials reach the user by mail.
func registrationPayload(uid uint64, username string) echo.Map {
	return echo.Map{"userId": uid, "username": username}
}

// registerDirect creates an account from explicit credentials instead of a
// pending application.
func (h *AuthHandler) registerDirect(ctx context.Context, c echo.Context, req registerReq) error {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || len(req.Password) < 6 {
		return fail(c, http.StatusBadRequest, "username and a password of at least 6 characters required")
	}
	if req.TownHallID == 0 {
		return fail(c, http.StatusBadRequest, "townHallId required")
	}

	roleID, err := h.Apps.RoleID(ctx, walkerRole)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "resolve role failed")
	}
	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "hash password failed")
	}

	uid, err := h.Users.Create(ctx, req.Username, req.Email, hash, roleID, req.TownHallID)
	if err != nil {
		switch err {
		case repository.ErrUsernameExists:
			return fail(c, http.StatusConflict, "username already exists")
		case repository.ErrEmailExists:
			return fail(c, http.StatusConflict, "email already registered")
		}
		return fail(c, http.StatusInternalServerError, "create user failed")
	}
	return ok(c, http.StatusCreated, registrationPayload(uid, req.Username))
}

// Login verifies credentials and issues a session token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "username/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err == sql.ErrNoRows {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load user failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, u.Username, h.Cfg.TokenTTLHour)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "issue token failed")
	}

	return ok(c, http.StatusOK, echo.Map{
		"token":   tok.Token,
		"expires": tok.Exp,
		"userId":  u.ID,
	})
}

// Recover resets an account to a temporary password. The response is
// identical whether the email exists or not, so the endpoint cannot be used
// to enumerate accounts. The temporary password itself travels over the
// message broker for the mailer service, never in the HTTP response.
func (h *AuthHandler) Recover(c echo.Context) error {
	var req recoverReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return fail(c, http.StatusBadRequest, "email required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	const msg = "if the account exists, a temporary password has been sent"

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err == sql.ErrNoRows {
		return ok(c, http.StatusOK, echo.Map{"message": msg})
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load user failed")
	}

	temp, err := utils.NewTempPassword()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "generate password failed")
	}
	hash, err := utils.HashPassword(temp, h.Cfg.BcryptCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "hash password failed")
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fail(c, http.StatusInternalServerError, "reset password failed")
	}

	if err := queuepublisher.PublishPasswordRecovered(ctx, queue.PasswordRecoveredEvent{
		UserID:       u.ID,
		Email:        u.Email,
		TempPassword: temp,
	}); err != nil {
		log.Printf("recover: publish event failed: %v", err)
	}

	return ok(c, http.StatusOK, echo.Map{"message": msg})
}

// dniDigits strips the trailing check letter from a Spanish DNI, leaving the
// digit block used as the initial password.
func dniDigits(dni string) string {
	dni = strings.TrimSpace(dni)
	for len(dni) > 0 && unicode.IsLetter(rune(dni[len(dni)-1])) {
		dni = dni[:len(dni)-1]
	}
	return dni
}
