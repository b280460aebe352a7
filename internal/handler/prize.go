package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/airowalk/airowalk-backend/internal/queue"
	"github.com/airowalk/airowalk-backend/internal/repository"
	queuepublisher "github.com/airowalk/airowalk-backend/internal/service"
	"github.com/airowalk/airowalk-backend/internal/utils"
)

// PrizeHandler bundles dependencies for the prize catalog and redemption.
type PrizeHandler struct {
	DB     *sql.DB
	Prizes *repository.PrizeRepo
	Users  *repository.UserRepo
}

func NewPrizeHandler(db *sql.DB, p *repository.PrizeRepo, u *repository.UserRepo) *PrizeHandler {
	return &PrizeHandler{DB: db, Prizes: p, Users: u}
}

type redeemReq struct {
	UserID  uint64 `json:"userId"`
	PrizeID uint64 `json:"prizeId"`
}

// ListPrizes returns active prizes that still have stock.
func (h *PrizeHandler) ListPrizes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ps, err := h.Prizes.ListAvailable(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list prizes failed")
	}
	return ok(c, http.StatusOK, echo.Map{"prizes": ps})
}

// Redeem exchanges points for a prize in a single transaction: a conditional
// points debit, a conditional stock decrement and the winners insert. Any
// step that affects zero rows rolls the whole exchange back, so concurrent
// redemptions can neither overspend a balance nor oversell the last unit.
func (h *PrizeHandler) Redeem(c echo.Context) error {
	var req redeemReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.UserID == 0 || req.PrizeID == 0 {
		return fail(c, http.StatusBadRequest, "userId and prizeId required")
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

	prize, err := h.Prizes.GetByID(ctx, req.PrizeID)
	if err == sql.ErrNoRows {
		return fail(c, http.StatusNotFound, "prize not found")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load prize failed")
	}

	coupon, err := utils.NewCouponCode()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "generate coupon failed")
	}
	now := time.Now().UTC()

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "begin tx failed")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Users.DebitPointsTx(ctx, tx, req.UserID, prize.PointsRequired); err != nil {
		if err == repository.ErrInsufficientPoints {
			return fail(c, http.StatusConflict, "not enough points")
		}
		return fail(c, http.StatusInternalServerError, "debit points failed")
	}
	if err := h.Prizes.DecrementStockTx(ctx, tx, req.PrizeID); err != nil {
		if err == repository.ErrOutOfStock {
			return fail(c, http.StatusConflict, "prize out of stock")
		}
		return fail(c, http.StatusInternalServerError, "decrement stock failed")
	}
	if err := h.Prizes.InsertWinnerTx(ctx, tx, req.UserID, req.PrizeID, coupon, now); err != nil {
		return fail(c, http.StatusInternalServerError, "record redemption failed")
	}
	if err := tx.Commit(); err != nil {
		return fail(c, http.StatusInternalServerError, "commit failed")
	}
	committed = true

	// Best effort: the redemption already stands, so a broker hiccup only
	// costs the log line.
	if err := queuepublisher.PublishPrizeRedeemed(ctx, queue.PrizeRedeemedEvent{
		UserID:      req.UserID,
		PrizeID:     req.PrizeID,
		PrizeName:   prize.Name,
		PointsSpent: prize.PointsRequired,
		CouponCode:  coupon,
		RedeemedAt:  now.Format(time.RFC3339),
	}); err != nil {
		log.Printf("redeem: publish event failed: %v", err)
	}

	return ok(c, http.StatusCreated, echo.Map{
		"coupon_code":     coupon,
		"prize_name":      prize.Name,
		"points_spent":    prize.PointsRequired,
		"redemption_date": now,
	})
}

// Redemptions returns a user's redemption history, newest first.
func (h *PrizeHandler) Redemptions(c echo.Context) error {
	id, okID := paramUint(c, "userId")
	if !okID {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rs, err := h.Prizes.ListRedemptionsByUser(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list redemptions failed")
	}
	return ok(c, http.StatusOK, echo.Map{"redemptions": rs})
}
