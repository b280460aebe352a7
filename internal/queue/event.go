// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names. Each event type is published to its own durable queue.
const (
	PrizeRedeemedQueue     = "prize.redeemed"
	PasswordRecoveredQueue = "user.recovered"
	UserRegisteredQueue    = "user.registered"
)

// PrizeRedeemedEvent is published after a redemption transaction commits.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type PrizeRedeemedEvent struct {
	UserID      uint64 `json:"user_id"`
	PrizeID     uint64 `json:"prize_id"`
	PrizeName   string `json:"prize_name"`
	PointsSpent int64  `json:"points_spent"`
	CouponCode  string `json:"coupon_code"`
	RedeemedAt  string `json:"redeemed_at"`
}

// PasswordRecoveredEvent is published when an account is reset to a
// temporary password. The mailer service consumes it and delivers the
// password out of band; it never appears in an HTTP response.
type PasswordRecoveredEvent struct {
	UserID       uint64 `json:"user_id"`
	Email        string `json:"email"`
	TempPassword string `json:"temp_password"`
}

// UserRegisteredEvent is published when an account is created from an
// approved application. Like password recovery, the mailer consumes it and
// delivers the generated credentials out of band; they never appear in an
// HTTP response.
type UserRegisteredEvent struct {
	UserID   uint64 `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}
