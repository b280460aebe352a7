// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrConflict signals that an operation cannot proceed due to
// conflicting state (a node already linked by another user, a duplicate
// unique key), while ErrInsufficientPoints and ErrOutOfStock report the
// two ways a prize redemption can be refused atomically.
package repository

import "errors"

// ErrConflict is returned when an insert or update cannot be performed
// because of conflicting state, such as linking a node that is already
// active under another user. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrInsufficientPoints is returned by the redemption transaction when the
// conditional points debit matches no row, i.e. the user's balance is
// below the prize cost.
var ErrInsufficientPoints = errors.New("insufficient points")

// ErrOutOfStock is returned by the redemption transaction when the
// conditional stock decrement matches no row, i.e. the prize is inactive
// or its quantity_available already reached zero.
var ErrOutOfStock = errors.New("prize out of stock")
