package ownership

import (
	"context"
	"errors"
)

// OwnerID is an opaque, comparable identifier for an authority. The empty
// string is the zero sentinel meaning "no one" — never a valid owner in an
// owned state and never a valid transfer target.
type OwnerID string

// ZeroOwner is the distinguished "no owner" sentinel.
const ZeroOwner OwnerID = ""

// IsZero reports whether the identifier is the zero sentinel.
func (id OwnerID) IsZero() bool {
	return id == ZeroOwner
}

// Transfer is the notification record emitted once per successful ownership
// transition, including initialization and renouncement. It is produced and
// handed to the Sink; it is not persisted by this package.
type Transfer struct {
	Previous OwnerID `json:"previous_owner"`
	New      OwnerID `json:"new_owner"`
}

// Store is the persistent cell holding the current owner. The host supplies
// an implementation; its lifetime equals the host's storage lifetime.
type Store interface {
	// Owner returns the current owner, or ZeroOwner if ownership has been
	// renounced or never initialized.
	Owner(ctx context.Context) (OwnerID, error)

	// SetOwner replaces the current owner. Called only by this package's
	// transition logic.
	SetOwner(ctx context.Context, owner OwnerID) error
}

// Sink receives Transfer notifications in call order.
type Sink interface {
	OwnershipTransferred(ctx context.Context, t Transfer) error
}

// Sentinel errors for guarded operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotOwner is returned when the caller does not match the current owner.
	ErrNotOwner = errors.New("ownership: caller is not the owner")

	// ErrZeroCaller is returned when the caller is the zero identifier. This
	// fires even when the current owner is also zero (post-renouncement), so
	// an unauthenticated zero caller can never match a renounced owner.
	ErrZeroCaller = errors.New("ownership: caller is the zero identifier")

	// ErrZeroNewOwner is returned when a transfer names the zero identifier
	// as the new owner. Renouncing is an explicit separate operation.
	ErrZeroNewOwner = errors.New("ownership: new owner is the zero identifier")
)
