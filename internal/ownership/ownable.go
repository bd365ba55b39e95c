package ownership

import (
	"context"
	"fmt"
)

// Ownable is the ownership state machine over a host-supplied Store and Sink.
//
// It has no state of its own beyond the two collaborators, holds no lock, and
// expects the host to execute Initialize, TransferOwnership and
// RenounceOwnership serially with respect to the Store.
type Ownable struct {
	store Store
	sink  Sink
}

// New creates an Ownable over the given store and sink.
func New(store Store, sink Sink) *Ownable {
	return &Ownable{store: store, sink: sink}
}

// Owner returns the current owner. No guard, no side effects — the owner is
// public information.
func (o *Ownable) Owner(ctx context.Context) (OwnerID, error) {
	return o.store.Owner(ctx)
}

// Initialize sets the first owner. It runs the transition unconditionally:
// no guard, no zero validation — callers of this trusted surface decide
// when (exactly once, during setup) and with what. The emitted Transfer
// carries whatever the store held before, normally ZeroOwner.
func (o *Ownable) Initialize(ctx context.Context, owner OwnerID) error {
	return o.transferOwnership(ctx, owner)
}

// TransferOwnership moves ownership from caller to newOwner.
//
// The new owner is validated before the guard runs, so a zero transfer
// target is rejected with ErrZeroNewOwner regardless of who asks. The store
// is not written until every check has passed.
func (o *Ownable) TransferOwnership(ctx context.Context, caller, newOwner OwnerID) error {
	if newOwner.IsZero() {
		return ErrZeroNewOwner
	}
	if err := o.assertOnlyOwner(ctx, caller); err != nil {
		return err
	}
	return o.transferOwnership(ctx, newOwner)
}

// RenounceOwnership permanently gives up ownership by transitioning to the
// zero owner. Irreversible from inside this component: once renounced the
// guard can never be satisfied again.
func (o *Ownable) RenounceOwnership(ctx context.Context, caller OwnerID) error {
	if err := o.assertOnlyOwner(ctx, caller); err != nil {
		return err
	}
	return o.transferOwnership(ctx, ZeroOwner)
}

// assertOnlyOwner is the guard run before every guarded mutation.
//
// The mismatch check runs before the zero-caller check; the two report
// different error kinds and tests assert on which one fires. The zero-caller
// check closes the renouncement hole: a renounced owner is zero, so a zero
// caller would otherwise pass the equality check.
func (o *Ownable) assertOnlyOwner(ctx context.Context, caller OwnerID) error {
	owner, err := o.store.Owner(ctx)
	if err != nil {
		return fmt.Errorf("reading current owner: %w", err)
	}
	if caller != owner {
		return ErrNotOwner
	}
	if caller.IsZero() {
		return ErrZeroCaller
	}
	return nil
}

// transferOwnership is the unguarded transition: read previous, write new,
// emit. All validation belongs to the calling operation — Initialize reuses
// this directly.
func (o *Ownable) transferOwnership(ctx context.Context, newOwner OwnerID) error {
	previous, err := o.store.Owner(ctx)
	if err != nil {
		return fmt.Errorf("reading previous owner: %w", err)
	}

	if err := o.store.SetOwner(ctx, newOwner); err != nil {
		return fmt.Errorf("writing new owner: %w", err)
	}

	if err := o.sink.OwnershipTransferred(ctx, Transfer{Previous: previous, New: newOwner}); err != nil {
		return fmt.Errorf("emitting ownership transfer: %w", err)
	}

	return nil
}
