// Package ownership implements the single-authority access gate at the heart
// of Castellan Core.
//
// One owner identifier gates every privileged operation. Ownership can be
// transferred to a new non-zero identifier, or renounced permanently by
// transferring it to the zero identifier. The state machine has two logical
// states:
//   - Owned(id): the identifier id may perform guarded operations
//   - Renounced: the owner is the zero identifier; no guarded operation can
//     ever succeed again (the guard rejects zero callers explicitly)
//
// The package holds no lock and performs no I/O of its own. Storage and
// event delivery are supplied by the host through the Store and Sink
// interfaces, and caller identity is always an explicit parameter — the host
// resolves "who is calling" before it reaches this package. The host is also
// responsible for executing guarded operations serially; under that
// assumption every operation is a plain synchronous state transition over a
// single field.
//
// Check ordering is part of the contract and is covered by tests:
//   - transfer validates the new owner before running the guard
//   - the guard reports ErrNotOwner before ErrZeroCaller
package ownership
