// Package repository defines error values that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios. For example, ErrConflict signals that an operation
// cannot proceed due to existing dependent records (e.g. deleting a
// spot that still has active reservations), while the per-entity
// not-found sentinels map to HTTP 404 responses.
package repository

import "errors"

// ErrConflict is returned when a write cannot be performed because of
// conflicting state, such as reserving a spot that is not available,
// updating a reservation that already reached a terminal status, or
// deleting a lot with active sessions or reservations under it.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// Not-found sentinels for the entities this service manages.  Each is
// returned by the repository owning the entity when a point lookup or
// targeted update matches no row.
var (
    ErrLotNotFound         = errors.New("parking lot not found")
    ErrSpotNotFound        = errors.New("parking spot not found")
    ErrSpotTypeNotFound    = errors.New("spot type not found")
    ErrUserNotFound        = errors.New("user not found")
    ErrCarNotFound         = errors.New("car not found")
    ErrReservationNotFound = errors.New("reservation not found")
    ErrFeeNotFound         = errors.New("fee not found")
)
