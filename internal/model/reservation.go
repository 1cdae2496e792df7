package model

import "time"

// Reservation status enumeration.  ACTIVE is the only state from
// which a transition is permitted; CANCELLED and COMPLETED are
// terminal.
const (
    ReservationActive    = "ACTIVE"
    ReservationCancelled = "CANCELLED"
    ReservationCompleted = "COMPLETED"
)

// ValidReservationStatus reports whether s is a known reservation
// status value.
func ValidReservationStatus(s string) bool {
    switch s {
    case ReservationActive, ReservationCancelled, ReservationCompleted:
        return true
    }
    return false
}

// TerminalReservationStatus reports whether s is a terminal state.
// Reservations in a terminal state are immutable.
func TerminalReservationStatus(s string) bool {
    return s == ReservationCancelled || s == ReservationCompleted
}

// Overlaps reports whether the half-open windows [aStart, aEnd) and
// [bStart, bEnd) share at least one instant.  End times are excluded,
// so back-to-back windows do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
    return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Reservation records a user's time-bounded claim on a parking spot
// for a specific car.  Created exclusively through admission control;
// mutated only via lifecycle transitions out of ACTIVE.
//
// Fields:
//  ID            – primary key identifier.
//  StartTime     – start of the reserved window (UTC).
//  EndTime       – end of the reserved window (UTC, exclusive).
//  Status        – ACTIVE, CANCELLED or COMPLETED.
//  UserID        – user who made the reservation.
//  CarID         – car the reservation is for; must belong to UserID.
//  ParkingSpotID – spot being reserved.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Reservation struct {
    ID            uint64    // reservations.id
    StartTime     time.Time // reservations.start_time
    EndTime       time.Time // reservations.end_time
    Status        string    // reservations.status
    UserID        uint64    // reservations.user_id
    CarID         uint64    // reservations.car_id
    ParkingSpotID uint64    // reservations.parking_spot_id
    CreatedAt     time.Time // reservations.created_at
    UpdatedAt     time.Time // reservations.updated_at
}
