package model

import "time"

// Payment status enumeration for parking sessions.
const (
    PaymentUnpaid  = "UNPAID"
    PaymentPaid    = "PAID"
    PaymentPending = "PENDING"
    PaymentFailed  = "FAILED"
)

// ParkingSession tracks actual occupancy of a spot.  A session with a
// nil EndTime is open: the car is still on the spot.  Session and
// payment business logic lives elsewhere; this service only consults
// open sessions to guard spot deletions and the transition back to
// AVAILABLE.
//
// Fields:
//  ID            – primary key identifier.
//  StartTime     – when the car entered the spot.
//  EndTime       – when the car left (nil while the session is open).
//  FinalCost     – computed cost once the session closes.
//  PaymentStatus – UNPAID, PAID, PENDING or FAILED.
//  UserID        – user occupying the spot.
//  CarID         – car occupying the spot.
//  ParkingSpotID – spot being occupied.
//  ReservationID – reservation the session fulfils, if any.
type ParkingSession struct {
    ID            uint64     // parking_sessions.id
    StartTime     time.Time  // parking_sessions.start_time
    EndTime       *time.Time // parking_sessions.end_time (nullable)
    FinalCost     *float64   // parking_sessions.final_cost (nullable)
    PaymentStatus string     // parking_sessions.payment_status
    UserID        uint64     // parking_sessions.user_id
    CarID         uint64     // parking_sessions.car_id
    ParkingSpotID uint64     // parking_sessions.parking_spot_id
    ReservationID *uint64    // parking_sessions.reservation_id (nullable)
}
