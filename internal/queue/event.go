// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when admission control accepts
// a reservation. It contains enough information for downstream consumers
// to log, notify, or trigger analytics without querying the primary
// database.
type ReservationConfirmedEvent struct {
    ReservationID uint64 `json:"reservation_id"`
    UserID        uint64 `json:"user_id"`
    UserName      string `json:"user_name"`
    CarID         uint64 `json:"car_id"`
    LicensePlate  string `json:"license_plate"`
    ParkingSpotID uint64 `json:"parking_spot_id"`
    SpotName      string `json:"spot_name"`
    StartTime     string `json:"start_time"`
    EndTime       string `json:"end_time"`
    ConfirmedAt   string `json:"confirmed_at"`
}
