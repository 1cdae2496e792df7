package model

import "time"

// Spot status enumeration.  The status column is the single source of
// truth for whether a spot can accept a new reservation: admission
// control only proceeds when the spot is currently AVAILABLE.
const (
    SpotAvailable   = "AVAILABLE"
    SpotOccupied    = "OCCUPIED"
    SpotReserved    = "RESERVED"
    SpotMaintenance = "MAINTENANCE"
)

// ValidSpotStatus reports whether s is a known spot status value.
func ValidSpotStatus(s string) bool {
    switch s {
    case SpotAvailable, SpotOccupied, SpotReserved, SpotMaintenance:
        return true
    }
    return false
}

// ParkingSpot describes a single parking space, the unit of
// reservation and occupancy.  Spot names are unique within their lot.
// Corresponds to a row in the `parking_spots` table.
//
// Fields:
//  ID           – primary key identifier.
//  SpotName     – name unique within the owning lot (e.g. "A1").
//  FloorLevel   – floor the spot is located on.
//  Status       – AVAILABLE, OCCUPIED, RESERVED or MAINTENANCE.
//  ParkingLotID – lot this spot belongs to.
//  SpotTypeID   – type of the spot.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type ParkingSpot struct {
    ID           uint64    // parking_spots.id
    SpotName     string    // parking_spots.spot_name
    FloorLevel   int       // parking_spots.floor_level
    Status       string    // parking_spots.status
    ParkingLotID uint64    // parking_spots.parking_lot_id
    SpotTypeID   uint64    // parking_spots.spot_type_id
    CreatedAt    time.Time // parking_spots.created_at
    UpdatedAt    time.Time // parking_spots.updated_at
}
