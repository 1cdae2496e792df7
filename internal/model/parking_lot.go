package model

import "time"

// ParkingLot represents a parking facility that owns a set of spots.
// This struct corresponds to a row in the `parking_lots` table.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – display name of the lot.
//  Address        – street address of the lot.
//  Description    – optional free-form description.
//  OperatingHours – optional human-readable opening hours.
//  Latitude       – optional geographic latitude.
//  Longitude      – optional geographic longitude.
//  CreatedAt      – timestamp when the lot was created.
//  UpdatedAt      – timestamp of last update.
type ParkingLot struct {
    ID             uint64     // parking_lots.id
    Name           string     // parking_lots.name
    Address        string     // parking_lots.address
    Description    *string    // parking_lots.description (nullable)
    OperatingHours *string    // parking_lots.operating_hours (nullable)
    Latitude       *float64   // parking_lots.latitude (nullable)
    Longitude      *float64   // parking_lots.longitude (nullable)
    CreatedAt      time.Time  // parking_lots.created_at
    UpdatedAt      time.Time  // parking_lots.updated_at
}
