package model

// Car is a vehicle that can be parked or reserved for.  Cars are
// shared: ownership is a many-to-many relation stored in the
// `user_cars` join table, so a car may belong to several users and a
// user may own several cars.
//
// Fields:
//  ID           – primary key identifier.
//  LicensePlate – unique plate string.
//  Model        – vehicle model.
//  Color        – optional color.
type Car struct {
    ID           uint64  // cars.id
    LicensePlate string  // cars.license_plate
    Model        string  // cars.model
    Color        *string // cars.color (nullable)
}
