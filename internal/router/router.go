package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/iliyamo/parking-reservation/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers routes that do not belong to a specific
// resource on the provided Echo instance.  Currently it exposes only a
// health check.
func RegisterRoutes(e *echo.Echo) {
    // Map the GET request at path "/healthz" to the Health handler.  This
    // endpoint can be used by load balancers or monitoring systems to verify
    // that the service is up and running.
    e.GET("/healthz", handler.Health)
}

// RegisterParking registers the parking-lot, parking-spot and spot-type
// routes.  Lots own their spots, so spot listing and creation are
// nested under the lot resource while individual spots are addressed
// directly.
func RegisterParking(e *echo.Echo, lots *handler.LotHandler, spots *handler.SpotHandler, fees *handler.FeeHandler) {
    g := e.Group("/v1")

    // Parking lots with aggregated spot counts.
    g.GET("/lots", lots.ListLots)
    g.POST("/lots", lots.CreateLot)
    g.GET("/lots/:id", lots.GetLot)
    g.PUT("/lots/:id", lots.UpdateLot)
    g.DELETE("/lots/:id", lots.DeleteLot)

    // Spots nested under their lot.
    g.GET("/lots/:id/spots", spots.ListSpotsByLot)
    g.POST("/lots/:id/spots", spots.CreateSpot)

    // Spots addressed directly.  The status route drives the spot
    // state machine.
    g.GET("/spots", spots.ListSpots)
    g.GET("/spots/:id", spots.GetSpot)
    g.PATCH("/spots/:id/status", spots.UpdateSpotStatus)
    g.DELETE("/spots/:id", spots.DeleteSpot)

    // Spot types shared by all lots, with their pricing configuration.
    g.GET("/spot-types", spots.ListSpotTypes)
    g.POST("/spot-types", spots.CreateSpotType)
    g.GET("/spot-types/:id/fee", fees.GetSpotTypeFee)
    g.PUT("/spot-types/:id/fee", fees.SetSpotTypeFee)
}

// RegisterAccounts registers the user and car routes, including the
// ownership assignment that admission control later checks.
func RegisterAccounts(e *echo.Echo, users *handler.UserHandler, cars *handler.CarHandler) {
    g := e.Group("/v1")

    g.GET("/users", users.ListUsers)
    g.POST("/users", users.CreateUser)
    g.GET("/users/:id", users.GetUser)
    g.GET("/users/:id/cars", users.ListUserCars)
    g.PUT("/users/:id/cars/:carId", users.AssignCar)

    g.POST("/cars", cars.CreateCar)
    g.GET("/cars/:id", cars.GetCar)
}

// RegisterReservations registers the reservation routes.  POST /v1/reservations
// is admission control; the status and cancel routes drive the
// lifecycle out of ACTIVE.
func RegisterReservations(e *echo.Echo, reservations *handler.ReservationHandler) {
    g := e.Group("/v1")

    g.GET("/reservations", reservations.ListReservations)
    g.POST("/reservations", reservations.CreateReservation)
    g.GET("/reservations/:id", reservations.GetReservation)
    g.PATCH("/reservations/:id/status", reservations.UpdateReservationStatus)
    g.POST("/reservations/:id/cancel", reservations.CancelReservation)
}
