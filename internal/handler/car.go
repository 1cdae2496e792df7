package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/parking-reservation/internal/model"
    "github.com/iliyamo/parking-reservation/internal/repository"
)

// CarHandler exposes car registration and lookup.
type CarHandler struct {
    CarRepo *repository.CarRepo
}

// NewCarHandler constructs a CarHandler and panics if the repository is nil.
func NewCarHandler(carRepo *repository.CarRepo) *CarHandler {
    if carRepo == nil {
        panic("nil repository passed to NewCarHandler")
    }
    return &CarHandler{CarRepo: carRepo}
}

// CreateCar handles POST /v1/cars.  License plates are unique across
// the system.
func (h *CarHandler) CreateCar(c echo.Context) error {
    var body struct {
        LicensePlate string  `json:"license_plate"`
        Model        string  `json:"model"`
        Color        *string `json:"color"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    plate := strings.ToUpper(strings.TrimSpace(body.LicensePlate))
    carModel := strings.TrimSpace(body.Model)
    if plate == "" || carModel == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "license_plate and model are required"})
    }
    ctx := c.Request().Context()
    taken, err := h.CarRepo.PlateExists(ctx, plate)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if taken {
        return c.JSON(http.StatusConflict, echo.Map{"error": "license plate already registered"})
    }
    car := &model.Car{LicensePlate: plate, Model: carModel, Color: body.Color}
    if err := h.CarRepo.Create(ctx, car); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create car"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "id":            car.ID,
        "license_plate": car.LicensePlate,
        "model":         car.Model,
        "color":         car.Color,
    })
}

// GetCar handles GET /v1/cars/:id.
func (h *CarHandler) GetCar(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
    }
    car, err := h.CarRepo.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrCarNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load car"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": echo.Map{
        "id":            car.ID,
        "license_plate": car.LicensePlate,
        "model":         car.Model,
        "color":         car.Color,
    }})
}
