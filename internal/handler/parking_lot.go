package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/parking-reservation/internal/model"
    "github.com/iliyamo/parking-reservation/internal/repository"
)

// LotHandler exposes CRUD operations for parking lots.
type LotHandler struct {
    LotRepo *repository.LotRepo
}

// NewLotHandler constructs a LotHandler and panics if the repository is nil.
func NewLotHandler(lotRepo *repository.LotRepo) *LotHandler {
    if lotRepo == nil {
        panic("nil repository passed to NewLotHandler")
    }
    return &LotHandler{LotRepo: lotRepo}
}

// ListLots handles GET /v1/lots.  It returns every lot with its spot
// counts broken down by status.
func (h *LotHandler) ListLots(c echo.Context) error {
    summaries, err := h.LotRepo.ListWithSpotCounts(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load parking lots"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": summaries})
}

// GetLot handles GET /v1/lots/:id.  It returns the full detail view of
// a lot: its fields, every spot with its type, and per-type counts
// with fee caps.
func (h *LotHandler) GetLot(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
    }
    detail, err := h.LotRepo.GetDetail(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrLotNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "parking lot not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load parking lot"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

type lotBody struct {
    Name           string   `json:"name"`
    Address        string   `json:"address"`
    Description    *string  `json:"description"`
    OperatingHours *string  `json:"operating_hours"`
    Latitude       *float64 `json:"latitude"`
    Longitude      *float64 `json:"longitude"`
}

// CreateLot handles POST /v1/lots.  Name and address are required.
func (h *LotHandler) CreateLot(c echo.Context) error {
    var body lotBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Address) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address are required"})
    }
    lot := &model.ParkingLot{
        Name:           strings.TrimSpace(body.Name),
        Address:        strings.TrimSpace(body.Address),
        Description:    body.Description,
        OperatingHours: body.OperatingHours,
        Latitude:       body.Latitude,
        Longitude:      body.Longitude,
    }
    if err := h.LotRepo.Create(c.Request().Context(), lot); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create parking lot"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "id":      lot.ID,
        "name":    lot.Name,
        "address": lot.Address,
    })
}

// UpdateLot handles PUT /v1/lots/:id.  Omitted optional fields clear
// the stored value, matching full-replace semantics.
func (h *LotHandler) UpdateLot(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
    }
    var body lotBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Address) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address are required"})
    }
    lot := &model.ParkingLot{
        ID:             id,
        Name:           strings.TrimSpace(body.Name),
        Address:        strings.TrimSpace(body.Address),
        Description:    body.Description,
        OperatingHours: body.OperatingHours,
        Latitude:       body.Latitude,
        Longitude:      body.Longitude,
    }
    if err := h.LotRepo.Update(c.Request().Context(), lot); err != nil {
        if errors.Is(err, repository.ErrLotNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "parking lot not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update parking lot"})
    }
    return c.NoContent(http.StatusNoContent)
}

// DeleteLot handles DELETE /v1/lots/:id.  A lot with an open session
// or an ACTIVE reservation under any of its spots cannot be removed.
func (h *LotHandler) DeleteLot(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
    }
    ctx := c.Request().Context()
    exists, err := h.LotRepo.Exists(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if !exists {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "parking lot not found"})
    }
    blocked, err := h.LotRepo.HasActiveSessionsOrReservations(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if blocked {
        return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete parking lot with active parking sessions or reservations"})
    }
    if err := h.LotRepo.DeleteByID(ctx, id); err != nil {
        if errors.Is(err, repository.ErrLotNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "parking lot not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
