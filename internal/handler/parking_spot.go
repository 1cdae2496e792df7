package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/parking-reservation/internal/model"
    "github.com/iliyamo/parking-reservation/internal/repository"
)

// SpotHandler exposes CRUD and status-transition operations for
// parking spots and their types.  The status transition is the spot
// state machine: transitions are externally requested, persisted
// immediately, and only the transition into AVAILABLE carries a guard
// (no open occupancy on the spot).
type SpotHandler struct {
    SpotRepo     *repository.SpotRepo
    LotRepo      *repository.LotRepo
    SpotTypeRepo *repository.SpotTypeRepo
}

// NewSpotHandler constructs a SpotHandler and panics if any dependency is nil.
func NewSpotHandler(spotRepo *repository.SpotRepo, lotRepo *repository.LotRepo, spotTypeRepo *repository.SpotTypeRepo) *SpotHandler {
    if spotRepo == nil || lotRepo == nil || spotTypeRepo == nil {
        panic("nil repository passed to NewSpotHandler")
    }
    return &SpotHandler{SpotRepo: spotRepo, LotRepo: lotRepo, SpotTypeRepo: spotTypeRepo}
}

// ListSpots handles GET /v1/spots.  It returns every spot joined with
// its type name.
func (h *SpotHandler) ListSpots(c echo.Context) error {
    details, err := h.SpotRepo.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load parking spots"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// ListSpotsByLot handles GET /v1/lots/:id/spots.
func (h *SpotHandler) ListSpotsByLot(c echo.Context) error {
    lotID, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
    }
    ctx := c.Request().Context()
    exists, err := h.LotRepo.Exists(ctx, lotID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if !exists {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "parking lot not found"})
    }
    details, err := h.SpotRepo.ListByLot(ctx, lotID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load parking spots"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// GetSpot handles GET /v1/spots/:id.
func (h *SpotHandler) GetSpot(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
    }
    detail, err := h.SpotRepo.GetDetailByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrSpotNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "parking spot not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load parking spot"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// CreateSpot handles POST /v1/lots/:id/spots.  The lot and the spot
// type must exist, and the spot name must be unique within the lot.
// New spots start AVAILABLE.
func (h *SpotHandler) CreateSpot(c echo.Context) error {
    lotID, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
    }
    var body struct {
        SpotName   string `json:"spot_name"`
        FloorLevel int    `json:"floor_level"`
        SpotTypeID uint64 `json:"spot_type_id"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(body.SpotName)
    if name == "" || body.SpotTypeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "spot_name and spot_type_id are required"})
    }
    ctx := c.Request().Context()
    exists, err := h.LotRepo.Exists(ctx, lotID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if !exists {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "parking lot not found"})
    }
    spotType, err := h.SpotTypeRepo.GetByID(ctx, body.SpotTypeID)
    if err != nil {
        if errors.Is(err, repository.ErrSpotTypeNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "spot type not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    taken, err := h.SpotRepo.SpotNameExistsInLot(ctx, lotID, name)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if taken {
        return c.JSON(http.StatusConflict, echo.Map{"error": "spot name already exists in this parking lot"})
    }
    spot := &model.ParkingSpot{
        SpotName:     name,
        FloorLevel:   body.FloorLevel,
        Status:       model.SpotAvailable,
        ParkingLotID: lotID,
        SpotTypeID:   body.SpotTypeID,
    }
    if err := h.SpotRepo.Create(ctx, spot); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create parking spot"})
    }
    return c.JSON(http.StatusCreated, repository.SpotDetail{
        ID:           spot.ID,
        SpotName:     spot.SpotName,
        FloorLevel:   spot.FloorLevel,
        Status:       spot.Status,
        ParkingLotID: spot.ParkingLotID,
        SpotTypeName: spotType.Name,
    })
}

// UpdateSpotStatus handles PATCH /v1/spots/:id/status.  Any known
// status may be requested; the single state-machine guard rejects the
// transition into AVAILABLE while the spot still has an open parking
// session.  The response for a blocked transition names the open
// sessions so the caller can resolve them.
func (h *SpotHandler) UpdateSpotStatus(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
    }
    var body struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    status := strings.ToUpper(strings.TrimSpace(body.Status))
    if !model.ValidSpotStatus(status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status, valid values are AVAILABLE, OCCUPIED, RESERVED, MAINTENANCE"})
    }
    ctx := c.Request().Context()
    if _, err := h.SpotRepo.GetByID(ctx, id); err != nil {
        if errors.Is(err, repository.ErrSpotNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "parking spot not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if status == model.SpotAvailable {
        sessions, err := h.SpotRepo.OpenSessions(ctx, id)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
        }
        if len(sessions) > 0 {
            ids := make([]uint64, 0, len(sessions))
            for _, s := range sessions {
                ids = append(ids, s.ID)
            }
            return c.JSON(http.StatusConflict, echo.Map{
                "error":         "cannot set spot to AVAILABLE while parking sessions are open",
                "open_sessions": ids,
            })
        }
    }
    if err := h.SpotRepo.UpdateStatus(ctx, id, status); err != nil {
        if errors.Is(err, repository.ErrSpotNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "parking spot not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update spot status"})
    }
    return c.NoContent(http.StatusNoContent)
}

// DeleteSpot handles DELETE /v1/spots/:id.  Spots with an open
// session or an ACTIVE reservation cannot be removed.
func (h *SpotHandler) DeleteSpot(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
    }
    ctx := c.Request().Context()
    if _, err := h.SpotRepo.GetByID(ctx, id); err != nil {
        if errors.Is(err, repository.ErrSpotNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "parking spot not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    sessions, err := h.SpotRepo.OpenSessions(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if len(sessions) > 0 {
        return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete parking spot with active parking sessions"})
    }
    reserved, err := h.SpotRepo.HasActiveReservations(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if reserved {
        return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete parking spot with active reservations"})
    }
    if err := h.SpotRepo.DeleteByID(ctx, id); err != nil {
        if errors.Is(err, repository.ErrSpotNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "parking spot not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListSpotTypes handles GET /v1/spot-types.
func (h *SpotHandler) ListSpotTypes(c echo.Context) error {
    types, err := h.SpotTypeRepo.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load spot types"})
    }
    items := make([]echo.Map, 0, len(types))
    for _, t := range types {
        items = append(items, echo.Map{"id": t.ID, "name": t.Name, "description": t.Description})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateSpotType handles POST /v1/spot-types.  Type names are unique.
func (h *SpotHandler) CreateSpotType(c echo.Context) error {
    var body struct {
        Name        string  `json:"name"`
        Description *string `json:"description"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(body.Name)
    if name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    ctx := c.Request().Context()
    taken, err := h.SpotTypeRepo.NameExists(ctx, name)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if taken {
        return c.JSON(http.StatusConflict, echo.Map{"error": "spot type already exists"})
    }
    t := &model.SpotType{Name: name, Description: body.Description}
    if err := h.SpotTypeRepo.Create(ctx, t); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create spot type"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": t.ID, "name": t.Name, "description": t.Description})
}
