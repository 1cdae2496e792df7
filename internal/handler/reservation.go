package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/parking-reservation/internal/model"
    "github.com/iliyamo/parking-reservation/internal/queue"
    "github.com/iliyamo/parking-reservation/internal/repository"
    queue_publisher "github.com/iliyamo/parking-reservation/internal/service"
)

// ReservationHandler implements admission control for new reservations
// and the reservation lifecycle.  Admission runs inside a single
// database transaction that locks the spot row, so two concurrent
// requests for the same spot serialize and at most one of them books.
type ReservationHandler struct {
    ReservationRepo *repository.ReservationRepo
    SpotRepo        *repository.SpotRepo
    UserRepo        *repository.UserRepo
    CarRepo         *repository.CarRepo
    // PublishEvents gates the best-effort broker notification so tests
    // can run without a broker.
    PublishEvents bool
}

// NewReservationHandler constructs a ReservationHandler and panics if a
// repository is nil.
func NewReservationHandler(
    reservationRepo *repository.ReservationRepo,
    spotRepo *repository.SpotRepo,
    userRepo *repository.UserRepo,
    carRepo *repository.CarRepo,
    publishEvents bool,
) *ReservationHandler {
    if reservationRepo == nil || spotRepo == nil || userRepo == nil || carRepo == nil {
        panic("nil repository passed to NewReservationHandler")
    }
    return &ReservationHandler{
        ReservationRepo: reservationRepo,
        SpotRepo:        spotRepo,
        UserRepo:        userRepo,
        CarRepo:         carRepo,
        PublishEvents:   publishEvents,
    }
}

// CreateReservation handles POST /v1/reservations.  The checks run in
// a fixed order inside one transaction: window sanity, spot existence
// and availability, user existence, car existence, ownership, overlap.
// Passing all of them couples the reservation insert with the
// conditional spot transition AVAILABLE -> RESERVED; if the transition
// touches zero rows the whole transaction rolls back and the request
// conflicts.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
    var body struct {
        StartTime     time.Time `json:"start_time"`
        EndTime       time.Time `json:"end_time"`
        UserID        uint64    `json:"user_id"`
        CarID         uint64    `json:"car_id"`
        ParkingSpotID uint64    `json:"parking_spot_id"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.UserID == 0 || body.CarID == 0 || body.ParkingSpotID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id, car_id and parking_spot_id are required"})
    }
    if body.StartTime.IsZero() || body.EndTime.IsZero() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time and end_time are required"})
    }
    if !body.EndTime.After(body.StartTime) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be after start_time"})
    }

    ctx := c.Request().Context()
    tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // Lock the spot row first: every concurrent attempt on this spot
    // queues here, so the checks below see a settled state.
    spot, err := h.SpotRepo.GetForUpdateTx(ctx, tx, body.ParkingSpotID)
    if err != nil {
        if errors.Is(err, repository.ErrSpotNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "parking spot not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if spot.Status != model.SpotAvailable {
        return c.JSON(http.StatusConflict, echo.Map{"error": "parking spot is not available"})
    }

    userExists, err := h.UserRepo.ExistsTx(ctx, tx, body.UserID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if !userExists {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
    }

    carExists, err := h.CarRepo.ExistsTx(ctx, tx, body.CarID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if !carExists {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
    }

    owned, err := h.CarRepo.IsOwnedByUserTx(ctx, tx, body.CarID, body.UserID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if !owned {
        return c.JSON(http.StatusConflict, echo.Map{"error": "car does not belong to this user"})
    }

    overlap, err := h.ReservationRepo.HasOverlappingActiveTx(ctx, tx, body.ParkingSpotID, body.StartTime, body.EndTime, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if overlap {
        return c.JSON(http.StatusConflict, echo.Map{"error": "spot already reserved for an overlapping time window"})
    }

    res := &model.Reservation{
        StartTime:     body.StartTime.UTC(),
        EndTime:       body.EndTime.UTC(),
        Status:        model.ReservationActive,
        UserID:        body.UserID,
        CarID:         body.CarID,
        ParkingSpotID: body.ParkingSpotID,
    }
    if err := h.ReservationRepo.CreateTx(ctx, tx, res); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create reservation"})
    }

    moved, err := h.SpotRepo.UpdateStatusIfTx(ctx, tx, body.ParkingSpotID, model.SpotAvailable, model.SpotReserved)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update spot status"})
    }
    if !moved {
        // Somebody changed the spot under us after all; give up.
        return c.JSON(http.StatusConflict, echo.Map{"error": "parking spot is not available"})
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not commit reservation"})
    }
    committed = true

    detail, err := h.ReservationRepo.GetDetailByID(ctx, res.ID)
    if err != nil {
        // The reservation exists; fall back to the bare record.
        log.Printf("reservation: detail lookup after create failed: %v", err)
        return c.JSON(http.StatusCreated, echo.Map{
            "id":              res.ID,
            "start_time":      res.StartTime.Format(time.RFC3339),
            "end_time":        res.EndTime.Format(time.RFC3339),
            "status":          res.Status,
            "user_id":         res.UserID,
            "car_id":          res.CarID,
            "parking_spot_id": res.ParkingSpotID,
        })
    }

    if h.PublishEvents {
        event := queue.ReservationConfirmedEvent{
            ReservationID: detail.ID,
            UserID:        detail.UserID,
            UserName:      detail.UserName,
            CarID:         detail.CarID,
            LicensePlate:  detail.LicensePlate,
            ParkingSpotID: detail.ParkingSpotID,
            SpotName:      detail.SpotName,
            StartTime:     detail.StartTime,
            EndTime:       detail.EndTime,
            ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
        }
        go func() {
            pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
            defer cancel()
            _ = queue_publisher.PublishReservationConfirmed(pubCtx, event)
        }()
    }

    return c.JSON(http.StatusCreated, detail)
}

// UpdateReservationStatus handles PATCH /v1/reservations/:id/status.
// Only ACTIVE reservations may transition, and only into a terminal
// status; terminal reservations are immutable.  A terminal transition
// releases the spot back to AVAILABLE when it is still RESERVED.
func (h *ReservationHandler) UpdateReservationStatus(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var body struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    status := strings.ToUpper(strings.TrimSpace(body.Status))
    if !model.TerminalReservationStatus(status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be CANCELLED or COMPLETED"})
    }
    return h.transition(c, id, status)
}

// CancelReservation handles POST /v1/reservations/:id/cancel, a
// shorthand for the CANCELLED transition.
func (h *ReservationHandler) CancelReservation(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    return h.transition(c, id, model.ReservationCancelled)
}

func (h *ReservationHandler) transition(c echo.Context, id uint64, status string) error {
    ctx := c.Request().Context()
    tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    res, err := h.ReservationRepo.GetByIDForUpdateTx(ctx, tx, id)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if res.Status != model.ReservationActive {
        return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is already " + res.Status})
    }

    if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, id, status); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update reservation"})
    }

    // Release the spot when we were the ones holding it.  The spot may
    // have been deleted or moved to MAINTENANCE meanwhile; neither
    // blocks the reservation transition.
    if _, err := h.SpotRepo.UpdateStatusIfTx(ctx, tx, res.ParkingSpotID, model.SpotReserved, model.SpotAvailable); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not release spot"})
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not commit transition"})
    }
    committed = true

    detail, err := h.ReservationRepo.GetDetailByID(ctx, id)
    if err != nil {
        return c.NoContent(http.StatusNoContent)
    }
    return c.JSON(http.StatusOK, detail)
}

// ListReservations handles GET /v1/reservations.  Optional user_id and
// spot_id query parameters narrow the listing.
func (h *ReservationHandler) ListReservations(c echo.Context) error {
    ctx := c.Request().Context()
    if raw := c.QueryParam("user_id"); raw != "" {
        userID, err := strconv.ParseUint(raw, 10, 64)
        if err != nil || userID == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
        }
        details, err := h.ReservationRepo.ListByUser(ctx, userID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
        }
        return c.JSON(http.StatusOK, echo.Map{"items": details})
    }
    if raw := c.QueryParam("spot_id"); raw != "" {
        spotID, err := strconv.ParseUint(raw, 10, 64)
        if err != nil || spotID == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot_id"})
        }
        details, err := h.ReservationRepo.ListBySpot(ctx, spotID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
        }
        return c.JSON(http.StatusOK, echo.Map{"items": details})
    }
    details, err := h.ReservationRepo.ListDetails(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// GetReservation handles GET /v1/reservations/:id.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    detail, err := h.ReservationRepo.GetDetailByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}
