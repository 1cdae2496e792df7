package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/parking-reservation/internal/model"
    "github.com/iliyamo/parking-reservation/internal/repository"
)

// FeeHandler exposes the pricing configuration attached to spot types.
// Fee evaluation is out of scope; the handlers only read and replace
// the stored configuration.
type FeeHandler struct {
    FeeRepo      *repository.FeeRepo
    SpotTypeRepo *repository.SpotTypeRepo
}

// NewFeeHandler constructs a FeeHandler and panics if a repository is nil.
func NewFeeHandler(feeRepo *repository.FeeRepo, spotTypeRepo *repository.SpotTypeRepo) *FeeHandler {
    if feeRepo == nil || spotTypeRepo == nil {
        panic("nil repository passed to NewFeeHandler")
    }
    return &FeeHandler{FeeRepo: feeRepo, SpotTypeRepo: spotTypeRepo}
}

// GetSpotTypeFee handles GET /v1/spot-types/:id/fee.
func (h *FeeHandler) GetSpotTypeFee(c echo.Context) error {
    typeID, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot type id"})
    }
    ctx := c.Request().Context()
    if _, err := h.SpotTypeRepo.GetByID(ctx, typeID); err != nil {
        if errors.Is(err, repository.ErrSpotTypeNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "spot type not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    detail, err := h.FeeRepo.GetBySpotType(ctx, typeID)
    if err != nil {
        if errors.Is(err, repository.ErrFeeNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "no fee configured for this spot type"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load fee"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// SetSpotTypeFee handles PUT /v1/spot-types/:id/fee.  The request
// replaces the whole fee configuration for the type, rules included.
func (h *FeeHandler) SetSpotTypeFee(c echo.Context) error {
    typeID, ok := parseID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot type id"})
    }
    var body struct {
        Name        string   `json:"name"`
        DailyMaxCap *float64 `json:"daily_max_cap"`
        Rules       []struct {
            Priority     int     `json:"priority"`
            DaysOfWeek   *string `json:"days_of_week"`
            TimeStart    *string `json:"time_start"`
            TimeEnd      *string `json:"time_end"`
            ChargeType   string  `json:"charge_type"`
            ChargeAmount float64 `json:"charge_amount"`
        } `json:"rules"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name := strings.TrimSpace(body.Name)
    if name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    rules := make([]model.FeeRule, 0, len(body.Rules))
    for _, r := range body.Rules {
        chargeType := strings.ToUpper(strings.TrimSpace(r.ChargeType))
        if !model.ValidChargeType(chargeType) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "charge_type must be HOURLY, PER_MINUTE or FLAT_RATE"})
        }
        if r.ChargeAmount < 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "charge_amount cannot be negative"})
        }
        rules = append(rules, model.FeeRule{
            Priority:     r.Priority,
            DaysOfWeek:   r.DaysOfWeek,
            TimeStart:    r.TimeStart,
            TimeEnd:      r.TimeEnd,
            ChargeType:   chargeType,
            ChargeAmount: r.ChargeAmount,
        })
    }

    ctx := c.Request().Context()
    if _, err := h.SpotTypeRepo.GetByID(ctx, typeID); err != nil {
        if errors.Is(err, repository.ErrSpotTypeNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "spot type not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    fee := &model.Fee{Name: name, DailyMaxCap: body.DailyMaxCap, SpotTypeID: typeID}
    if err := h.FeeRepo.Replace(ctx, fee, rules); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store fee"})
    }
    detail, err := h.FeeRepo.GetBySpotType(ctx, typeID)
    if err != nil {
        return c.NoContent(http.StatusNoContent)
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}
