package handler

import (
    "net/http"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/parking-reservation/internal/model"
    "github.com/iliyamo/parking-reservation/internal/repository"
)

func newSpotHandler(t *testing.T) (*SpotHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    h := NewSpotHandler(
        repository.NewSpotRepo(db),
        repository.NewLotRepo(db),
        repository.NewSpotTypeRepo(db),
    )
    return h, mock
}

func TestUpdateSpotStatusRejectsUnknownStatus(t *testing.T) {
    h, mock := newSpotHandler(t)

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPatch, "/v1/spots/3/status", `{"status":"FREE"}`)
    c.SetParamNames("id")
    c.SetParamValues("3")
    require.NoError(t, h.UpdateSpotStatus(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSpotStatusBlockedByOpenSession(t *testing.T) {
    h, mock := newSpotHandler(t)

    mock.ExpectQuery(`FROM parking_spots WHERE id = \?`).
        WillReturnRows(lockedSpotRows(model.SpotOccupied))
    mock.ExpectQuery(`FROM parking_sessions`).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "start_time", "end_time", "final_cost", "payment_status",
            "user_id", "car_id", "parking_spot_id", "reservation_id",
        }).AddRow(77, time.Now().UTC(), nil, nil, model.PaymentUnpaid, 1, 2, 3, nil))

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPatch, "/v1/spots/3/status", `{"status":"AVAILABLE"}`)
    c.SetParamNames("id")
    c.SetParamValues("3")
    require.NoError(t, h.UpdateSpotStatus(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.Contains(t, rec.Body.String(), "open_sessions")
    assert.Contains(t, rec.Body.String(), "77")
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSpotStatusMaintenanceNeedsNoGuard(t *testing.T) {
    h, mock := newSpotHandler(t)

    mock.ExpectQuery(`FROM parking_spots WHERE id = \?`).
        WillReturnRows(lockedSpotRows(model.SpotAvailable))
    mock.ExpectExec(`UPDATE parking_spots SET status = \? WHERE id = \?`).
        WithArgs(model.SpotMaintenance, 3).
        WillReturnResult(sqlmock.NewResult(0, 1))

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPatch, "/v1/spots/3/status", `{"status":"MAINTENANCE"}`)
    c.SetParamNames("id")
    c.SetParamValues("3")
    require.NoError(t, h.UpdateSpotStatus(c))
    assert.Equal(t, http.StatusNoContent, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSpotBlockedByActiveReservation(t *testing.T) {
    h, mock := newSpotHandler(t)

    mock.ExpectQuery(`FROM parking_spots WHERE id = \?`).
        WillReturnRows(lockedSpotRows(model.SpotReserved))
    mock.ExpectQuery(`FROM parking_sessions`).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "start_time", "end_time", "final_cost", "payment_status",
            "user_id", "car_id", "parking_spot_id", "reservation_id",
        }))
    mock.ExpectQuery(`SELECT 1 FROM reservations`).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

    e := echo.New()
    c, rec := jsonContext(e, http.MethodDelete, "/v1/spots/3", "")
    c.SetParamNames("id")
    c.SetParamValues("3")
    require.NoError(t, h.DeleteSpot(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSpotDuplicateNameInLot(t *testing.T) {
    h, mock := newSpotHandler(t)

    mock.ExpectQuery(`SELECT 1 FROM parking_lots`).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
    mock.ExpectQuery(`FROM spot_types WHERE id = \?`).
        WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).AddRow(1, "STANDARD", nil))
    mock.ExpectQuery(`SELECT 1 FROM parking_spots`).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/lots/1/spots",
        `{"spot_name":"A-01","floor_level":1,"spot_type_id":1}`)
    c.SetParamNames("id")
    c.SetParamValues("1")
    require.NoError(t, h.CreateSpot(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}
