package handler

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/parking-reservation/internal/model"
    "github.com/iliyamo/parking-reservation/internal/repository"
)

func newReservationHandler(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    h := NewReservationHandler(
        repository.NewReservationRepo(db),
        repository.NewSpotRepo(db),
        repository.NewUserRepo(db),
        repository.NewCarRepo(db),
        false, // no broker in tests
    )
    return h, mock
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
    req := httptest.NewRequest(method, target, strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func lockedSpotRows(status string) *sqlmock.Rows {
    now := time.Now().UTC()
    return sqlmock.NewRows([]string{
        "id", "spot_name", "floor_level", "status", "parking_lot_id", "spot_type_id", "created_at", "updated_at",
    }).AddRow(3, "B-07", 2, status, 1, 1, now, now)
}

func existsRow(v bool) *sqlmock.Rows {
    return sqlmock.NewRows([]string{"exists"}).AddRow(v)
}

const createBody = `{
    "start_time": "2026-03-01T10:00:00Z",
    "end_time":   "2026-03-01T12:00:00Z",
    "user_id": 1,
    "car_id": 2,
    "parking_spot_id": 3
}`

func TestCreateReservationSuccess(t *testing.T) {
    h, mock := newReservationHandler(t)

    mock.ExpectBegin()
    mock.ExpectQuery(`FROM parking_spots WHERE id = \? FOR UPDATE`).
        WillReturnRows(lockedSpotRows(model.SpotAvailable))
    mock.ExpectQuery(`SELECT 1 FROM users`).WillReturnRows(existsRow(true))
    mock.ExpectQuery(`SELECT 1 FROM cars`).WillReturnRows(existsRow(true))
    mock.ExpectQuery(`SELECT 1 FROM user_cars`).WillReturnRows(existsRow(true))
    mock.ExpectQuery(`SELECT 1 FROM reservations`).WillReturnRows(existsRow(false))
    mock.ExpectExec(`INSERT INTO reservations`).WillReturnResult(sqlmock.NewResult(11, 1))
    now := time.Now().UTC()
    mock.ExpectQuery(`SELECT created_at, updated_at FROM reservations`).
        WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
    mock.ExpectExec(`UPDATE parking_spots SET status = \? WHERE id = \? AND status = \?`).
        WithArgs(model.SpotReserved, 3, model.SpotAvailable).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
    end := start.Add(2 * time.Hour)
    mock.ExpectQuery(`FROM reservations r`).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "start_time", "end_time", "status",
            "user_id", "full_name", "car_id", "license_plate", "parking_spot_id", "spot_name",
        }).AddRow(11, start, end, model.ReservationActive, 1, "Dana Cole", 2, "XYZ-123", 3, "B-07"))

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/reservations", createBody)
    require.NoError(t, h.CreateReservation(c))
    assert.Equal(t, http.StatusCreated, rec.Code)
    assert.Contains(t, rec.Body.String(), `"status":"ACTIVE"`)
    assert.Contains(t, rec.Body.String(), `"spot_name":"B-07"`)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationRejectsBadWindow(t *testing.T) {
    h, mock := newReservationHandler(t)

    body := `{
        "start_time": "2026-03-01T12:00:00Z",
        "end_time":   "2026-03-01T12:00:00Z",
        "user_id": 1, "car_id": 2, "parking_spot_id": 3
    }`
    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/reservations", body)
    require.NoError(t, h.CreateReservation(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    // The database is never touched for an invalid window.
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationSpotNotFound(t *testing.T) {
    h, mock := newReservationHandler(t)

    mock.ExpectBegin()
    mock.ExpectQuery(`FROM parking_spots WHERE id = \? FOR UPDATE`).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "spot_name", "floor_level", "status", "parking_lot_id", "spot_type_id", "created_at", "updated_at",
        }))
    mock.ExpectRollback()

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/reservations", createBody)
    require.NoError(t, h.CreateReservation(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationSpotNotAvailable(t *testing.T) {
    h, mock := newReservationHandler(t)

    mock.ExpectBegin()
    mock.ExpectQuery(`FROM parking_spots WHERE id = \? FOR UPDATE`).
        WillReturnRows(lockedSpotRows(model.SpotMaintenance))
    mock.ExpectRollback()

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/reservations", createBody)
    require.NoError(t, h.CreateReservation(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationCarNotOwned(t *testing.T) {
    h, mock := newReservationHandler(t)

    mock.ExpectBegin()
    mock.ExpectQuery(`FROM parking_spots WHERE id = \? FOR UPDATE`).
        WillReturnRows(lockedSpotRows(model.SpotAvailable))
    mock.ExpectQuery(`SELECT 1 FROM users`).WillReturnRows(existsRow(true))
    mock.ExpectQuery(`SELECT 1 FROM cars`).WillReturnRows(existsRow(true))
    mock.ExpectQuery(`SELECT 1 FROM user_cars`).WillReturnRows(existsRow(false))
    mock.ExpectRollback()

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/reservations", createBody)
    require.NoError(t, h.CreateReservation(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.Contains(t, rec.Body.String(), "does not belong")
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationOverlapConflict(t *testing.T) {
    h, mock := newReservationHandler(t)

    mock.ExpectBegin()
    mock.ExpectQuery(`FROM parking_spots WHERE id = \? FOR UPDATE`).
        WillReturnRows(lockedSpotRows(model.SpotAvailable))
    mock.ExpectQuery(`SELECT 1 FROM users`).WillReturnRows(existsRow(true))
    mock.ExpectQuery(`SELECT 1 FROM cars`).WillReturnRows(existsRow(true))
    mock.ExpectQuery(`SELECT 1 FROM user_cars`).WillReturnRows(existsRow(true))
    mock.ExpectQuery(`SELECT 1 FROM reservations`).WillReturnRows(existsRow(true))
    mock.ExpectRollback()

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/reservations", createBody)
    require.NoError(t, h.CreateReservation(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.Contains(t, rec.Body.String(), "overlapping")
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationLostRaceRollsBack(t *testing.T) {
    h, mock := newReservationHandler(t)

    mock.ExpectBegin()
    mock.ExpectQuery(`FROM parking_spots WHERE id = \? FOR UPDATE`).
        WillReturnRows(lockedSpotRows(model.SpotAvailable))
    mock.ExpectQuery(`SELECT 1 FROM users`).WillReturnRows(existsRow(true))
    mock.ExpectQuery(`SELECT 1 FROM cars`).WillReturnRows(existsRow(true))
    mock.ExpectQuery(`SELECT 1 FROM user_cars`).WillReturnRows(existsRow(true))
    mock.ExpectQuery(`SELECT 1 FROM reservations`).WillReturnRows(existsRow(false))
    mock.ExpectExec(`INSERT INTO reservations`).WillReturnResult(sqlmock.NewResult(11, 1))
    now := time.Now().UTC()
    mock.ExpectQuery(`SELECT created_at, updated_at FROM reservations`).
        WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
    // The guarded transition touches zero rows, so nothing is kept.
    mock.ExpectExec(`UPDATE parking_spots SET status = \? WHERE id = \? AND status = \?`).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/reservations", createBody)
    require.NoError(t, h.CreateReservation(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func reservationRows(status string) *sqlmock.Rows {
    now := time.Now().UTC()
    start := now.Add(time.Hour)
    end := start.Add(2 * time.Hour)
    return sqlmock.NewRows([]string{
        "id", "start_time", "end_time", "status", "user_id", "car_id", "parking_spot_id", "created_at", "updated_at",
    }).AddRow(11, start, end, status, 1, 2, 3, now, now)
}

func TestUpdateReservationStatusReleasesSpot(t *testing.T) {
    h, mock := newReservationHandler(t)

    mock.ExpectBegin()
    mock.ExpectQuery(`FROM reservations WHERE id = \? FOR UPDATE`).
        WillReturnRows(reservationRows(model.ReservationActive))
    mock.ExpectExec(`UPDATE reservations SET status = \? WHERE id = \?`).
        WithArgs(model.ReservationCompleted, 11).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE parking_spots SET status = \? WHERE id = \? AND status = \?`).
        WithArgs(model.SpotAvailable, 3, model.SpotReserved).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
    mock.ExpectQuery(`FROM reservations r`).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "start_time", "end_time", "status",
            "user_id", "full_name", "car_id", "license_plate", "parking_spot_id", "spot_name",
        }).AddRow(11, start, start.Add(2*time.Hour), model.ReservationCompleted, 1, "Dana Cole", 2, "XYZ-123", 3, "B-07"))

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPatch, "/v1/reservations/11/status", `{"status":"COMPLETED"}`)
    c.SetParamNames("id")
    c.SetParamValues("11")
    require.NoError(t, h.UpdateReservationStatus(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), `"status":"COMPLETED"`)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReservationStatusTerminalIsImmutable(t *testing.T) {
    h, mock := newReservationHandler(t)

    mock.ExpectBegin()
    mock.ExpectQuery(`FROM reservations WHERE id = \? FOR UPDATE`).
        WillReturnRows(reservationRows(model.ReservationCancelled))
    mock.ExpectRollback()

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPatch, "/v1/reservations/11/status", `{"status":"COMPLETED"}`)
    c.SetParamNames("id")
    c.SetParamValues("11")
    require.NoError(t, h.UpdateReservationStatus(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.Contains(t, rec.Body.String(), "CANCELLED")
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReservationStatusRejectsActiveTarget(t *testing.T) {
    h, mock := newReservationHandler(t)

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPatch, "/v1/reservations/11/status", `{"status":"ACTIVE"}`)
    c.SetParamNames("id")
    c.SetParamValues("11")
    require.NoError(t, h.UpdateReservationStatus(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelReservationShorthand(t *testing.T) {
    h, mock := newReservationHandler(t)

    mock.ExpectBegin()
    mock.ExpectQuery(`FROM reservations WHERE id = \? FOR UPDATE`).
        WillReturnRows(reservationRows(model.ReservationActive))
    mock.ExpectExec(`UPDATE reservations SET status = \? WHERE id = \?`).
        WithArgs(model.ReservationCancelled, 11).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE parking_spots SET status = \? WHERE id = \? AND status = \?`).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
    mock.ExpectQuery(`FROM reservations r`).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "start_time", "end_time", "status",
            "user_id", "full_name", "car_id", "license_plate", "parking_spot_id", "spot_name",
        }).AddRow(11, start, start.Add(time.Hour), model.ReservationCancelled, 1, "Dana Cole", 2, "XYZ-123", 3, "B-07"))

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/reservations/11/cancel", "")
    c.SetParamNames("id")
    c.SetParamValues("11")
    require.NoError(t, h.CancelReservation(c))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), `"status":"CANCELLED"`)
    assert.NoError(t, mock.ExpectationsWereMet())
}
