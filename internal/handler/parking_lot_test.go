package handler

import (
    "net/http"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/parking-reservation/internal/repository"
)

func newLotHandler(t *testing.T) (*LotHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    return NewLotHandler(repository.NewLotRepo(db)), mock
}

func TestCreateLotRequiresNameAndAddress(t *testing.T) {
    h, mock := newLotHandler(t)

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPost, "/v1/lots", `{"name":"  ","address":""}`)
    require.NoError(t, h.CreateLot(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLotNotFound(t *testing.T) {
    h, mock := newLotHandler(t)

    mock.ExpectQuery(`FROM parking_lots WHERE id = \?`).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "name", "address", "description", "operating_hours", "latitude", "longitude",
        }))

    e := echo.New()
    c, rec := jsonContext(e, http.MethodGet, "/v1/lots/5", "")
    c.SetParamNames("id")
    c.SetParamValues("5")
    require.NoError(t, h.GetLot(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteLotBlockedByActivity(t *testing.T) {
    h, mock := newLotHandler(t)

    mock.ExpectQuery(`SELECT 1 FROM parking_lots`).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
    mock.ExpectQuery(`FROM parking_sessions`).
        WillReturnRows(sqlmock.NewRows([]string{"blocked"}).AddRow(true))

    e := echo.New()
    c, rec := jsonContext(e, http.MethodDelete, "/v1/lots/5", "")
    c.SetParamNames("id")
    c.SetParamValues("5")
    require.NoError(t, h.DeleteLot(c))
    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}
