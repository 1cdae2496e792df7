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

func newFeeHandler(t *testing.T) (*FeeHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    return NewFeeHandler(repository.NewFeeRepo(db), repository.NewSpotTypeRepo(db)), mock
}

func TestSetSpotTypeFeeRejectsUnknownChargeType(t *testing.T) {
    h, mock := newFeeHandler(t)

    e := echo.New()
    c, rec := jsonContext(e, http.MethodPut, "/v1/spot-types/1/fee",
        `{"name":"Standard","rules":[{"priority":1,"charge_type":"WEEKLY","charge_amount":10}]}`)
    c.SetParamNames("id")
    c.SetParamValues("1")
    require.NoError(t, h.SetSpotTypeFee(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSpotTypeFeeNotConfigured(t *testing.T) {
    h, mock := newFeeHandler(t)

    mock.ExpectQuery(`FROM spot_types WHERE id = \?`).
        WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).AddRow(1, "STANDARD", nil))
    mock.ExpectQuery(`FROM fees WHERE spot_type_id = \?`).
        WillReturnRows(sqlmock.NewRows([]string{"id", "name", "daily_max_cap", "spot_type_id"}))

    e := echo.New()
    c, rec := jsonContext(e, http.MethodGet, "/v1/spot-types/1/fee", "")
    c.SetParamNames("id")
    c.SetParamValues("1")
    require.NoError(t, h.GetSpotTypeFee(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}
