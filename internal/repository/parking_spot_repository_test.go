package repository

import (
    "context"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/parking-reservation/internal/model"
)

func spotRows(status string) *sqlmock.Rows {
    now := time.Now().UTC()
    return sqlmock.NewRows([]string{
        "id", "spot_name", "floor_level", "status", "parking_lot_id", "spot_type_id", "created_at", "updated_at",
    }).AddRow(1, "A-01", 1, status, 1, 1, now, now)
}

func TestGetForUpdateTxLocksRow(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectQuery(`SELECT .+ FROM parking_spots WHERE id = \? FOR UPDATE`).
        WithArgs(1).
        WillReturnRows(spotRows(model.SpotAvailable))

    tx, err := db.Begin()
    require.NoError(t, err)

    repo := NewSpotRepo(db)
    spot, err := repo.GetForUpdateTx(context.Background(), tx, 1)
    require.NoError(t, err)
    assert.Equal(t, model.SpotAvailable, spot.Status)
    assert.Equal(t, "A-01", spot.SpotName)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusIfTxApplied(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectExec(`UPDATE parking_spots SET status = \? WHERE id = \? AND status = \?`).
        WithArgs(model.SpotReserved, 1, model.SpotAvailable).
        WillReturnResult(sqlmock.NewResult(0, 1))

    tx, err := db.Begin()
    require.NoError(t, err)

    repo := NewSpotRepo(db)
    moved, err := repo.UpdateStatusIfTx(context.Background(), tx, 1, model.SpotAvailable, model.SpotReserved)
    require.NoError(t, err)
    assert.True(t, moved)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusIfTxStatusChangedUnderneath(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    // The row no longer carries the expected status, so the guarded
    // update touches nothing.
    mock.ExpectExec(`UPDATE parking_spots SET status = \? WHERE id = \? AND status = \?`).
        WithArgs(model.SpotReserved, 1, model.SpotAvailable).
        WillReturnResult(sqlmock.NewResult(0, 0))

    tx, err := db.Begin()
    require.NoError(t, err)

    repo := NewSpotRepo(db)
    moved, err := repo.UpdateStatusIfTx(context.Background(), tx, 1, model.SpotAvailable, model.SpotReserved)
    require.NoError(t, err)
    assert.False(t, moved)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusMissingSpot(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectExec(`UPDATE parking_spots SET status = \? WHERE id = \?`).
        WithArgs(model.SpotMaintenance, 9).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery(`SELECT EXISTS`).
        WithArgs(9).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

    repo := NewSpotRepo(db)
    err = repo.UpdateStatus(context.Background(), 9, model.SpotMaintenance)
    assert.ErrorIs(t, err, ErrSpotNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}
