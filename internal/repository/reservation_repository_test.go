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

func TestHasOverlappingActiveTx(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
    end := start.Add(2 * time.Hour)

    mock.ExpectBegin()
    // The window comparison is half-open: existing.start < end AND
    // existing.end > start.
    mock.ExpectQuery(`SELECT 1 FROM reservations`).
        WithArgs(7, end, start).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

    tx, err := db.Begin()
    require.NoError(t, err)

    repo := NewReservationRepo(db)
    overlap, err := repo.HasOverlappingActiveTx(context.Background(), tx, 7, start, end, nil)
    require.NoError(t, err)
    assert.True(t, overlap)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasOverlappingActiveTxExcludesReservation(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
    end := start.Add(time.Hour)
    exclude := uint64(42)

    mock.ExpectBegin()
    mock.ExpectQuery(`(?s)SELECT 1 FROM reservations.+AND id != \?`).
        WithArgs(7, end, start, 42).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

    tx, err := db.Begin()
    require.NoError(t, err)

    repo := NewReservationRepo(db)
    overlap, err := repo.HasOverlappingActiveTx(context.Background(), tx, 7, start, end, &exclude)
    require.NoError(t, err)
    assert.False(t, overlap)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTxPopulatesIDAndTimestamps(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    now := time.Now().UTC().Truncate(time.Second)
    start := now.Add(time.Hour)
    end := start.Add(2 * time.Hour)

    mock.ExpectBegin()
    mock.ExpectExec(`INSERT INTO reservations`).
        WithArgs(start, end, model.ReservationActive, 1, 2, 3).
        WillReturnResult(sqlmock.NewResult(11, 1))
    mock.ExpectQuery(`SELECT created_at, updated_at FROM reservations WHERE id = \?`).
        WithArgs(11).
        WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

    tx, err := db.Begin()
    require.NoError(t, err)

    repo := NewReservationRepo(db)
    res := &model.Reservation{
        StartTime:     start,
        EndTime:       end,
        Status:        model.ReservationActive,
        UserID:        1,
        CarID:         2,
        ParkingSpotID: 3,
    }
    require.NoError(t, repo.CreateTx(context.Background(), tx, res))
    assert.Equal(t, uint64(11), res.ID)
    assert.Equal(t, now, res.CreatedAt)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDForUpdateTxNotFound(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    mock.ExpectBegin()
    mock.ExpectQuery(`FROM reservations WHERE id = \? FOR UPDATE`).
        WithArgs(99).
        WillReturnRows(sqlmock.NewRows([]string{
            "id", "start_time", "end_time", "status", "user_id", "car_id", "parking_spot_id", "created_at", "updated_at",
        }))

    tx, err := db.Begin()
    require.NoError(t, err)

    repo := NewReservationRepo(db)
    _, err = repo.GetByIDForUpdateTx(context.Background(), tx, 99)
    assert.ErrorIs(t, err, ErrReservationNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}
