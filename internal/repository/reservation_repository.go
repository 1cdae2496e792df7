package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/parking-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations.  Creation
// and status transitions only ever run inside a transaction supplied
// by the caller: admission control couples the insert with the spot
// status change, and the lifecycle couples the status change with the
// spot release.  All timestamps are stored in UTC.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new reservation within the scope of an existing
// transaction and populates the generated ID and timestamps on the
// provided model.  The caller must commit or rollback the
// transaction.  Status should be a valid enumeration value; admission
// control always inserts ACTIVE.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
    const q = `INSERT INTO reservations (start_time, end_time, status, user_id, car_id, parking_spot_id)
               VALUES (?, ?, ?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, q,
        res.StartTime.UTC(), res.EndTime.UTC(), res.Status, res.UserID, res.CarID, res.ParkingSpotID)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
    return tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt)
}

// HasOverlappingActiveTx reports whether any ACTIVE reservation on the
// spot overlaps the half-open window [start, end).  Two windows
// overlap when existing.start < end AND existing.end > start; a
// reservation ending exactly when another starts does not conflict.
// The optional exclude ID skips one reservation, for use when
// re-validating an existing booking.
func (r *ReservationRepo) HasOverlappingActiveTx(ctx context.Context, tx *sql.Tx, spotID uint64, start, end time.Time, excludeID *uint64) (bool, error) {
    q := `SELECT EXISTS(
              SELECT 1 FROM reservations
              WHERE parking_spot_id = ? AND status = 'ACTIVE'
                AND start_time < ? AND end_time > ?`
    args := []interface{}{spotID, end.UTC(), start.UTC()}
    if excludeID != nil {
        q += ` AND id != ?`
        args = append(args, *excludeID)
    }
    q += `)`
    var overlap bool
    err := tx.QueryRowContext(ctx, q, args...).Scan(&overlap)
    return overlap, err
}

// GetByIDForUpdateTx loads a reservation inside the given transaction
// and locks its row, so a lifecycle transition cannot race another
// transition on the same reservation.  Returns ErrReservationNotFound
// when no row matches.
func (r *ReservationRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
    const q = `SELECT id, start_time, end_time, status, user_id, car_id, parking_spot_id, created_at, updated_at
               FROM reservations WHERE id = ? FOR UPDATE`
    var res model.Reservation
    err := tx.QueryRowContext(ctx, q, id).Scan(
        &res.ID, &res.StartTime, &res.EndTime, &res.Status,
        &res.UserID, &res.CarID, &res.ParkingSpotID, &res.CreatedAt, &res.UpdatedAt,
    )
    if err == sql.ErrNoRows {
        return nil, ErrReservationNotFound
    }
    if err != nil {
        return nil, err
    }
    return &res, nil
}

// UpdateStatusTx sets the reservation status within the given
// transaction.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
    _, err := tx.ExecContext(ctx, `UPDATE reservations SET status = ? WHERE id = ?`, status, id)
    return err
}

// ReservationDetail is a reservation joined with the display fields of
// its user, car and spot.  Returned by the read endpoints and by
// admission control after a successful booking.
type ReservationDetail struct {
    ID            uint64 `json:"id"`
    StartTime     string `json:"start_time"`
    EndTime       string `json:"end_time"`
    Status        string `json:"status"`
    UserID        uint64 `json:"user_id"`
    UserName      string `json:"user_name"`
    CarID         uint64 `json:"car_id"`
    LicensePlate  string `json:"license_plate"`
    ParkingSpotID uint64 `json:"parking_spot_id"`
    SpotName      string `json:"spot_name"`
}

const detailQuery = `SELECT r.id, r.start_time, r.end_time, r.status,
                            r.user_id, u.full_name,
                            r.car_id, c.license_plate,
                            r.parking_spot_id, ps.spot_name
                     FROM reservations r
                     JOIN users u ON u.id = r.user_id
                     JOIN cars c ON c.id = r.car_id
                     JOIN parking_spots ps ON ps.id = r.parking_spot_id`

func scanDetail(rows *sql.Rows) (ReservationDetail, error) {
    var d ReservationDetail
    var start, end time.Time
    err := rows.Scan(&d.ID, &start, &end, &d.Status,
        &d.UserID, &d.UserName, &d.CarID, &d.LicensePlate, &d.ParkingSpotID, &d.SpotName)
    if err != nil {
        return d, err
    }
    d.StartTime = start.UTC().Format(time.RFC3339)
    d.EndTime = end.UTC().Format(time.RFC3339)
    return d, nil
}

// GetDetailByID returns a single reservation joined with user, car and
// spot display fields, or ErrReservationNotFound.
func (r *ReservationRepo) GetDetailByID(ctx context.Context, id uint64) (*ReservationDetail, error) {
    var d ReservationDetail
    var start, end time.Time
    err := r.db.QueryRowContext(ctx, detailQuery+` WHERE r.id = ?`, id).Scan(
        &d.ID, &start, &end, &d.Status,
        &d.UserID, &d.UserName, &d.CarID, &d.LicensePlate, &d.ParkingSpotID, &d.SpotName,
    )
    if err == sql.ErrNoRows {
        return nil, ErrReservationNotFound
    }
    if err != nil {
        return nil, err
    }
    d.StartTime = start.UTC().Format(time.RFC3339)
    d.EndTime = end.UTC().Format(time.RFC3339)
    return &d, nil
}

func (r *ReservationRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]ReservationDetail, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]ReservationDetail, 0)
    for rows.Next() {
        d, err := scanDetail(rows)
        if err != nil {
            return nil, err
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

// ListDetails returns every reservation with display fields, newest
// first.
func (r *ReservationRepo) ListDetails(ctx context.Context) ([]ReservationDetail, error) {
    return r.queryDetails(ctx, detailQuery+` ORDER BY r.created_at DESC`)
}

// ListByUser returns the reservations made by one user, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
    return r.queryDetails(ctx, detailQuery+` WHERE r.user_id = ? ORDER BY r.created_at DESC`, userID)
}

// ListBySpot returns the reservations on one spot, newest first.
func (r *ReservationRepo) ListBySpot(ctx context.Context, spotID uint64) ([]ReservationDetail, error) {
    return r.queryDetails(ctx, detailQuery+` WHERE r.parking_spot_id = ? ORDER BY r.created_at DESC`, spotID)
}
