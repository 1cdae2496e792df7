package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/parking-reservation/internal/model"
)

// SpotRepo provides persistence for parking spots.  The spot status
// column is the admission gate for new reservations, so the status
// mutations here come in two flavours: unconditional (the explicit
// status-update operation) and conditional (the AVAILABLE -> RESERVED
// transition admission control relies on to stay race-free).
type SpotRepo struct {
    db *sql.DB
}

// NewSpotRepo returns a new SpotRepo bound to the given database.
func NewSpotRepo(db *sql.DB) *SpotRepo { return &SpotRepo{db: db} }

const spotColumns = `id, spot_name, floor_level, status, parking_lot_id, spot_type_id, created_at, updated_at`

func scanSpot(row *sql.Row) (*model.ParkingSpot, error) {
    var s model.ParkingSpot
    err := row.Scan(&s.ID, &s.SpotName, &s.FloorLevel, &s.Status, &s.ParkingLotID, &s.SpotTypeID, &s.CreatedAt, &s.UpdatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrSpotNotFound
    }
    if err != nil {
        return nil, err
    }
    return &s, nil
}

// GetByID returns a single spot or ErrSpotNotFound.
func (r *SpotRepo) GetByID(ctx context.Context, id uint64) (*model.ParkingSpot, error) {
    return scanSpot(r.db.QueryRowContext(ctx, `SELECT `+spotColumns+` FROM parking_spots WHERE id = ?`, id))
}

// GetForUpdateTx loads a spot inside the given transaction and locks
// its row.  Admission control calls this first so that concurrent
// attempts on the same spot serialize on the row lock.
func (r *SpotRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.ParkingSpot, error) {
    return scanSpot(tx.QueryRowContext(ctx, `SELECT `+spotColumns+` FROM parking_spots WHERE id = ? FOR UPDATE`, id))
}

// Create inserts a new spot and populates its generated ID and
// timestamps.  New spots always start in the status carried on the
// model (AVAILABLE for API-created spots).
func (r *SpotRepo) Create(ctx context.Context, s *model.ParkingSpot) error {
    const q = `INSERT INTO parking_spots (spot_name, floor_level, status, parking_lot_id, spot_type_id)
               VALUES (?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, s.SpotName, s.FloorLevel, s.Status, s.ParkingLotID, s.SpotTypeID)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    const sel = `SELECT created_at, updated_at FROM parking_spots WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// SpotNameExistsInLot reports whether the given spot name is already
// taken inside the lot.  Spot names are only unique per lot.
func (r *SpotRepo) SpotNameExistsInLot(ctx context.Context, lotID uint64, name string) (bool, error) {
    var ok bool
    err := r.db.QueryRowContext(ctx,
        `SELECT EXISTS(SELECT 1 FROM parking_spots WHERE parking_lot_id = ? AND spot_name = ?)`,
        lotID, name,
    ).Scan(&ok)
    return ok, err
}

// SpotDetail is a spot joined with its type name for display.
type SpotDetail struct {
    ID           uint64 `json:"id"`
    SpotName     string `json:"spot_name"`
    FloorLevel   int    `json:"floor_level"`
    Status       string `json:"status"`
    ParkingLotID uint64 `json:"parking_lot_id"`
    SpotTypeName string `json:"spot_type_name"`
}

const spotDetailQuery = `SELECT ps.id, ps.spot_name, ps.floor_level, ps.status, ps.parking_lot_id, st.name
                         FROM parking_spots ps
                         JOIN spot_types st ON st.id = ps.spot_type_id`

func (r *SpotRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]SpotDetail, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]SpotDetail, 0)
    for rows.Next() {
        var d SpotDetail
        if err := rows.Scan(&d.ID, &d.SpotName, &d.FloorLevel, &d.Status, &d.ParkingLotID, &d.SpotTypeName); err != nil {
            return nil, err
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}

// ListAll returns every spot joined with its type name.
func (r *SpotRepo) ListAll(ctx context.Context) ([]SpotDetail, error) {
    return r.queryDetails(ctx, spotDetailQuery+` ORDER BY ps.parking_lot_id, ps.floor_level, ps.spot_name`)
}

// ListByLot returns the spots of one lot joined with their type name.
func (r *SpotRepo) ListByLot(ctx context.Context, lotID uint64) ([]SpotDetail, error) {
    return r.queryDetails(ctx, spotDetailQuery+` WHERE ps.parking_lot_id = ? ORDER BY ps.floor_level, ps.spot_name`, lotID)
}

// GetDetailByID returns one spot joined with its type name, or
// ErrSpotNotFound.
func (r *SpotRepo) GetDetailByID(ctx context.Context, id uint64) (*SpotDetail, error) {
    var d SpotDetail
    err := r.db.QueryRowContext(ctx, spotDetailQuery+` WHERE ps.id = ?`, id).
        Scan(&d.ID, &d.SpotName, &d.FloorLevel, &d.Status, &d.ParkingLotID, &d.SpotTypeName)
    if err == sql.ErrNoRows {
        return nil, ErrSpotNotFound
    }
    if err != nil {
        return nil, err
    }
    return &d, nil
}

// OpenSessions returns the parking sessions on the spot that have no
// end time recorded.  A non-empty result blocks the transition back to
// AVAILABLE and blocks deletion of the spot.
func (r *SpotRepo) OpenSessions(ctx context.Context, spotID uint64) ([]model.ParkingSession, error) {
    const q = `SELECT id, start_time, end_time, final_cost, payment_status, user_id, car_id, parking_spot_id, reservation_id
               FROM parking_sessions
               WHERE parking_spot_id = ? AND end_time IS NULL`
    rows, err := r.db.QueryContext(ctx, q, spotID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var sessions []model.ParkingSession
    for rows.Next() {
        var s model.ParkingSession
        if err := rows.Scan(&s.ID, &s.StartTime, &s.EndTime, &s.FinalCost, &s.PaymentStatus,
            &s.UserID, &s.CarID, &s.ParkingSpotID, &s.ReservationID); err != nil {
            return nil, err
        }
        sessions = append(sessions, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return sessions, nil
}

// HasActiveReservations reports whether the spot has any reservation
// still in ACTIVE status.
func (r *SpotRepo) HasActiveReservations(ctx context.Context, spotID uint64) (bool, error) {
    var ok bool
    err := r.db.QueryRowContext(ctx,
        `SELECT EXISTS(SELECT 1 FROM reservations WHERE parking_spot_id = ? AND status = 'ACTIVE')`,
        spotID,
    ).Scan(&ok)
    return ok, err
}

// UpdateStatus unconditionally sets the spot status.  Returns
// ErrSpotNotFound when no row matches.  Guards (open-session check)
// belong to the caller.
func (r *SpotRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
    res, err := r.db.ExecContext(ctx, `UPDATE parking_spots SET status = ? WHERE id = ?`, status, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        ok, exErr := r.exists(ctx, id)
        if exErr != nil {
            return exErr
        }
        if !ok {
            return ErrSpotNotFound
        }
    }
    return nil
}

// UpdateStatusIfTx transitions the spot from one status to another
// within the given transaction, but only when the row still carries
// the expected current status.  It reports whether the transition was
// applied.  Admission control treats a false result as a conflict
// discovered late and rolls the whole transaction back.
func (r *SpotRepo) UpdateStatusIfTx(ctx context.Context, tx *sql.Tx, id uint64, from, to string) (bool, error) {
    res, err := tx.ExecContext(ctx, `UPDATE parking_spots SET status = ? WHERE id = ? AND status = ?`, to, id, from)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// UpdateStatusTx sets the spot status within the given transaction.
// Missing rows are not an error: the reservation lifecycle releases
// spots best-effort and a deleted spot must not block the reservation
// status change.
func (r *SpotRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
    _, err := tx.ExecContext(ctx, `UPDATE parking_spots SET status = ? WHERE id = ?`, status, id)
    return err
}

// DeleteByID removes a spot.  Callers must run the open-session and
// active-reservation guards first.
func (r *SpotRepo) DeleteByID(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM parking_spots WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrSpotNotFound
    }
    return nil
}

func (r *SpotRepo) exists(ctx context.Context, id uint64) (bool, error) {
    var ok bool
    err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM parking_spots WHERE id = ?)`, id).Scan(&ok)
    return ok, err
}
