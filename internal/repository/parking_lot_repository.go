package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/parking-reservation/internal/model"
)

// LotRepo provides persistence for parking lots.  Aggregated views
// (spot counts, per-type breakdowns with fee caps) are assembled here
// so handlers only shape the response.
type LotRepo struct {
    db *sql.DB
}

// NewLotRepo returns a new LotRepo bound to the given database.
func NewLotRepo(db *sql.DB) *LotRepo { return &LotRepo{db: db} }

// Create inserts a new parking lot and populates the generated ID and
// timestamps on the provided model.
func (r *LotRepo) Create(ctx context.Context, lot *model.ParkingLot) error {
    const q = `INSERT INTO parking_lots (name, address, description, operating_hours, latitude, longitude)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, lot.Name, lot.Address, lot.Description, lot.OperatingHours, lot.Latitude, lot.Longitude)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    lot.ID = uint64(id)
    const sel = `SELECT created_at, updated_at FROM parking_lots WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, lot.ID).Scan(&lot.CreatedAt, &lot.UpdatedAt)
}

// Exists reports whether a lot with the given ID exists.
func (r *LotRepo) Exists(ctx context.Context, id uint64) (bool, error) {
    var ok bool
    err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM parking_lots WHERE id = ?)`, id).Scan(&ok)
    return ok, err
}

// Update rewrites the mutable lot fields.  Returns ErrLotNotFound when
// no row matches the ID.
func (r *LotRepo) Update(ctx context.Context, lot *model.ParkingLot) error {
    const q = `UPDATE parking_lots
               SET name = ?, address = ?, description = ?, operating_hours = ?, latitude = ?, longitude = ?
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, lot.Name, lot.Address, lot.Description, lot.OperatingHours, lot.Latitude, lot.Longitude, lot.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // Distinguish a missing row from an update that changed nothing.
        ok, exErr := r.Exists(ctx, lot.ID)
        if exErr != nil {
            return exErr
        }
        if !ok {
            return ErrLotNotFound
        }
    }
    return nil
}

// DeleteByID removes a lot.  Callers must run the active-session and
// active-reservation guard first; the database cascades spot rows.
func (r *LotRepo) DeleteByID(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM parking_lots WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrLotNotFound
    }
    return nil
}

// HasActiveSessionsOrReservations reports whether any spot under the
// lot has an open parking session (no end time) or an ACTIVE
// reservation.  Lots in that state must not be deleted.
func (r *LotRepo) HasActiveSessionsOrReservations(ctx context.Context, lotID uint64) (bool, error) {
    const q = `SELECT EXISTS(
                   SELECT 1 FROM parking_sessions s
                   JOIN parking_spots ps ON ps.id = s.parking_spot_id
                   WHERE ps.parking_lot_id = ? AND s.end_time IS NULL
               ) OR EXISTS(
                   SELECT 1 FROM reservations r
                   JOIN parking_spots ps ON ps.id = r.parking_spot_id
                   WHERE ps.parking_lot_id = ? AND r.status = 'ACTIVE'
               )`
    var blocked bool
    err := r.db.QueryRowContext(ctx, q, lotID, lotID).Scan(&blocked)
    return blocked, err
}

// LotSummary is the list view of a lot: its fields plus spot counts
// broken down by status.
type LotSummary struct {
    ID               uint64   `json:"id"`
    Name             string   `json:"name"`
    Address          string   `json:"address"`
    Description      *string  `json:"description,omitempty"`
    OperatingHours   *string  `json:"operating_hours,omitempty"`
    Latitude         *float64 `json:"latitude,omitempty"`
    Longitude        *float64 `json:"longitude,omitempty"`
    TotalSpots       int      `json:"total_spots"`
    AvailableSpots   int      `json:"available_spots"`
    OccupiedSpots    int      `json:"occupied_spots"`
    ReservedSpots    int      `json:"reserved_spots"`
    MaintenanceSpots int      `json:"maintenance_spots"`
}

// ListWithSpotCounts returns all lots with their per-status spot
// counts, ordered by name.
func (r *LotRepo) ListWithSpotCounts(ctx context.Context) ([]LotSummary, error) {
    const q = `SELECT pl.id, pl.name, pl.address, pl.description, pl.operating_hours, pl.latitude, pl.longitude,
                      COUNT(ps.id),
                      COALESCE(SUM(ps.status = 'AVAILABLE'), 0),
                      COALESCE(SUM(ps.status = 'OCCUPIED'), 0),
                      COALESCE(SUM(ps.status = 'RESERVED'), 0),
                      COALESCE(SUM(ps.status = 'MAINTENANCE'), 0)
               FROM parking_lots pl
               LEFT JOIN parking_spots ps ON ps.parking_lot_id = pl.id
               GROUP BY pl.id, pl.name, pl.address, pl.description, pl.operating_hours, pl.latitude, pl.longitude
               ORDER BY pl.name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    summaries := make([]LotSummary, 0)
    for rows.Next() {
        var s LotSummary
        if err := rows.Scan(
            &s.ID, &s.Name, &s.Address, &s.Description, &s.OperatingHours, &s.Latitude, &s.Longitude,
            &s.TotalSpots, &s.AvailableSpots, &s.OccupiedSpots, &s.ReservedSpots, &s.MaintenanceSpots,
        ); err != nil {
            return nil, err
        }
        summaries = append(summaries, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return summaries, nil
}

// SpotTypeDetail summarizes the spots of one type inside a lot along
// with the type's fee cap when one is configured.
type SpotTypeDetail struct {
    TypeName       string        `json:"type_name"`
    Description    *string       `json:"description,omitempty"`
    TotalCount     int           `json:"total_count"`
    AvailableCount int           `json:"available_count"`
    OccupiedCount  int           `json:"occupied_count"`
    DailyMaxCap    *float64      `json:"daily_max_cap,omitempty"`
    FeeRules       []FeeRuleView `json:"fee_rules,omitempty"`
}

// SpotSummary is the abbreviated spot view embedded in a lot detail.
type SpotSummary struct {
    ID         uint64 `json:"id"`
    SpotName   string `json:"spot_name"`
    FloorLevel int    `json:"floor_level"`
    Status     string `json:"status"`
    TypeName   string `json:"type_name"`
}

// LotDetail is the full detail view of a lot: lot fields, every spot
// with its type, and per-type counts with fee information.
type LotDetail struct {
    ID             uint64           `json:"id"`
    Name           string           `json:"name"`
    Address        string           `json:"address"`
    Description    *string          `json:"description,omitempty"`
    OperatingHours *string          `json:"operating_hours,omitempty"`
    Latitude       *float64         `json:"latitude,omitempty"`
    Longitude      *float64         `json:"longitude,omitempty"`
    TotalSpots     int              `json:"total_spots"`
    AvailableSpots int              `json:"available_spots"`
    OccupiedSpots  int              `json:"occupied_spots"`
    SpotTypes      []SpotTypeDetail `json:"spot_types"`
    Spots          []SpotSummary    `json:"spots"`
}

// GetDetail loads a lot together with its spots, spot types and fee
// caps.  Returns ErrLotNotFound when the lot does not exist.
func (r *LotRepo) GetDetail(ctx context.Context, id uint64) (*LotDetail, error) {
    const q = `SELECT id, name, address, description, operating_hours, latitude, longitude
               FROM parking_lots WHERE id = ?`
    var det LotDetail
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &det.ID, &det.Name, &det.Address, &det.Description, &det.OperatingHours, &det.Latitude, &det.Longitude,
    )
    if err == sql.ErrNoRows {
        return nil, ErrLotNotFound
    }
    if err != nil {
        return nil, err
    }
    det.Spots = []SpotSummary{}
    det.SpotTypes = []SpotTypeDetail{}

    const spotQ = `SELECT ps.id, ps.spot_name, ps.floor_level, ps.status, st.name
                   FROM parking_spots ps
                   JOIN spot_types st ON st.id = ps.spot_type_id
                   WHERE ps.parking_lot_id = ?
                   ORDER BY ps.floor_level, ps.spot_name`
    rows, err := r.db.QueryContext(ctx, spotQ, id)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var s SpotSummary
        if err := rows.Scan(&s.ID, &s.SpotName, &s.FloorLevel, &s.Status, &s.TypeName); err != nil {
            return nil, err
        }
        det.TotalSpots++
        switch s.Status {
        case model.SpotAvailable:
            det.AvailableSpots++
        case model.SpotOccupied:
            det.OccupiedSpots++
        }
        det.Spots = append(det.Spots, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }

    // Per-type breakdown with the optional fee cap configured for the type.
    const typeQ = `SELECT st.name, st.description,
                          COUNT(ps.id),
                          COALESCE(SUM(ps.status = 'AVAILABLE'), 0),
                          COALESCE(SUM(ps.status = 'OCCUPIED'), 0),
                          f.daily_max_cap
                   FROM parking_spots ps
                   JOIN spot_types st ON st.id = ps.spot_type_id
                   LEFT JOIN fees f ON f.spot_type_id = st.id
                   WHERE ps.parking_lot_id = ?
                   GROUP BY st.id, st.name, st.description, f.daily_max_cap
                   ORDER BY st.name`
    trows, err := r.db.QueryContext(ctx, typeQ, id)
    if err != nil {
        return nil, err
    }
    defer trows.Close()
    for trows.Next() {
        var t SpotTypeDetail
        if err := trows.Scan(&t.TypeName, &t.Description, &t.TotalCount, &t.AvailableCount, &t.OccupiedCount, &t.DailyMaxCap); err != nil {
            return nil, err
        }
        det.SpotTypes = append(det.SpotTypes, t)
    }
    if err := trows.Err(); err != nil {
        return nil, err
    }

    // Pricing rules for the types present in this lot.
    const ruleQ = `SELECT st.name, fr.id, fr.priority, fr.days_of_week, fr.time_start, fr.time_end, fr.charge_type, fr.charge_amount
                   FROM fee_rules fr
                   JOIN fees f ON f.id = fr.fee_id
                   JOIN spot_types st ON st.id = f.spot_type_id
                   WHERE f.spot_type_id IN (SELECT DISTINCT spot_type_id FROM parking_spots WHERE parking_lot_id = ?)
                   ORDER BY st.name, fr.priority`
    rrows, err := r.db.QueryContext(ctx, ruleQ, id)
    if err != nil {
        return nil, err
    }
    defer rrows.Close()
    rulesByType := make(map[string][]FeeRuleView)
    for rrows.Next() {
        var typeName string
        var rule FeeRuleView
        if err := rrows.Scan(&typeName, &rule.ID, &rule.Priority, &rule.DaysOfWeek, &rule.TimeStart, &rule.TimeEnd,
            &rule.ChargeType, &rule.ChargeAmount); err != nil {
            return nil, err
        }
        rulesByType[typeName] = append(rulesByType[typeName], rule)
    }
    if err := rrows.Err(); err != nil {
        return nil, err
    }
    for i := range det.SpotTypes {
        det.SpotTypes[i].FeeRules = rulesByType[det.SpotTypes[i].TypeName]
    }
    return &det, nil
}
