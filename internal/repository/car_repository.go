package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/parking-reservation/internal/model"
)

// CarRepo provides persistence for cars and the user_cars ownership
// relation.  Ownership is many-to-many: reserving a spot requires the
// car to be in the requesting user's ownership set.
type CarRepo struct {
    db *sql.DB
}

// NewCarRepo returns a new CarRepo bound to the given database.
func NewCarRepo(db *sql.DB) *CarRepo { return &CarRepo{db: db} }

// Create inserts a new car and populates its generated ID.  The
// unique license-plate index backs PlateExists.
func (r *CarRepo) Create(ctx context.Context, c *model.Car) error {
    res, err := r.db.ExecContext(ctx, `INSERT INTO cars (license_plate, model, color) VALUES (?, ?, ?)`,
        c.LicensePlate, c.Model, c.Color)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    c.ID = uint64(id)
    return nil
}

// GetByID returns a single car or ErrCarNotFound.
func (r *CarRepo) GetByID(ctx context.Context, id uint64) (*model.Car, error) {
    var c model.Car
    err := r.db.QueryRowContext(ctx, `SELECT id, license_plate, model, color FROM cars WHERE id = ?`, id).
        Scan(&c.ID, &c.LicensePlate, &c.Model, &c.Color)
    if err == sql.ErrNoRows {
        return nil, ErrCarNotFound
    }
    if err != nil {
        return nil, err
    }
    return &c, nil
}

// PlateExists reports whether a car with the given license plate
// exists.
func (r *CarRepo) PlateExists(ctx context.Context, plate string) (bool, error) {
    var ok bool
    err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM cars WHERE license_plate = ?)`, plate).Scan(&ok)
    return ok, err
}

// ExistsTx reports within the given transaction whether a car with
// the given ID exists.
func (r *CarRepo) ExistsTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
    var ok bool
    err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM cars WHERE id = ?)`, id).Scan(&ok)
    return ok, err
}

// AddOwner records that the user owns the car.  Returns ErrConflict
// when the ownership row already exists.
func (r *CarRepo) AddOwner(ctx context.Context, userID, carID uint64) error {
    owned, err := r.IsOwnedByUser(ctx, carID, userID)
    if err != nil {
        return err
    }
    if owned {
        return ErrConflict
    }
    _, err = r.db.ExecContext(ctx, `INSERT INTO user_cars (user_id, car_id) VALUES (?, ?)`, userID, carID)
    return err
}

// IsOwnedByUser reports whether the car belongs to the user's
// ownership set.
func (r *CarRepo) IsOwnedByUser(ctx context.Context, carID, userID uint64) (bool, error) {
    var ok bool
    err := r.db.QueryRowContext(ctx,
        `SELECT EXISTS(SELECT 1 FROM user_cars WHERE car_id = ? AND user_id = ?)`,
        carID, userID,
    ).Scan(&ok)
    return ok, err
}

// IsOwnedByUserTx is IsOwnedByUser evaluated inside an existing
// transaction.  Admission control uses it between the spot lock and
// the reservation insert.
func (r *CarRepo) IsOwnedByUserTx(ctx context.Context, tx *sql.Tx, carID, userID uint64) (bool, error) {
    var ok bool
    err := tx.QueryRowContext(ctx,
        `SELECT EXISTS(SELECT 1 FROM user_cars WHERE car_id = ? AND user_id = ?)`,
        carID, userID,
    ).Scan(&ok)
    return ok, err
}

// ListByUser returns the cars in the user's ownership set ordered by
// license plate.
func (r *CarRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Car, error) {
    const q = `SELECT c.id, c.license_plate, c.model, c.color
               FROM cars c
               JOIN user_cars uc ON uc.car_id = c.id
               WHERE uc.user_id = ?
               ORDER BY c.license_plate`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    cars := make([]model.Car, 0)
    for rows.Next() {
        var c model.Car
        if err := rows.Scan(&c.ID, &c.LicensePlate, &c.Model, &c.Color); err != nil {
            return nil, err
        }
        cars = append(cars, c)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return cars, nil
}
