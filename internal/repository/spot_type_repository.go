package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/parking-reservation/internal/model"
)

// SpotTypeRepo provides persistence for spot types.
type SpotTypeRepo struct {
    db *sql.DB
}

// NewSpotTypeRepo returns a new SpotTypeRepo bound to the given database.
func NewSpotTypeRepo(db *sql.DB) *SpotTypeRepo { return &SpotTypeRepo{db: db} }

// List returns all spot types ordered by name.
func (r *SpotTypeRepo) List(ctx context.Context) ([]model.SpotType, error) {
    rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM spot_types ORDER BY name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    types := make([]model.SpotType, 0)
    for rows.Next() {
        var t model.SpotType
        if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
            return nil, err
        }
        types = append(types, t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return types, nil
}

// GetByID returns a single spot type or ErrSpotTypeNotFound.
func (r *SpotTypeRepo) GetByID(ctx context.Context, id uint64) (*model.SpotType, error) {
    var t model.SpotType
    err := r.db.QueryRowContext(ctx, `SELECT id, name, description FROM spot_types WHERE id = ?`, id).
        Scan(&t.ID, &t.Name, &t.Description)
    if err == sql.ErrNoRows {
        return nil, ErrSpotTypeNotFound
    }
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// NameExists reports whether a spot type with the given name exists.
func (r *SpotTypeRepo) NameExists(ctx context.Context, name string) (bool, error) {
    var ok bool
    err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM spot_types WHERE name = ?)`, name).Scan(&ok)
    return ok, err
}

// Create inserts a new spot type and populates its generated ID.
func (r *SpotTypeRepo) Create(ctx context.Context, t *model.SpotType) error {
    res, err := r.db.ExecContext(ctx, `INSERT INTO spot_types (name, description) VALUES (?, ?)`, t.Name, t.Description)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    return nil
}
