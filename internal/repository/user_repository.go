package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/parking-reservation/internal/model"
)

// UserRepo provides persistence for users.
type UserRepo struct {
    db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user and populates the generated ID and
// timestamps.  Callers hash the password before handing it over; the
// unique email index is the database backstop behind EmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
    const q = `INSERT INTO users (full_name, email, password_hash) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, u.FullName, u.Email, u.PasswordHash)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    u.ID = uint64(id)
    const sel = `SELECT created_at, updated_at FROM users WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, u.ID).Scan(&u.CreatedAt, &u.UpdatedAt)
}

// GetByID returns a single user or ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
    const q = `SELECT id, full_name, email, password_hash, created_at, updated_at FROM users WHERE id = ?`
    var u model.User
    err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrUserNotFound
    }
    if err != nil {
        return nil, err
    }
    return &u, nil
}

// List returns all users ordered by ID.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
    rows, err := r.db.QueryContext(ctx, `SELECT id, full_name, email, password_hash, created_at, updated_at FROM users ORDER BY id`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    users := make([]model.User, 0)
    for rows.Next() {
        var u model.User
        if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
            return nil, err
        }
        users = append(users, u)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return users, nil
}

// EmailExists reports whether a user with the given email exists.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
    var ok bool
    err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email).Scan(&ok)
    return ok, err
}

// ExistsTx reports within the given transaction whether a user with
// the given ID exists.  Admission control uses this so the check sees
// the same snapshot as the reservation insert.
func (r *UserRepo) ExistsTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
    var ok bool
    err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, id).Scan(&ok)
    return ok, err
}
