package model

import "time"

// User represents an application user record as stored in the
// `users` table.  JSON tags are omitted; handlers define separate
// response types with the fields they want to expose (the password
// hash in particular never leaves the service).
//
// Fields:
//  ID           – primary key identifier of the user.
//  FullName     – display name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    FullName     string    // users.full_name
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
