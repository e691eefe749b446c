package model

// User represents an application user record as stored in the
// `users` table. Users are created on registration and are never
// mutated or deleted by the application.
//
// Fields:
//  ID           – primary key identifier of the user (users.userID).
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password (users.password).
type User struct {
    ID           uint64 `db:"id"`            // users.userID
    Username     string `db:"username"`      // users.username
    PasswordHash string `db:"password_hash"` // users.password
}
