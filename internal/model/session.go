package model

// Session is the server-side record correlating a client's cookie with an
// authenticated identity. A nil *Session means the client is anonymous;
// a non-nil one always has both fields populated.
type Session struct {
    UserID   uint64 `json:"user_id" db:"user_id"`
    Username string `json:"username" db:"username"`
}
