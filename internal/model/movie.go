package model

import (
    "database/sql"
    "strconv"
)

// Movie represents one logged entry in the `movieLog` table.
//
// Fields:
//  ID       – primary key identifier (movieLog.movielogID).
//  Title    – film title.
//  Director – film director.
//  Genre    – genre label chosen from the form's select.
//  Year     – release year.
//  Rating   – the user's rating.
//  Comments – free text, stored after profanity filtering.
//  OwnerID  – users.userID of the creator; NULL for legacy/anonymous entries.
type Movie struct {
    ID       uint64        `db:"id"`
    Title    string        `db:"title"`
    Director string        `db:"director"`
    Genre    string        `db:"genre"`
    Year     int           `db:"year"`
    Rating   float64       `db:"rating"`
    Comments string        `db:"comments"`
    OwnerID  sql.NullInt64 `db:"owner_id"`
}

// OwnedBy reports whether the entry belongs to the given user.
func (m Movie) OwnedBy(userID uint64) bool {
    return m.OwnerID.Valid && uint64(m.OwnerID.Int64) == userID
}

// MovieScope selects which rows a listing or search may return. All is
// set for anonymous visitors; otherwise only rows owned by OwnerID match.
type MovieScope struct {
    All     bool
    OwnerID uint64
}

// MovieForm carries the raw values submitted by the add and edit forms.
// Every field is a string so that validation can report blanks before any
// conversion happens.
type MovieForm struct {
    ID       string `form:"id"`
    Title    string `form:"title"`
    Director string `form:"director"`
    Genre    string `form:"genre"`
    Year     string `form:"year"`
    Rating   string `form:"rating"`
    Comments string `form:"comments"`
}

// FormFromMovie fills a form with the stored values of an entry, used to
// pre-populate the edit page.
func FormFromMovie(m Movie) MovieForm {
    return MovieForm{
        ID:       formatUint(m.ID),
        Title:    m.Title,
        Director: m.Director,
        Genre:    m.Genre,
        Year:     formatInt(int64(m.Year)),
        Rating:   formatFloat(m.Rating),
        Comments: m.Comments,
    }
}

func formatUint(v uint64) string { return strconv.FormatUint(v, 10) }

func formatInt(v int64) string { return strconv.FormatInt(v, 10) }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
