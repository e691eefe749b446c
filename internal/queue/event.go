// Package queue defines message payloads exchanged over the message broker.
package queue

import (
    "time"

    "github.com/google/uuid"
)

// ActivityQueueName is the durable queue carrying movie log activity.
const ActivityQueueName = "movie.activity"

// Event kinds published for movie log changes.
const (
    MovieCreated = "movie.created"
    MovieUpdated = "movie.updated"
    MovieDeleted = "movie.deleted"
)

// MovieEvent is published whenever an entry is created, updated or deleted.
// It carries enough for the activity log to be written without querying
// the primary database. UserID is zero for anonymous changes.
type MovieEvent struct {
    ID      string `json:"id"`
    Event   string `json:"event"`
    MovieID uint64 `json:"movie_id"`
    UserID  uint64 `json:"user_id,omitempty"`
    Title   string `json:"title"`
    At      string `json:"at"`
}

// NewMovieEvent stamps a new event with a random id and the current UTC time.
func NewMovieEvent(kind string, movieID, userID uint64, title string) MovieEvent {
    return MovieEvent{
        ID:      uuid.NewString(),
        Event:   kind,
        MovieID: movieID,
        UserID:  userID,
        Title:   title,
        At:      time.Now().UTC().Format(time.RFC3339),
    }
}
