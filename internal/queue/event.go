// Package queue defines message payloads exchanged over the message broker.
package queue

// Actions carried by ScheduleChangedEvent.
const (
    ActionCreated = "CREATED"
    ActionUpdated = "UPDATED"
    ActionDeleted = "DELETED"
)

// ScheduleChangedEvent is published after a showtime mutation commits.
// It contains enough information for downstream consumers to log,
// notify, or rebuild display boards without querying the primary
// database.
type ScheduleChangedEvent struct {
    Action     string `json:"action"` // CREATED, UPDATED or DELETED
    ShowtimeID uint64 `json:"showtime_id"`
    FilmID     uint64 `json:"film_id"`
    FilmTitle  string `json:"film_title"`
    HallID     uint64 `json:"hall_id"`
    HallName   string `json:"hall_name"`
    StartsAt   string `json:"starts_at"`
    EndsAt     string `json:"ends_at"`
    Language   string `json:"language"`
    Format     string `json:"format"`
    OccurredAt string `json:"occurred_at"`
}
