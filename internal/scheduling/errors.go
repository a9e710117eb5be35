// Package scheduling implements the cinema's programming engine: showtime
// conflict detection with a turnover buffer, derivation of a film's
// lifecycle status from its schedule, and recurring showtime expansion.
// This file defines the error taxonomy of the engine.  Conflicts and
// malformed recurrence specs are normal negative results carried by
// typed errors so handlers can translate them into precise responses.
package scheduling

import (
    "errors"
    "fmt"
    "strings"
    "time"
)

// ErrFilmNotFound is returned by Store implementations when a film
// lookup fails.
var ErrFilmNotFound = errors.New("film not found")

// ErrShowtimeNotFound is returned by Store implementations when a
// showtime lookup or delete targets a row that does not exist.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrHallNotFound is returned by Store implementations when the hall
// referenced by a draft does not exist.
var ErrHallNotFound = errors.New("hall not found")

// MissingDurationError reports that a showtime references a film whose
// duration is unknown.  The end time of a showtime is derived from the
// film's duration, so such a film can never be scheduled.
type MissingDurationError struct {
    FilmID uint64 // ID of the film lacking a duration
    Title  string // title of the film, for user-facing messages
}

func (e *MissingDurationError) Error() string {
    return fmt.Sprintf("film %q (id=%d) has no duration; set duration_minutes before scheduling", e.Title, e.FilmID)
}

// SchedulingConflictError reports that a candidate showtime overlaps an
// existing one in the same hall once the turnover buffer is applied.
// It carries the earliest colliding showtime so callers can report a
// deterministic, specific collision.
type SchedulingConflictError struct {
    ShowtimeID uint64        // ID of the colliding showtime
    FilmTitle  string        // film occupying the hall
    HallID     uint64        // contended hall
    HallName   string        // hall name, for user-facing messages
    StartsAt   time.Time     // colliding window start
    EndsAt     time.Time     // colliding window end (before buffer)
    Buffer     time.Duration // configured turnover buffer
}

func (e *SchedulingConflictError) Error() string {
    return fmt.Sprintf("hall %q is occupied by %q (%s–%s); %d min turnover is required between showtimes",
        e.HallName, e.FilmTitle,
        e.StartsAt.Format("2006-01-02 15:04"), e.EndsAt.Format("15:04"),
        int(e.Buffer.Minutes()))
}

// InvalidRecurrenceSpecError rejects a recurrence expansion before any
// candidate is generated.  Reasons collects every problem found in the
// spec (bad date range, unparseable time tokens, missing references) so
// the caller sees them all at once rather than one at a time.
type InvalidRecurrenceSpecError struct {
    Reasons []string
}

func (e *InvalidRecurrenceSpecError) Error() string {
    return "invalid recurrence spec: " + strings.Join(e.Reasons, "; ")
}
