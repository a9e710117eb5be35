package scheduling

import (
    "context"
    "errors"
    "time"

    "github.com/iliyamo/cinema-programming/internal/model"
)

// DefaultTurnover is the turnover buffer applied when the engine is
// built with a non-positive buffer.
const DefaultTurnover = 30 * time.Minute

// Engine coordinates conflict validation, showtime persistence and film
// status derivation.  All writes of one operation run inside a single
// store transaction holding the hall lock, so concurrent bookings of
// the same hall serialize and a showtime is never stored without its
// dependent status refresh.
type Engine struct {
    store  Store
    buffer time.Duration
    loc    *time.Location
    clock  Clock
}

// NewEngine builds an Engine.  loc is the cinema's active time zone,
// used for recurrence expansion and "today" comparisons; nil means UTC.
// A nil clock means the system clock.
func NewEngine(store Store, buffer time.Duration, loc *time.Location, clock Clock) *Engine {
    if buffer <= 0 {
        buffer = DefaultTurnover
    }
    if loc == nil {
        loc = time.UTC
    }
    if clock == nil {
        clock = systemClock{}
    }
    return &Engine{store: store, buffer: buffer, loc: loc, clock: clock}
}

// Buffer returns the configured turnover buffer.
func (e *Engine) Buffer() time.Duration { return e.buffer }

// Location returns the active time zone.
func (e *Engine) Location() *time.Location { return e.loc }

// Draft is the caller-supplied part of a showtime.  ID zero creates a
// new record, non-zero updates an existing one.  EndsAt is absent on
// purpose: it is always derived from the film's duration.
type Draft struct {
    ID       uint64
    FilmID   uint64
    HallID   uint64
    StartsAt time.Time
    Language string
    Format   string
}

// ErrIncompleteDraft rejects drafts missing the film, hall or start time.
var ErrIncompleteDraft = errors.New("film, hall and start time are required")

// Upsert validates and persists a showtime draft.  Steps, in order:
// resolve the film and require a duration, derive ends_at, check the
// hall for conflicts, write the record, then refresh the status of the
// owning film (and of the previously owning film when an update moved
// the showtime to another film).  Validation runs before any write; if
// any step fails the transaction rolls back and nothing is stored.
func (e *Engine) Upsert(ctx context.Context, d Draft) (*model.Showtime, error) {
    if d.FilmID == 0 || d.HallID == 0 || d.StartsAt.IsZero() {
        return nil, ErrIncompleteDraft
    }
    if d.Language == "" {
        d.Language = model.LanguageVF
    }
    if d.Format == "" {
        d.Format = model.Format2D
    }

    var out *model.Showtime
    err := e.store.WithHallLock(ctx, d.HallID, func(ctx context.Context, tx Store) error {
        film, err := tx.FilmByID(ctx, d.FilmID)
        if err != nil {
            return err
        }
        if film.DurationMinutes == nil || *film.DurationMinutes == 0 {
            return &MissingDurationError{FilmID: film.ID, Title: film.Title}
        }
        endsAt := d.StartsAt.Add(time.Duration(*film.DurationMinutes) * time.Minute)

        hit, err := CheckConflict(ctx, tx, e.buffer, Candidate{
            HallID:    d.HallID,
            StartsAt:  d.StartsAt,
            EndsAt:    endsAt,
            ExcludeID: d.ID,
        })
        if err != nil {
            return err
        }
        if hit != nil {
            return &SchedulingConflictError{
                ShowtimeID: hit.ID,
                FilmTitle:  hit.FilmTitle,
                HallID:     hit.HallID,
                HallName:   hit.HallName,
                StartsAt:   hit.StartsAt,
                EndsAt:     hit.EndsAt,
                Buffer:     e.buffer,
            }
        }

        st := &model.Showtime{
            ID:        d.ID,
            FilmID:    d.FilmID,
            HallID:    d.HallID,
            StartsAt:  d.StartsAt,
            EndsAt:    endsAt,
            Language:  d.Language,
            Format:    d.Format,
            FilmTitle: film.Title,
        }
        var prevFilmID uint64
        if d.ID == 0 {
            if err := tx.CreateShowtime(ctx, st); err != nil {
                return err
            }
        } else {
            prev, err := tx.ShowtimeByID(ctx, d.ID)
            if err != nil {
                return err
            }
            prevFilmID = prev.FilmID
            if err := tx.UpdateShowtime(ctx, st); err != nil {
                return err
            }
        }

        if _, err := e.refreshStatus(ctx, tx, d.FilmID); err != nil {
            return err
        }
        if prevFilmID != 0 && prevFilmID != d.FilmID {
            if _, err := e.refreshStatus(ctx, tx, prevFilmID); err != nil && !errors.Is(err, ErrFilmNotFound) {
                return err
            }
        }
        out = st
        return nil
    })
    if err != nil {
        return nil, err
    }
    return out, nil
}

// Delete removes a showtime and refreshes the status of the film that
// owned it, provided that film still exists.
func (e *Engine) Delete(ctx context.Context, id uint64) error {
    st, err := e.store.ShowtimeByID(ctx, id)
    if err != nil {
        return err
    }
    return e.store.WithHallLock(ctx, st.HallID, func(ctx context.Context, tx Store) error {
        if err := tx.DeleteShowtime(ctx, id); err != nil {
            return err
        }
        if _, err := e.refreshStatus(ctx, tx, st.FilmID); err != nil {
            if errors.Is(err, ErrFilmNotFound) {
                return nil
            }
            return err
        }
        return nil
    })
}
