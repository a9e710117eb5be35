package scheduling

import (
    "context"
    "time"

    "github.com/iliyamo/cinema-programming/internal/model"
)

// DeriveStatus computes a film's lifecycle status from its release date
// and the existence of a future showtime.  It is a pure function; the
// rules are evaluated in order:
//
//  1. release date known and strictly after today      -> UPCOMING
//  2. at least one showtime at or after the current
//     instant                                          -> NOW_SHOWING
//  3. release date known and today or earlier          -> ARCHIVED
//  4. nothing known                                    -> UPCOMING
//
// Dates are compared by calendar day, ignoring the time of day.
func DeriveStatus(releaseDate *time.Time, hasFutureShowtime bool, today time.Time) string {
    if releaseDate != nil && dateAfter(*releaseDate, today) {
        return model.StatusUpcoming
    }
    if hasFutureShowtime {
        return model.StatusNowShowing
    }
    if releaseDate != nil {
        return model.StatusArchived
    }
    return model.StatusUpcoming
}

// dateAfter reports whether a's calendar date is strictly after b's,
// ignoring clock time and zone offsets.
func dateAfter(a, b time.Time) bool {
    ay, am, ad := a.Date()
    by, bm, bd := b.Date()
    if ay != by {
        return ay > by
    }
    if am != bm {
        return am > bm
    }
    return ad > bd
}

// RefreshFilmStatus recomputes the film's status and persists it when
// it differs from the stored value.  Only the status column is written;
// repeated calls with no underlying change are no-ops.  The derived
// status is returned either way.
func (e *Engine) RefreshFilmStatus(ctx context.Context, filmID uint64) (string, error) {
    return e.refreshStatus(ctx, e.store, filmID)
}

// refreshStatus is the transaction-aware variant used by the lifecycle
// manager after showtime mutations.
func (e *Engine) refreshStatus(ctx context.Context, s Store, filmID uint64) (string, error) {
    film, err := s.FilmByID(ctx, filmID)
    if err != nil {
        return "", err
    }
    now := e.clock.Now()
    hasFuture, err := s.HasFutureShowtime(ctx, filmID, now)
    if err != nil {
        return "", err
    }
    status := DeriveStatus(film.ReleaseDate, hasFuture, now.In(e.loc))
    if status != film.Status {
        if err := s.UpdateFilmStatus(ctx, filmID, status); err != nil {
            return "", err
        }
    }
    return status, nil
}
