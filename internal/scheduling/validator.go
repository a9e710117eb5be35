package scheduling

import (
    "context"
    "time"

    "github.com/iliyamo/cinema-programming/internal/model"
)

// Candidate describes the slot a showtime wants to occupy.  ExcludeID
// removes the record being updated from the comparison so a showtime
// never conflicts with itself.
type Candidate struct {
    HallID    uint64
    StartsAt  time.Time
    EndsAt    time.Time
    ExcludeID uint64
}

// Overlaps reports whether an existing occupancy interval collides with
// the candidate once the turnover buffer is applied symmetrically: the
// candidate is treated as reserving [StartsAt-buffer, EndsAt+buffer).
func Overlaps(existingStart, existingEnd, candStart, candEnd time.Time, buffer time.Duration) bool {
    return existingStart.Before(candEnd.Add(buffer)) && existingEnd.After(candStart.Add(-buffer))
}

// CheckConflict looks for showtimes in the candidate's hall whose
// occupancy collides with it.  It is read-only and returns the
// earliest-starting colliding showtime (ties broken by lowest id) or
// nil when the slot is free.  A conflict is a normal negative result,
// not an error.
func CheckConflict(ctx context.Context, store Store, buffer time.Duration, cand Candidate) (*model.Showtime, error) {
    from := cand.StartsAt.Add(-buffer)
    to := cand.EndsAt.Add(buffer)
    rows, err := store.OverlappingShowtimes(ctx, cand.HallID, cand.ExcludeID, from, to)
    if err != nil {
        return nil, err
    }
    if len(rows) == 0 {
        return nil, nil
    }
    // The store orders by (starts_at, id); keep the scan so the result
    // stays deterministic with any conforming implementation.
    first := rows[0]
    for _, s := range rows[1:] {
        if s.StartsAt.Before(first.StartsAt) || (s.StartsAt.Equal(first.StartsAt) && s.ID < first.ID) {
            first = s
        }
    }
    return &first, nil
}
