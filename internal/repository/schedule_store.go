// ScheduleStore adapts the MySQL schema to the scheduling engine's
// Store interface.  It is the only write path for showtimes and for the
// derived film status, and it provides the per-hall transactional
// section the engine wraps around validation and writes.
package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/cinema-programming/internal/model"
    "github.com/iliyamo/cinema-programming/internal/scheduling"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so every query below
// runs identically inside and outside a hall-locked transaction.
type dbtx interface {
    ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
    QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ScheduleStore implements scheduling.Store on MySQL.
type ScheduleStore struct {
    db *sql.DB
    q  dbtx
}

// NewScheduleStore constructs a ScheduleStore with the given DB handle.
func NewScheduleStore(db *sql.DB) *ScheduleStore {
    return &ScheduleStore{db: db, q: db}
}

// WithHallLock begins a transaction, takes a write lock on the hall row
// and runs fn with a transaction-bound store.  Concurrent bookings of
// the same hall therefore serialize at the database: two requests
// cannot both pass validation and both commit.  The transaction commits
// when fn returns nil and rolls back otherwise.
func (s *ScheduleStore) WithHallLock(ctx context.Context, hallID uint64, fn func(ctx context.Context, tx scheduling.Store) error) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() {
        if err != nil {
            _ = tx.Rollback()
        } else {
            _ = tx.Commit()
        }
    }()
    var one int
    err = tx.QueryRowContext(ctx, `SELECT 1 FROM halls WHERE id = ? FOR UPDATE`, hallID).Scan(&one)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            err = scheduling.ErrHallNotFound
        }
        return err
    }
    err = fn(ctx, &ScheduleStore{db: s.db, q: tx})
    return err
}

// FilmByID fetches a film for the engine, mapping missing rows to the
// engine's sentinel.
func (s *ScheduleStore) FilmByID(ctx context.Context, id uint64) (*model.Film, error) {
    const q = `SELECT ` + filmColumns + ` FROM films WHERE id = ?`
    f, err := scanFilm(s.q.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, scheduling.ErrFilmNotFound
        }
        return nil, err
    }
    return f, nil
}

// HasFutureShowtime reports whether the film has a showtime starting at
// or after the given instant.
func (s *ScheduleStore) HasFutureShowtime(ctx context.Context, filmID uint64, at time.Time) (bool, error) {
    const q = `SELECT EXISTS(SELECT 1 FROM showtimes WHERE film_id = ? AND starts_at >= ?)`
    var exists bool
    if err := s.q.QueryRowContext(ctx, q, filmID, at).Scan(&exists); err != nil {
        return false, err
    }
    return exists, nil
}

// UpdateFilmStatus writes only the status column.  Writing an unchanged
// value affects zero rows and is not an error.
func (s *ScheduleStore) UpdateFilmStatus(ctx context.Context, filmID uint64, status string) error {
    const q = `UPDATE films SET status = ? WHERE id = ? AND status <> ?`
    _, err := s.q.ExecContext(ctx, q, status, filmID, status)
    return err
}

// ShowtimeByID fetches a showtime for the engine.
func (s *ScheduleStore) ShowtimeByID(ctx context.Context, id uint64) (*model.Showtime, error) {
    const q = `SELECT ` + showtimeColumns + showtimeJoins + ` WHERE st.id = ?`
    st, err := scanShowtime(s.q.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, scheduling.ErrShowtimeNotFound
        }
        return nil, err
    }
    return st, nil
}

// OverlappingShowtimes returns every showtime in the hall except
// excludeID that intersects [from, to), ordered by start time then id
// so the engine reports the earliest collision deterministically.
func (s *ScheduleStore) OverlappingShowtimes(ctx context.Context, hallID, excludeID uint64, from, to time.Time) ([]model.Showtime, error) {
    const q = `SELECT ` + showtimeColumns + showtimeJoins + `
               WHERE st.hall_id = ? AND st.id <> ? AND st.starts_at < ? AND st.ends_at > ?
               ORDER BY st.starts_at, st.id`
    rows, err := s.q.QueryContext(ctx, q, hallID, excludeID, to, from)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Showtime
    for rows.Next() {
        st, err := scanShowtime(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *st)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// ShowtimeExistsAt reports whether the exact (film, hall, starts_at)
// triple is already scheduled.
func (s *ScheduleStore) ShowtimeExistsAt(ctx context.Context, filmID, hallID uint64, startsAt time.Time) (bool, error) {
    const q = `SELECT EXISTS(SELECT 1 FROM showtimes WHERE film_id = ? AND hall_id = ? AND starts_at = ?)`
    var exists bool
    if err := s.q.QueryRowContext(ctx, q, filmID, hallID, startsAt).Scan(&exists); err != nil {
        return false, err
    }
    return exists, nil
}

// CreateShowtime inserts a new showtime and populates the generated ID
// and timestamps on the given struct.
func (s *ScheduleStore) CreateShowtime(ctx context.Context, st *model.Showtime) error {
    const q = `INSERT INTO showtimes (film_id, hall_id, starts_at, ends_at, language, format)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := s.q.ExecContext(ctx, q, st.FilmID, st.HallID, st.StartsAt, st.EndsAt, st.Language, st.Format)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    st.ID = uint64(id)
    const sel = `SELECT created_at, updated_at FROM showtimes WHERE id = ?`
    return s.q.QueryRowContext(ctx, sel, st.ID).Scan(&st.CreatedAt, &st.UpdatedAt)
}

// UpdateShowtime rewrites the schedule fields of an existing showtime.
func (s *ScheduleStore) UpdateShowtime(ctx context.Context, st *model.Showtime) error {
    const q = `UPDATE showtimes
               SET film_id = ?, hall_id = ?, starts_at = ?, ends_at = ?, language = ?, format = ?,
                   updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    res, err := s.q.ExecContext(ctx, q, st.FilmID, st.HallID, st.StartsAt, st.EndsAt, st.Language, st.Format, st.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        var one int
        if err := s.q.QueryRowContext(ctx, `SELECT 1 FROM showtimes WHERE id = ?`, st.ID).Scan(&one); err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return scheduling.ErrShowtimeNotFound
            }
            return err
        }
    }
    return nil
}

// DeleteShowtime removes a showtime row.
func (s *ScheduleStore) DeleteShowtime(ctx context.Context, id uint64) error {
    res, err := s.q.ExecContext(ctx, `DELETE FROM showtimes WHERE id = ?`, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return scheduling.ErrShowtimeNotFound
    }
    return nil
}
