// Package repository contains data access logic for Showtime read
// paths used by handlers: per-hall listings and the daily programme.
// All write paths for showtimes go through ScheduleStore so the
// scheduling engine keeps its validation and status guarantees.
package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/cinema-programming/internal/model"
)

// ShowtimeRepo provides read access to showtimes.
type ShowtimeRepo struct {
    db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo {
    return &ShowtimeRepo{db: db}
}

const showtimeColumns = `st.id, st.film_id, st.hall_id, st.starts_at, st.ends_at,
                         st.language, st.format, f.title, h.name, st.created_at, st.updated_at`

const showtimeJoins = ` FROM showtimes st
                        JOIN films f ON f.id = st.film_id
                        JOIN halls h ON h.id = st.hall_id`

func scanShowtime(row interface{ Scan(...any) error }) (*model.Showtime, error) {
    var s model.Showtime
    err := row.Scan(&s.ID, &s.FilmID, &s.HallID, &s.StartsAt, &s.EndsAt,
        &s.Language, &s.Format, &s.FilmTitle, &s.HallName, &s.CreatedAt, &s.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &s, nil
}

// GetByID retrieves a showtime with its film title and hall name.  It
// returns ErrShowtimeNotFound when there is no matching row.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
    const q = `SELECT ` + showtimeColumns + showtimeJoins + ` WHERE st.id = ?`
    s, err := scanShowtime(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrShowtimeNotFound
        }
        return nil, err
    }
    return s, nil
}

// ListByHall returns all showtimes of a hall ordered by start time.
func (r *ShowtimeRepo) ListByHall(ctx context.Context, hallID uint64) ([]model.Showtime, error) {
    const q = `SELECT ` + showtimeColumns + showtimeJoins + `
               WHERE st.hall_id = ?
               ORDER BY st.starts_at, st.id`
    return r.queryShowtimes(ctx, q, hallID)
}

// ListByFilm returns all showtimes of a film ordered by start time.
func (r *ShowtimeRepo) ListByFilm(ctx context.Context, filmID uint64) ([]model.Showtime, error) {
    const q = `SELECT ` + showtimeColumns + showtimeJoins + `
               WHERE st.film_id = ?
               ORDER BY st.starts_at, st.id`
    return r.queryShowtimes(ctx, q, filmID)
}

// ListByRange returns every showtime starting within [from, to),
// ordered by start time.  The daily programme endpoint uses it with the
// local midnight bounds of the requested date.
func (r *ShowtimeRepo) ListByRange(ctx context.Context, from, to time.Time) ([]model.Showtime, error) {
    const q = `SELECT ` + showtimeColumns + showtimeJoins + `
               WHERE st.starts_at >= ? AND st.starts_at < ?
               ORDER BY st.starts_at, st.id`
    return r.queryShowtimes(ctx, q, from, to)
}

func (r *ShowtimeRepo) queryShowtimes(ctx context.Context, q string, args ...any) ([]model.Showtime, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Showtime
    for rows.Next() {
        s, err := scanShowtime(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
