package scheduling

import (
    "context"
    "time"

    "github.com/iliyamo/cinema-programming/internal/model"
)

// Store is the narrow view of the entity store the engine depends on.
// The production implementation lives in internal/repository and is
// backed by MySQL; tests use an in-memory fake.  Implementations must
// return the package sentinels (ErrFilmNotFound, ErrShowtimeNotFound,
// ErrHallNotFound) for missing rows.
type Store interface {
    // FilmByID fetches a film including its duration, release date and
    // current stored status.
    FilmByID(ctx context.Context, id uint64) (*model.Film, error)

    // HasFutureShowtime reports whether the film has at least one
    // showtime starting at or after the given instant.
    HasFutureShowtime(ctx context.Context, filmID uint64, at time.Time) (bool, error)

    // UpdateFilmStatus persists only the status column of a film.  It
    // must not touch or re-validate any other field.
    UpdateFilmStatus(ctx context.Context, filmID uint64, status string) error

    // ShowtimeByID fetches a showtime with its film title and hall name.
    ShowtimeByID(ctx context.Context, id uint64) (*model.Showtime, error)

    // OverlappingShowtimes returns every showtime in the hall, except
    // excludeID, whose interval intersects [from, to), ordered by
    // starts_at then id.
    OverlappingShowtimes(ctx context.Context, hallID, excludeID uint64, from, to time.Time) ([]model.Showtime, error)

    // ShowtimeExistsAt reports whether a showtime with the exact
    // (film, hall, starts_at) triple already exists.
    ShowtimeExistsAt(ctx context.Context, filmID, hallID uint64, startsAt time.Time) (bool, error)

    CreateShowtime(ctx context.Context, s *model.Showtime) error
    UpdateShowtime(ctx context.Context, s *model.Showtime) error
    DeleteShowtime(ctx context.Context, id uint64) error

    // WithHallLock runs fn inside a transaction holding a write lock on
    // the hall row, so validation and write of a booking serialize per
    // hall.  fn receives a Store bound to that transaction.  The
    // transaction commits when fn returns nil and rolls back otherwise.
    WithHallLock(ctx context.Context, hallID uint64, fn func(ctx context.Context, tx Store) error) error
}

// Clock abstracts the current time so tests can pin "now".
type Clock interface {
    Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
