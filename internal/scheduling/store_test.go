package scheduling

import (
    "context"
    "sort"
    "time"

    "github.com/iliyamo/cinema-programming/internal/model"
)

// fakeStore is an in-memory Store used by the engine tests.  It keeps
// the same contract as the MySQL store: sentinel errors for missing
// rows and (starts_at, id) ordering for overlap queries.  Locking is a
// no-op because tests are single-goroutine.
type fakeStore struct {
    films     map[uint64]*model.Film
    halls     map[uint64]string
    showtimes map[uint64]*model.Showtime
    nextID    uint64

    statusWrites []string // "filmID:STATUS" in write order
}

func newFakeStore() *fakeStore {
    return &fakeStore{
        films:     map[uint64]*model.Film{},
        halls:     map[uint64]string{},
        showtimes: map[uint64]*model.Showtime{},
    }
}

func (f *fakeStore) addFilm(id uint64, title string, durationMin uint32, release *time.Time) *model.Film {
    film := &model.Film{ID: id, Title: title, ReleaseDate: release, Status: model.StatusUpcoming}
    if durationMin > 0 {
        d := durationMin
        film.DurationMinutes = &d
    }
    f.films[id] = film
    return film
}

func (f *fakeStore) addHall(id uint64, name string) {
    f.halls[id] = name
}

func (f *fakeStore) FilmByID(ctx context.Context, id uint64) (*model.Film, error) {
    film, ok := f.films[id]
    if !ok {
        return nil, ErrFilmNotFound
    }
    cp := *film
    return &cp, nil
}

func (f *fakeStore) HasFutureShowtime(ctx context.Context, filmID uint64, at time.Time) (bool, error) {
    for _, st := range f.showtimes {
        if st.FilmID == filmID && !st.StartsAt.Before(at) {
            return true, nil
        }
    }
    return false, nil
}

func (f *fakeStore) UpdateFilmStatus(ctx context.Context, filmID uint64, status string) error {
    film, ok := f.films[filmID]
    if !ok {
        return ErrFilmNotFound
    }
    film.Status = status
    f.statusWrites = append(f.statusWrites, status)
    return nil
}

func (f *fakeStore) ShowtimeByID(ctx context.Context, id uint64) (*model.Showtime, error) {
    st, ok := f.showtimes[id]
    if !ok {
        return nil, ErrShowtimeNotFound
    }
    cp := *st
    return &cp, nil
}

func (f *fakeStore) OverlappingShowtimes(ctx context.Context, hallID, excludeID uint64, from, to time.Time) ([]model.Showtime, error) {
    var out []model.Showtime
    for _, st := range f.showtimes {
        if st.HallID != hallID || st.ID == excludeID {
            continue
        }
        if st.StartsAt.Before(to) && st.EndsAt.After(from) {
            out = append(out, *st)
        }
    }
    sort.Slice(out, func(i, j int) bool {
        if !out[i].StartsAt.Equal(out[j].StartsAt) {
            return out[i].StartsAt.Before(out[j].StartsAt)
        }
        return out[i].ID < out[j].ID
    })
    return out, nil
}

func (f *fakeStore) ShowtimeExistsAt(ctx context.Context, filmID, hallID uint64, startsAt time.Time) (bool, error) {
    for _, st := range f.showtimes {
        if st.FilmID == filmID && st.HallID == hallID && st.StartsAt.Equal(startsAt) {
            return true, nil
        }
    }
    return false, nil
}

func (f *fakeStore) CreateShowtime(ctx context.Context, s *model.Showtime) error {
    f.nextID++
    s.ID = f.nextID
    s.HallName = f.halls[s.HallID]
    cp := *s
    f.showtimes[s.ID] = &cp
    return nil
}

func (f *fakeStore) UpdateShowtime(ctx context.Context, s *model.Showtime) error {
    if _, ok := f.showtimes[s.ID]; !ok {
        return ErrShowtimeNotFound
    }
    s.HallName = f.halls[s.HallID]
    cp := *s
    f.showtimes[s.ID] = &cp
    return nil
}

func (f *fakeStore) DeleteShowtime(ctx context.Context, id uint64) error {
    if _, ok := f.showtimes[id]; !ok {
        return ErrShowtimeNotFound
    }
    delete(f.showtimes, id)
    return nil
}

func (f *fakeStore) WithHallLock(ctx context.Context, hallID uint64, fn func(ctx context.Context, tx Store) error) error {
    if _, ok := f.halls[hallID]; !ok {
        return ErrHallNotFound
    }
    return fn(ctx, f)
}

// fixedClock pins "now" for deterministic status derivation.
type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

// mustTime parses an RFC 3339 string or panics; keeps test tables short.
func mustTime(s string) time.Time {
    t, err := time.Parse(time.RFC3339, s)
    if err != nil {
        panic(err)
    }
    return t
}
