package scheduling

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/iliyamo/cinema-programming/internal/model"
)

func newTestEngine(store *fakeStore) *Engine {
    return NewEngine(store, 30*time.Minute, time.UTC, fixedClock{at: mustTime("2026-06-01T09:00:00Z")})
}

func TestUpsertDerivesEndFromDuration(t *testing.T) {
    store := newFakeStore()
    store.addHall(1, "Salle 1")
    store.addFilm(1, "Le Film", 135, nil)
    eng := newTestEngine(store)

    st, err := eng.Upsert(context.Background(), Draft{
        FilmID: 1, HallID: 1, StartsAt: mustTime("2026-06-02T20:00:00Z"),
    })
    if err != nil {
        t.Fatalf("Upsert: %v", err)
    }
    want := mustTime("2026-06-02T22:15:00Z")
    if !st.EndsAt.Equal(want) {
        t.Fatalf("EndsAt = %s, want %s", st.EndsAt, want)
    }
    if st.Language != model.LanguageVF || st.Format != model.Format2D {
        t.Fatalf("defaults not applied: lang=%s format=%s", st.Language, st.Format)
    }
    if store.films[1].Status != model.StatusNowShowing {
        t.Fatalf("film status = %s, want NOW_SHOWING", store.films[1].Status)
    }
}

func TestUpsertRejectsFilmWithoutDuration(t *testing.T) {
    store := newFakeStore()
    store.addHall(1, "Salle 1")
    store.addFilm(1, "Sans Durée", 0, nil)
    eng := newTestEngine(store)

    _, err := eng.Upsert(context.Background(), Draft{
        FilmID: 1, HallID: 1, StartsAt: mustTime("2026-06-02T20:00:00Z"),
    })
    var missing *MissingDurationError
    if !errors.As(err, &missing) {
        t.Fatalf("err = %v, want MissingDurationError", err)
    }
    if missing.FilmID != 1 || missing.Title != "Sans Durée" {
        t.Fatalf("error identifies wrong film: %+v", missing)
    }
    if len(store.showtimes) != 0 {
        t.Fatal("rejected draft was persisted")
    }
}

func TestUpsertRejectsConflictInsideBuffer(t *testing.T) {
    store := newFakeStore()
    store.addHall(1, "Salle 1")
    store.addFilm(1, "Premier", 120, nil)
    store.addFilm(2, "Second", 120, nil)
    eng := newTestEngine(store)

    if _, err := eng.Upsert(context.Background(), Draft{
        FilmID: 1, HallID: 1, StartsAt: mustTime("2026-06-02T10:00:00Z"),
    }); err != nil {
        t.Fatalf("first Upsert: %v", err)
    }

    // Ends 12:00; starting 12:15 violates the 30 min turnover.
    _, err := eng.Upsert(context.Background(), Draft{
        FilmID: 2, HallID: 1, StartsAt: mustTime("2026-06-02T12:15:00Z"),
    })
    var conflict *SchedulingConflictError
    if !errors.As(err, &conflict) {
        t.Fatalf("err = %v, want SchedulingConflictError", err)
    }
    if conflict.FilmTitle != "Premier" || conflict.HallName != "Salle 1" {
        t.Fatalf("conflict details wrong: %+v", conflict)
    }

    // 12:30 clears the buffer exactly and must pass.
    if _, err := eng.Upsert(context.Background(), Draft{
        FilmID: 2, HallID: 1, StartsAt: mustTime("2026-06-02T12:30:00Z"),
    }); err != nil {
        t.Fatalf("buffer-clearing Upsert: %v", err)
    }
}

func TestUpsertUnknownReferences(t *testing.T) {
    store := newFakeStore()
    store.addHall(1, "Salle 1")
    store.addFilm(1, "Le Film", 120, nil)
    eng := newTestEngine(store)

    if _, err := eng.Upsert(context.Background(), Draft{
        FilmID: 99, HallID: 1, StartsAt: mustTime("2026-06-02T20:00:00Z"),
    }); !errors.Is(err, ErrFilmNotFound) {
        t.Fatalf("unknown film: err = %v", err)
    }
    if _, err := eng.Upsert(context.Background(), Draft{
        FilmID: 1, HallID: 99, StartsAt: mustTime("2026-06-02T20:00:00Z"),
    }); !errors.Is(err, ErrHallNotFound) {
        t.Fatalf("unknown hall: err = %v", err)
    }
    if _, err := eng.Upsert(context.Background(), Draft{}); !errors.Is(err, ErrIncompleteDraft) {
        t.Fatalf("empty draft: err = %v", err)
    }
}

func TestUpsertUpdateMovesShowtime(t *testing.T) {
    store := newFakeStore()
    store.addHall(1, "Salle 1")
    store.addFilm(1, "Le Film", 120, nil)
    eng := newTestEngine(store)

    st, err := eng.Upsert(context.Background(), Draft{
        FilmID: 1, HallID: 1, StartsAt: mustTime("2026-06-02T20:00:00Z"),
    })
    if err != nil {
        t.Fatalf("create: %v", err)
    }

    // Shifting by 15 minutes would self-conflict without ExcludeID.
    moved, err := eng.Upsert(context.Background(), Draft{
        ID: st.ID, FilmID: 1, HallID: 1, StartsAt: mustTime("2026-06-02T20:15:00Z"),
    })
    if err != nil {
        t.Fatalf("update: %v", err)
    }
    if moved.ID != st.ID {
        t.Fatalf("update created a new record: %d != %d", moved.ID, st.ID)
    }
    if len(store.showtimes) != 1 {
        t.Fatalf("expected 1 showtime after update, got %d", len(store.showtimes))
    }
    if got := store.showtimes[st.ID].StartsAt; !got.Equal(mustTime("2026-06-02T20:15:00Z")) {
        t.Fatalf("StartsAt = %s after update", got)
    }
}

func TestUpsertUpdateRefreshesBothFilms(t *testing.T) {
    store := newFakeStore()
    store.addHall(1, "Salle 1")
    past := mustTime("2026-01-01T00:00:00Z")
    store.addFilm(1, "Ancien", 120, &past)
    store.addFilm(2, "Nouveau", 120, &past)
    eng := newTestEngine(store)

    st, err := eng.Upsert(context.Background(), Draft{
        FilmID: 1, HallID: 1, StartsAt: mustTime("2026-06-02T20:00:00Z"),
    })
    if err != nil {
        t.Fatalf("create: %v", err)
    }
    if store.films[1].Status != model.StatusNowShowing {
        t.Fatalf("film 1 status = %s", store.films[1].Status)
    }

    // Reassign the slot to film 2: film 1 loses its only showtime and
    // must fall back to ARCHIVED, film 2 becomes NOW_SHOWING.
    if _, err := eng.Upsert(context.Background(), Draft{
        ID: st.ID, FilmID: 2, HallID: 1, StartsAt: mustTime("2026-06-02T20:00:00Z"),
    }); err != nil {
        t.Fatalf("reassign: %v", err)
    }
    if store.films[2].Status != model.StatusNowShowing {
        t.Fatalf("film 2 status = %s, want NOW_SHOWING", store.films[2].Status)
    }
    if store.films[1].Status != model.StatusArchived {
        t.Fatalf("film 1 status = %s, want ARCHIVED", store.films[1].Status)
    }
}

func TestDeleteRefreshesOwningFilm(t *testing.T) {
    store := newFakeStore()
    store.addHall(1, "Salle 1")
    past := mustTime("2026-01-01T00:00:00Z")
    store.addFilm(1, "Le Film", 120, &past)
    eng := newTestEngine(store)

    st, err := eng.Upsert(context.Background(), Draft{
        FilmID: 1, HallID: 1, StartsAt: mustTime("2026-06-02T20:00:00Z"),
    })
    if err != nil {
        t.Fatalf("create: %v", err)
    }
    if err := eng.Delete(context.Background(), st.ID); err != nil {
        t.Fatalf("Delete: %v", err)
    }
    if len(store.showtimes) != 0 {
        t.Fatal("showtime not removed")
    }
    if store.films[1].Status != model.StatusArchived {
        t.Fatalf("film status = %s, want ARCHIVED after losing last showtime", store.films[1].Status)
    }

    if err := eng.Delete(context.Background(), st.ID); !errors.Is(err, ErrShowtimeNotFound) {
        t.Fatalf("second delete: err = %v", err)
    }
}
