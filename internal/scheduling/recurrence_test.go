package scheduling

import (
    "context"
    "errors"
    "strings"
    "testing"
)

func TestExpandGeneratesMatchingDatesOnly(t *testing.T) {
    store := newFakeStore()
    store.addHall(1, "Salle 1")
    store.addFilm(1, "Le Film", 120, nil)
    eng := newTestEngine(store)

    // 2026-06-01 is a Monday.  Mondays and Thursdays over two weeks.
    res, err := eng.Expand(context.Background(), RecurrenceSpec{
        FilmID:    1,
        HallID:    1,
        StartDate: "2026-06-01",
        EndDate:   "2026-06-14",
        Times:     []string{"20:00"},
        Weekdays:  []int{0, 3},
    })
    if err != nil {
        t.Fatalf("Expand: %v", err)
    }
    if len(res.Created) != 4 {
        t.Fatalf("created %d showtimes, want 4", len(res.Created))
    }
    wantDates := []string{"2026-06-01", "2026-06-04", "2026-06-08", "2026-06-11"}
    for i, st := range res.Created {
        if got := st.StartsAt.Format("2006-01-02"); got != wantDates[i] {
            t.Fatalf("created[%d] on %s, want %s", i, got, wantDates[i])
        }
        if st.StartsAt.Hour() != 20 || st.StartsAt.Minute() != 0 {
            t.Fatalf("created[%d] at %s, want 20:00", i, st.StartsAt)
        }
    }
    if len(res.Skipped) != 0 || len(res.Failed) != 0 {
        t.Fatalf("unexpected skipped=%v failed=%v", res.Skipped, res.Failed)
    }
}

func TestExpandIsIdempotent(t *testing.T) {
    store := newFakeStore()
    store.addHall(1, "Salle 1")
    store.addFilm(1, "Le Film", 120, nil)
    eng := newTestEngine(store)

    spec := RecurrenceSpec{
        FilmID:    1,
        HallID:    1,
        StartDate: "2026-06-01",
        EndDate:   "2026-06-02",
        Times:     []string{"20:00"},
    }
    first, err := eng.Expand(context.Background(), spec)
    if err != nil {
        t.Fatalf("first Expand: %v", err)
    }
    if len(first.Created) != 2 {
        t.Fatalf("first run created %d, want 2", len(first.Created))
    }

    second, err := eng.Expand(context.Background(), spec)
    if err != nil {
        t.Fatalf("second Expand: %v", err)
    }
    if len(second.Created) != 0 {
        t.Fatalf("re-run created %d new showtimes", len(second.Created))
    }
    if len(second.Skipped) != 2 {
        t.Fatalf("re-run skipped %d, want 2: %v", len(second.Skipped), second.Skipped)
    }
    for _, s := range second.Skipped {
        if !strings.Contains(s, "already scheduled") {
            t.Fatalf("skip reason %q", s)
        }
    }
}

func TestExpandRecordsFailuresWithoutAborting(t *testing.T) {
    store := newFakeStore()
    store.addHall(1, "Salle 1")
    store.addFilm(1, "Le Film", 120, nil)
    eng := newTestEngine(store)

    // 21:00 lands inside the 20:00-22:00 screening; 22:30 clears it.
    res, err := eng.Expand(context.Background(), RecurrenceSpec{
        FilmID:    1,
        HallID:    1,
        StartDate: "2026-06-01",
        EndDate:   "2026-06-01",
        Times:     []string{"20:00, 21:00, 22:30"},
    })
    if err != nil {
        t.Fatalf("Expand: %v", err)
    }
    if len(res.Created) != 2 {
        t.Fatalf("created %d, want 2 (failures must not abort)", len(res.Created))
    }
    if len(res.Failed) != 1 {
        t.Fatalf("failed %d, want 1: %v", len(res.Failed), res.Failed)
    }
    if !strings.Contains(res.Failed[0], "2026-06-01 21:00") {
        t.Fatalf("failure not tagged with candidate: %q", res.Failed[0])
    }
}

func TestExpandRejectsBadSpecWithAllReasons(t *testing.T) {
    store := newFakeStore()
    eng := newTestEngine(store)

    _, err := eng.Expand(context.Background(), RecurrenceSpec{
        StartDate: "2026-06-10",
        EndDate:   "2026-06-01",
        Times:     []string{"20:00 25:99 abc"},
        Weekdays:  []int{7},
    })
    var invalid *InvalidRecurrenceSpecError
    if !errors.As(err, &invalid) {
        t.Fatalf("err = %v, want InvalidRecurrenceSpecError", err)
    }
    joined := strings.Join(invalid.Reasons, " | ")
    for _, want := range []string{
        "film_id is required",
        "hall_id is required",
        "end_date must not be before start_date",
        "25:99",
        "abc",
        "invalid weekday 7",
    } {
        if !strings.Contains(joined, want) {
            t.Fatalf("reasons %q missing %q", joined, want)
        }
    }
    if len(store.showtimes) != 0 {
        t.Fatal("rejected spec created showtimes")
    }
}

func TestExpandDeduplicatesTimeTokens(t *testing.T) {
    store := newFakeStore()
    store.addHall(1, "Salle 1")
    store.addFilm(1, "Le Film", 60, nil)
    eng := newTestEngine(store)

    res, err := eng.Expand(context.Background(), RecurrenceSpec{
        FilmID:    1,
        HallID:    1,
        StartDate: "2026-06-01",
        EndDate:   "2026-06-01",
        Times:     []string{"20:00;20:00", "20:00"},
    })
    if err != nil {
        t.Fatalf("Expand: %v", err)
    }
    if len(res.Created) != 1 {
        t.Fatalf("created %d, want 1 after dedupe", len(res.Created))
    }
}

func TestExpandHonorsCancellation(t *testing.T) {
    store := newFakeStore()
    store.addHall(1, "Salle 1")
    store.addFilm(1, "Le Film", 120, nil)
    eng := newTestEngine(store)

    ctx, cancel := context.WithCancel(context.Background())
    cancel()

    res, err := eng.Expand(ctx, RecurrenceSpec{
        FilmID:    1,
        HallID:    1,
        StartDate: "2026-06-01",
        EndDate:   "2026-06-30",
        Times:     []string{"20:00"},
    })
    if !errors.Is(err, context.Canceled) {
        t.Fatalf("err = %v, want context.Canceled", err)
    }
    if res == nil {
        t.Fatal("partial result must be returned on cancellation")
    }
    if len(res.Created) != 0 {
        t.Fatalf("cancelled run created %d showtimes", len(res.Created))
    }
}
