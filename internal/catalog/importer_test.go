package catalog

import (
    "context"
    "testing"

    "github.com/iliyamo/cinema-programming/internal/model"
    "github.com/iliyamo/cinema-programming/internal/repository"
)

// fakeProvider serves canned details without network access.
type fakeProvider struct {
    details map[string]*Details
}

func (p *fakeProvider) Search(ctx context.Context, query string, limit int) ([]Suggestion, error) {
    return nil, nil
}

func (p *fakeProvider) MovieDetails(ctx context.Context, id string) (*Details, error) {
    d, ok := p.details[id]
    if !ok {
        return nil, &ProviderError{Message: "not found", StatusCode: 404}
    }
    return d, nil
}

// fakeFilmStore keeps films in memory, keyed by external ID.
type fakeFilmStore struct {
    films  map[string]*model.Film
    genres map[uint64][]string
    cast   map[uint64][]model.CastCredit
    nextID uint64

    updates int
}

func newFakeFilmStore() *fakeFilmStore {
    return &fakeFilmStore{
        films:  map[string]*model.Film{},
        genres: map[uint64][]string{},
        cast:   map[uint64][]model.CastCredit{},
    }
}

func (s *fakeFilmStore) GetByExternalID(ctx context.Context, externalID string) (*model.Film, error) {
    f, ok := s.films[externalID]
    if !ok {
        return nil, repository.ErrFilmNotFound
    }
    cp := *f
    return &cp, nil
}

func (s *fakeFilmStore) Create(ctx context.Context, f *model.Film) error {
    s.nextID++
    f.ID = s.nextID
    cp := *f
    s.films[*f.ExternalID] = &cp
    return nil
}

func (s *fakeFilmStore) Update(ctx context.Context, f *model.Film) error {
    s.updates++
    cp := *f
    s.films[*f.ExternalID] = &cp
    return nil
}

func (s *fakeFilmStore) SetGenres(ctx context.Context, filmID uint64, names []string) error {
    s.genres[filmID] = names
    return nil
}

func (s *fakeFilmStore) ReplaceCast(ctx context.Context, filmID uint64, cast []model.CastCredit) error {
    s.cast[filmID] = cast
    return nil
}

// fakeRefresher records status refresh calls.
type fakeRefresher struct {
    refreshed []uint64
}

func (r *fakeRefresher) RefreshFilmStatus(ctx context.Context, filmID uint64) (string, error) {
    r.refreshed = append(r.refreshed, filmID)
    return model.StatusUpcoming, nil
}

func sampleDetails() *Details {
    return &Details{
        ExternalID:      "603",
        Title:           "Matrix",
        Synopsis:        "Un pirate informatique découvre la vérité.",
        Director:        "Lana Wachowski",
        ReleaseDate:     "1999-06-23",
        PosterURL:       "https://image.tmdb.org/t/p/w500/matrix.jpg",
        TrailerURL:      "https://www.youtube.com/watch?v=m8e-FF8MsqU",
        DurationMinutes: 136,
        Genres:          []string{"Action", "Science-Fiction"},
        Cast: []CastMember{
            {Name: "Keanu Reeves", Character: "Neo", Order: 0},
            {Name: "Carrie-Anne Moss", Character: "Trinity", Order: 1},
        },
    }
}

func TestImportFilmCreatesNewFilm(t *testing.T) {
    store := newFakeFilmStore()
    refresher := &fakeRefresher{}
    imp := NewImporter(&fakeProvider{details: map[string]*Details{"603": sampleDetails()}}, store, refresher)

    film, created, err := imp.ImportFilm(context.Background(), "603")
    if err != nil {
        t.Fatalf("ImportFilm: %v", err)
    }
    if !created {
        t.Fatal("expected created=true for a new film")
    }
    if film.Title != "Matrix" || film.Director != "Lana Wachowski" {
        t.Fatalf("film fields not filled: %+v", film)
    }
    if film.DurationMinutes == nil || *film.DurationMinutes != 136 {
        t.Fatalf("duration not imported: %v", film.DurationMinutes)
    }
    if film.ReleaseDate == nil || film.ReleaseDate.Format("2006-01-02") != "1999-06-23" {
        t.Fatalf("release date not imported: %v", film.ReleaseDate)
    }
    if got := store.genres[film.ID]; len(got) != 2 {
        t.Fatalf("genres = %v", got)
    }
    if got := store.cast[film.ID]; len(got) != 2 || got[0].Name != "Keanu Reeves" {
        t.Fatalf("cast = %v", got)
    }
    if len(refresher.refreshed) != 1 || refresher.refreshed[0] != film.ID {
        t.Fatalf("status not refreshed: %v", refresher.refreshed)
    }
}

func TestImportFilmKeepsManualEdits(t *testing.T) {
    store := newFakeFilmStore()
    refresher := &fakeRefresher{}
    imp := NewImporter(&fakeProvider{details: map[string]*Details{"603": sampleDetails()}}, store, refresher)

    if _, _, err := imp.ImportFilm(context.Background(), "603"); err != nil {
        t.Fatalf("first import: %v", err)
    }

    // A programmer fixes the synopsis by hand.
    edited := store.films["603"]
    edited.Synopsis = "Synopsis maison."

    film, created, err := imp.ImportFilm(context.Background(), "603")
    if err != nil {
        t.Fatalf("re-import: %v", err)
    }
    if created {
        t.Fatal("re-import reported created=true")
    }
    if film.Synopsis != "Synopsis maison." {
        t.Fatalf("re-import clobbered manual edit: %q", film.Synopsis)
    }
}

func TestImportFilmFillsOnlyEmptyFields(t *testing.T) {
    store := newFakeFilmStore()
    ext := "603"
    store.nextID = 1
    store.films[ext] = &model.Film{ID: 1, Title: "Matrix", ExternalID: &ext}

    refresher := &fakeRefresher{}
    imp := NewImporter(&fakeProvider{details: map[string]*Details{"603": sampleDetails()}}, store, refresher)

    film, _, err := imp.ImportFilm(context.Background(), "603")
    if err != nil {
        t.Fatalf("ImportFilm: %v", err)
    }
    if film.Director != "Lana Wachowski" {
        t.Fatal("empty director not filled")
    }
    if store.updates != 1 {
        t.Fatalf("updates = %d, want 1", store.updates)
    }
}

func TestImportFilmUnknownID(t *testing.T) {
    imp := NewImporter(&fakeProvider{details: map[string]*Details{}}, newFakeFilmStore(), &fakeRefresher{})
    _, _, err := imp.ImportFilm(context.Background(), "999")
    if err == nil {
        t.Fatal("expected provider error")
    }
}
