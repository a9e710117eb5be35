package catalog

import (
    "context"
    "errors"
    "time"

    "github.com/iliyamo/cinema-programming/internal/model"
    "github.com/iliyamo/cinema-programming/internal/repository"
)

// FilmStore is the slice of the film repository the importer needs.
type FilmStore interface {
    GetByExternalID(ctx context.Context, externalID string) (*model.Film, error)
    Create(ctx context.Context, f *model.Film) error
    Update(ctx context.Context, f *model.Film) error
    SetGenres(ctx context.Context, filmID uint64, names []string) error
    ReplaceCast(ctx context.Context, filmID uint64, cast []model.CastCredit) error
}

// StatusRefresher recomputes a film's derived status after an import.
// The scheduling engine satisfies this.
type StatusRefresher interface {
    RefreshFilmStatus(ctx context.Context, filmID uint64) (string, error)
}

// Importer upserts films from the external catalog.  Existing field
// values win over imported ones: only empty fields are filled, so a
// re-import never clobbers manual edits.  The cast list is the
// exception and is rebuilt on every import to keep ordering consistent.
type Importer struct {
    provider Provider
    films    FilmStore
    status   StatusRefresher
}

// NewImporter wires an Importer.
func NewImporter(p Provider, films FilmStore, status StatusRefresher) *Importer {
    return &Importer{provider: p, films: films, status: status}
}

// ImportFilm fetches catalog details for externalID and creates or
// updates the matching film, its genres and its cast, then refreshes
// the film's derived status.  The second return value reports whether a
// new film was created.
func (i *Importer) ImportFilm(ctx context.Context, externalID string) (*model.Film, bool, error) {
    details, err := i.provider.MovieDetails(ctx, externalID)
    if err != nil {
        return nil, false, err
    }

    film, err := i.films.GetByExternalID(ctx, details.ExternalID)
    created := false
    switch {
    case err == nil:
        if fillEmptyFields(film, details) {
            if err := i.films.Update(ctx, film); err != nil {
                return nil, false, err
            }
        }
    case errors.Is(err, repository.ErrFilmNotFound):
        film = &model.Film{Title: details.Title, ExternalID: &details.ExternalID}
        fillEmptyFields(film, details)
        if err := i.films.Create(ctx, film); err != nil {
            return nil, false, err
        }
        created = true
    default:
        return nil, false, err
    }

    if len(details.Genres) > 0 {
        if err := i.films.SetGenres(ctx, film.ID, details.Genres); err != nil {
            return nil, false, err
        }
    }
    cast := make([]model.CastCredit, 0, len(details.Cast))
    for _, c := range details.Cast {
        cast = append(cast, model.CastCredit{
            Name:          c.Name,
            CharacterName: c.Character,
            BillingOrder:  c.Order,
            IsMain:        true,
        })
    }
    if err := i.films.ReplaceCast(ctx, film.ID, cast); err != nil {
        return nil, false, err
    }

    if status, err := i.status.RefreshFilmStatus(ctx, film.ID); err != nil {
        return nil, false, err
    } else {
        film.Status = status
    }
    return film, created, nil
}

// fillEmptyFields copies catalog values into fields the film does not
// have yet and reports whether anything changed.
func fillEmptyFields(film *model.Film, d *Details) bool {
    changed := false
    if d.Title != "" && film.Title == "" {
        film.Title = d.Title
        changed = true
    }
    if d.Synopsis != "" && film.Synopsis == "" {
        film.Synopsis = d.Synopsis
        changed = true
    }
    if d.Director != "" && film.Director == "" {
        film.Director = d.Director
        changed = true
    }
    if d.DurationMinutes > 0 && (film.DurationMinutes == nil || *film.DurationMinutes == 0) {
        dur := d.DurationMinutes
        film.DurationMinutes = &dur
        changed = true
    }
    if d.PosterURL != "" && film.PosterURL == nil {
        u := d.PosterURL
        film.PosterURL = &u
        changed = true
    }
    if d.TrailerURL != "" && film.TrailerURL == nil {
        u := d.TrailerURL
        film.TrailerURL = &u
        changed = true
    }
    if d.ReleaseDate != "" && film.ReleaseDate == nil {
        if t, err := time.Parse("2006-01-02", d.ReleaseDate); err == nil {
            film.ReleaseDate = &t
            changed = true
        }
    }
    return changed
}
