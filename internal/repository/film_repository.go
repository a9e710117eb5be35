// Package repository contains data access logic for the Film domain.
// Films carry a derived status column that only the scheduling engine
// writes, through UpdateStatus; every other method leaves it alone.
package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/cinema-programming/internal/model"
)

// FilmRepo manages persistence for films, their genres and their cast.
type FilmRepo struct {
    db *sql.DB
}

// NewFilmRepo constructs a FilmRepo with the given DB handle.
func NewFilmRepo(db *sql.DB) *FilmRepo {
    return &FilmRepo{db: db}
}

const filmColumns = `id, title, synopsis, director, duration_minutes, release_date,
                     poster_url, trailer_url, external_id, status, created_at, updated_at`

func scanFilm(row interface{ Scan(...any) error }) (*model.Film, error) {
    var f model.Film
    var duration sql.NullInt32
    var release sql.NullTime
    var poster, trailer, external sql.NullString
    err := row.Scan(&f.ID, &f.Title, &f.Synopsis, &f.Director, &duration, &release,
        &poster, &trailer, &external, &f.Status, &f.CreatedAt, &f.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if duration.Valid {
        d := uint32(duration.Int32)
        f.DurationMinutes = &d
    }
    if release.Valid {
        t := release.Time
        f.ReleaseDate = &t
    }
    if poster.Valid {
        f.PosterURL = &poster.String
    }
    if trailer.Valid {
        f.TrailerURL = &trailer.String
    }
    if external.Valid {
        f.ExternalID = &external.String
    }
    return &f, nil
}

// Create inserts a new film and reads the row back so the generated ID,
// the default status and the timestamps are populated.  The status
// column is left to its DB default; the caller is expected to run a
// status refresh through the engine right after.
func (r *FilmRepo) Create(ctx context.Context, f *model.Film) error {
    const q = `INSERT INTO films (title, synopsis, director, duration_minutes, release_date,
                                  poster_url, trailer_url, external_id)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, f.Title, f.Synopsis, f.Director,
        f.DurationMinutes, f.ReleaseDate, f.PosterURL, f.TrailerURL, f.ExternalID)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    fresh, err := r.GetByID(ctx, uint64(id))
    if err != nil {
        return err
    }
    *f = *fresh
    return nil
}

// GetByID retrieves a film by its ID.  It returns ErrFilmNotFound if
// there is no matching row.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (*model.Film, error) {
    const q = `SELECT ` + filmColumns + ` FROM films WHERE id = ?`
    f, err := scanFilm(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrFilmNotFound
        }
        return nil, err
    }
    return f, nil
}

// GetByExternalID retrieves a film by its external catalog identifier.
// Used by the catalog importer to make re-imports idempotent.
func (r *FilmRepo) GetByExternalID(ctx context.Context, externalID string) (*model.Film, error) {
    const q = `SELECT ` + filmColumns + ` FROM films WHERE external_id = ?`
    f, err := scanFilm(r.db.QueryRowContext(ctx, q, externalID))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrFilmNotFound
        }
        return nil, err
    }
    return f, nil
}

// List returns films ordered by title, optionally filtered by status.
func (r *FilmRepo) List(ctx context.Context, status string) ([]model.Film, error) {
    q := `SELECT ` + filmColumns + ` FROM films`
    var args []any
    if status != "" {
        q += ` WHERE status = ?`
        args = append(args, status)
    }
    q += ` ORDER BY title`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Film
    for rows.Next() {
        f, err := scanFilm(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *f)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Update writes a film's editable fields.  The status column is
// deliberately excluded: it belongs to the scheduling engine.
func (r *FilmRepo) Update(ctx context.Context, f *model.Film) error {
    const q = `UPDATE films
               SET title = ?, synopsis = ?, director = ?, duration_minutes = ?, release_date = ?,
                   poster_url = ?, trailer_url = ?, external_id = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, f.Title, f.Synopsis, f.Director,
        f.DurationMinutes, f.ReleaseDate, f.PosterURL, f.TrailerURL, f.ExternalID, f.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        var one int
        if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM films WHERE id = ?`, f.ID).Scan(&one); err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return ErrFilmNotFound
            }
            return err
        }
    }
    return nil
}

// UpdateStatus persists only the status column of a film.  It is the
// single write path for the derived status and never touches other
// fields.  Writing the value already stored is a harmless no-op.
func (r *FilmRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
    const q = `UPDATE films SET status = ? WHERE id = ? AND status <> ?`
    _, err := r.db.ExecContext(ctx, q, status, id, status)
    return err
}

// Delete removes a film together with its cast links, genre links and
// showtimes inside one transaction.  Returns ErrFilmNotFound when the
// film does not exist.
func (r *FilmRepo) Delete(ctx context.Context, id uint64) error {
    tx, err := r.db.BeginTx(ctx, nil)
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
    err = tx.QueryRowContext(ctx, `SELECT 1 FROM films WHERE id = ?`, id).Scan(&one)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return ErrFilmNotFound
        }
        return err
    }
    if _, err = tx.ExecContext(ctx, `DELETE FROM film_cast WHERE film_id = ?`, id); err != nil {
        return err
    }
    if _, err = tx.ExecContext(ctx, `DELETE FROM film_genres WHERE film_id = ?`, id); err != nil {
        return err
    }
    if _, err = tx.ExecContext(ctx, `DELETE FROM showtimes WHERE film_id = ?`, id); err != nil {
        return err
    }
    _, err = tx.ExecContext(ctx, `DELETE FROM films WHERE id = ?`, id)
    return err
}

// SetGenres replaces the film's genre set, creating unknown genre names
// on the fly.  Genre names are unique; concurrent inserts of the same
// name fall back to a lookup.
func (r *FilmRepo) SetGenres(ctx context.Context, filmID uint64, names []string) error {
    tx, err := r.db.BeginTx(ctx, nil)
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
    if _, err = tx.ExecContext(ctx, `DELETE FROM film_genres WHERE film_id = ?`, filmID); err != nil {
        return err
    }
    for _, name := range names {
        var genreID uint64
        res, insErr := tx.ExecContext(ctx, `INSERT INTO genres (name) VALUES (?)`, name)
        if insErr == nil {
            id, _ := res.LastInsertId()
            genreID = uint64(id)
        } else if isDuplicateKey(insErr) {
            if err = tx.QueryRowContext(ctx, `SELECT id FROM genres WHERE name = ?`, name).Scan(&genreID); err != nil {
                return err
            }
        } else {
            err = insErr
            return err
        }
        if _, err = tx.ExecContext(ctx,
            `INSERT INTO film_genres (film_id, genre_id) VALUES (?, ?)`, filmID, genreID); err != nil {
            return err
        }
    }
    return nil
}

// GenresByFilm returns the film's genre names ordered alphabetically.
func (r *FilmRepo) GenresByFilm(ctx context.Context, filmID uint64) ([]string, error) {
    const q = `SELECT g.name
               FROM genres g
               JOIN film_genres fg ON fg.genre_id = g.id
               WHERE fg.film_id = ?
               ORDER BY g.name`
    rows, err := r.db.QueryContext(ctx, q, filmID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []string
    for rows.Next() {
        var name string
        if err := rows.Scan(&name); err != nil {
            return nil, err
        }
        out = append(out, name)
    }
    return out, rows.Err()
}

// ReplaceCast rebuilds the film's cast list.  The existing links are
// dropped and re-inserted so duplicates and stale billing orders cannot
// survive an import.  Unknown people are created by name.
func (r *FilmRepo) ReplaceCast(ctx context.Context, filmID uint64, cast []model.CastCredit) error {
    tx, err := r.db.BeginTx(ctx, nil)
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
    if _, err = tx.ExecContext(ctx, `DELETE FROM film_cast WHERE film_id = ?`, filmID); err != nil {
        return err
    }
    for _, credit := range cast {
        var personID uint64
        res, insErr := tx.ExecContext(ctx, `INSERT INTO people (name) VALUES (?)`, credit.Name)
        if insErr == nil {
            id, _ := res.LastInsertId()
            personID = uint64(id)
        } else if isDuplicateKey(insErr) {
            if err = tx.QueryRowContext(ctx, `SELECT id FROM people WHERE name = ?`, credit.Name).Scan(&personID); err != nil {
                return err
            }
        } else {
            err = insErr
            return err
        }
        if _, err = tx.ExecContext(ctx,
            `INSERT INTO film_cast (film_id, person_id, character_name, billing_order, is_main)
             VALUES (?, ?, ?, ?, ?)`,
            filmID, personID, credit.CharacterName, credit.BillingOrder, credit.IsMain); err != nil {
            return err
        }
    }
    return nil
}

// CastByFilm returns the film's cast ordered by billing order.
func (r *FilmRepo) CastByFilm(ctx context.Context, filmID uint64) ([]model.CastCredit, error) {
    const q = `SELECT fc.person_id, p.name, fc.character_name, fc.billing_order, fc.is_main
               FROM film_cast fc
               JOIN people p ON p.id = fc.person_id
               WHERE fc.film_id = ?
               ORDER BY fc.billing_order, p.name`
    rows, err := r.db.QueryContext(ctx, q, filmID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.CastCredit
    for rows.Next() {
        var c model.CastCredit
        if err := rows.Scan(&c.PersonID, &c.Name, &c.CharacterName, &c.BillingOrder, &c.IsMain); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    return out, rows.Err()
}
