package handler // handler package contains admin film endpoints

import (
    "errors"   // errors package for comparing sentinels
    "net/http" // http defines status code constants
    "strings"  // strings manipulates and trims text
    "time"     // time parses release dates

    "github.com/labstack/echo/v4" // echo framework supplies request context

    "github.com/iliyamo/cinema-programming/internal/catalog"    // catalog provides external provider errors
    "github.com/iliyamo/cinema-programming/internal/model"      // model holds the Film entity
    "github.com/iliyamo/cinema-programming/internal/repository" // repository exposes database access
    "github.com/iliyamo/cinema-programming/internal/scheduling" // scheduling exposes engine sentinels
)

// filmBody is the payload accepted by create and update.  All fields
// except title are optional.  The status field is absent on purpose:
// status is derived by the scheduling engine and can never be set.
type filmBody struct {
    Title           *string  `json:"title"`
    Synopsis        *string  `json:"synopsis"`
    Director        *string  `json:"director"`
    DurationMinutes *uint32  `json:"duration_minutes"`
    ReleaseDate     *string  `json:"release_date"` // YYYY-MM-DD, empty clears
    PosterURL       *string  `json:"poster_url"`
    TrailerURL      *string  `json:"trailer_url"`
    Genres          []string `json:"genres"`
}

// applyFilmBody folds the payload into the film, returning a message on
// validation failure.
func applyFilmBody(f *model.Film, b *filmBody) string {
    if b.Title != nil {
        t := strings.TrimSpace(*b.Title)
        if t == "" {
            return "title must not be empty"
        }
        f.Title = t
    }
    if b.Synopsis != nil {
        f.Synopsis = strings.TrimSpace(*b.Synopsis)
    }
    if b.Director != nil {
        f.Director = strings.TrimSpace(*b.Director)
    }
    if b.DurationMinutes != nil {
        if *b.DurationMinutes == 0 {
            f.DurationMinutes = nil
        } else {
            d := *b.DurationMinutes
            f.DurationMinutes = &d
        }
    }
    if b.ReleaseDate != nil {
        s := strings.TrimSpace(*b.ReleaseDate)
        if s == "" {
            f.ReleaseDate = nil
        } else {
            t, err := time.Parse("2006-01-02", s)
            if err != nil {
                return "release_date must be YYYY-MM-DD"
            }
            f.ReleaseDate = &t
        }
    }
    if b.PosterURL != nil {
        if s := strings.TrimSpace(*b.PosterURL); s != "" {
            f.PosterURL = &s
        } else {
            f.PosterURL = nil
        }
    }
    if b.TrailerURL != nil {
        if s := strings.TrimSpace(*b.TrailerURL); s != "" {
            f.TrailerURL = &s
        } else {
            f.TrailerURL = nil
        }
    }
    return ""
}

// CreateFilm handles POST /v1/films.  The film's status is derived
// right after the insert so a film with a future release date starts as
// UPCOMING without waiting for its first showtime.
func (h *AdminHandler) CreateFilm(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    var body filmBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    if body.Title == nil || strings.TrimSpace(*body.Title) == "" {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "title is required"})
    }
    var film model.Film
    if msg := applyFilmBody(&film, &body); msg != "" {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
    }
    ctx := c.Request().Context()
    if err := h.Films.Create(ctx, &film); err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create film"})
    }
    if len(body.Genres) > 0 {
        if err := h.Films.SetGenres(ctx, film.ID, trimNonEmpty(body.Genres)); err != nil {
            return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not set genres"})
        }
    }
    if status, err := h.Engine.RefreshFilmStatus(ctx, film.ID); err == nil {
        film.Status = status
    }
    view := toFilmView(&film)
    view.Genres, _ = h.Films.GenresByFilm(ctx, film.ID)
    return c.JSON(http.StatusCreated, view)
}

// ListFilms handles GET /v1/films with an optional ?status= filter.
func (h *AdminHandler) ListFilms(c echo.Context) error {
    status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
    if status != "" && status != model.StatusUpcoming && status != model.StatusNowShowing && status != model.StatusArchived {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown status filter"})
    }
    items, err := h.Films.List(c.Request().Context(), status)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    views := make([]filmView, 0, len(items))
    for i := range items {
        views = append(views, toFilmView(&items[i]))
    }
    return c.JSON(http.StatusOK, map[string]any{"items": views})
}

// GetFilm handles GET /v1/films/:id and includes genres and cast.
func (h *AdminHandler) GetFilm(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    film, err := h.Films.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrFilmNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "film not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    view := toFilmView(film)
    if genres, err := h.Films.GenresByFilm(ctx, id); err == nil {
        view.Genres = genres
    }
    if cast, err := h.Films.CastByFilm(ctx, id); err == nil {
        view.Cast = toCastViews(cast)
    }
    return c.JSON(http.StatusOK, view)
}

// UpdateFilm handles PUT /v1/films/:id.  Changing the release date or
// duration can move the film's derived status, so a refresh runs after
// the write.
func (h *AdminHandler) UpdateFilm(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
    }
    ctx := c.Request().Context()
    film, err := h.Films.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrFilmNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "film not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    var body filmBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    if msg := applyFilmBody(film, &body); msg != "" {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
    }
    if err := h.Films.Update(ctx, film); err != nil {
        if errors.Is(err, repository.ErrFilmNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "film not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
    }
    if body.Genres != nil {
        if err := h.Films.SetGenres(ctx, id, trimNonEmpty(body.Genres)); err != nil {
            return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not set genres"})
        }
    }
    if status, err := h.Engine.RefreshFilmStatus(ctx, id); err == nil {
        film.Status = status
    }
    view := toFilmView(film)
    view.Genres, _ = h.Films.GenresByFilm(ctx, id)
    return c.JSON(http.StatusOK, view)
}

// DeleteFilm handles DELETE /v1/films/:id.  The film's showtimes and
// catalog links go with it.
func (h *AdminHandler) DeleteFilm(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
    }
    if err := h.Films.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrFilmNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "film not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// RefreshFilmStatus handles POST /v1/films/:id/status/refresh and
// returns the freshly derived status.  Useful for nightly cron sweeps
// and after bulk imports.
func (h *AdminHandler) RefreshFilmStatus(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
    }
    status, err := h.Engine.RefreshFilmStatus(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, scheduling.ErrFilmNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "film not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "refresh failed"})
    }
    return c.JSON(http.StatusOK, map[string]string{"status": status})
}

// ListFilmShowtimes handles GET /v1/films/:id/showtimes.
func (h *AdminHandler) ListFilmShowtimes(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
    }
    if _, err := h.Films.GetByID(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrFilmNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "film not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    items, err := h.Showtimes.ListByFilm(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, map[string]any{"items": toShowtimeViews(items)})
}

// SearchCatalog handles GET /v1/catalog/search?q=.  Answers 503 when no
// catalog API key is configured.
func (h *AdminHandler) SearchCatalog(c echo.Context) error {
    if h.Provider == nil {
        return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "catalog not configured"})
    }
    q := strings.TrimSpace(c.QueryParam("q"))
    if q == "" {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "q is required"})
    }
    items, err := h.Provider.Search(c.Request().Context(), q, 0)
    if err != nil {
        var perr *catalog.ProviderError
        if errors.As(err, &perr) {
            return c.JSON(http.StatusBadGateway, map[string]string{"error": perr.Message})
        }
        return c.JSON(http.StatusBadGateway, map[string]string{"error": "catalog lookup failed"})
    }
    return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// ImportFilm handles POST /v1/films/import with {"external_id": "..."}.
// Re-importing an already imported film only fills empty fields.
func (h *AdminHandler) ImportFilm(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    if h.Importer == nil {
        return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "catalog not configured"})
    }
    var body struct {
        ExternalID string `json:"external_id"`
    }
    if err := c.Bind(&body); err != nil || strings.TrimSpace(body.ExternalID) == "" {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "external_id is required"})
    }
    ctx := c.Request().Context()
    film, created, err := h.Importer.ImportFilm(ctx, strings.TrimSpace(body.ExternalID))
    if err != nil {
        var perr *catalog.ProviderError
        if errors.As(err, &perr) {
            if perr.StatusCode == http.StatusNotFound {
                return c.JSON(http.StatusNotFound, map[string]string{"error": "film not found in catalog"})
            }
            return c.JSON(http.StatusBadGateway, map[string]string{"error": perr.Message})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "import failed"})
    }
    view := toFilmView(film)
    view.Genres, _ = h.Films.GenresByFilm(ctx, film.ID)
    if cast, err := h.Films.CastByFilm(ctx, film.ID); err == nil {
        view.Cast = toCastViews(cast)
    }
    code := http.StatusOK
    if created {
        code = http.StatusCreated
    }
    return c.JSON(code, view)
}

// trimNonEmpty trims each entry and drops blanks.
func trimNonEmpty(in []string) []string {
    out := make([]string, 0, len(in))
    for _, s := range in {
        if t := strings.TrimSpace(s); t != "" {
            out = append(out, t)
        }
    }
    return out
}
