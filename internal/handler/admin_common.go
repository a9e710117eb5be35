package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "strconv" // strconv converts strings to numeric types
    "time"    // time formats view timestamps

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/cinema-programming/internal/catalog"    // catalog provides the external film provider and importer
    "github.com/iliyamo/cinema-programming/internal/model"      // model holds domain entities
    "github.com/iliyamo/cinema-programming/internal/repository" // repository holds data access layer
    "github.com/iliyamo/cinema-programming/internal/scheduling" // scheduling holds the programming engine
)

// AdminHandler bundles the dependencies of the programming endpoints:
// repositories for films, halls and showtime reads, the scheduling
// engine for all showtime writes, and the catalog importer.
type AdminHandler struct {
    Films     *repository.FilmRepo     // film persistence incl. genres and cast
    Halls     *repository.HallRepo     // hall persistence
    Showtimes *repository.ShowtimeRepo // showtime read paths
    Engine    *scheduling.Engine       // conflict checks, lifecycle, recurrence
    Importer  *catalog.Importer        // external catalog import (nil when no API key)
    Provider  catalog.Provider         // external catalog search (nil when no API key)
}

// NewAdminHandler constructs an AdminHandler and panics if a required
// dependency is nil.  Importer and Provider may be nil; the catalog
// endpoints then answer 503.
func NewAdminHandler(films *repository.FilmRepo, halls *repository.HallRepo, showtimes *repository.ShowtimeRepo, engine *scheduling.Engine, importer *catalog.Importer, provider catalog.Provider) *AdminHandler {
    if films == nil || halls == nil || showtimes == nil || engine == nil {
        panic("nil dependency passed to NewAdminHandler")
    }
    return &AdminHandler{
        Films:     films,
        Halls:     halls,
        Showtimes: showtimes,
        Engine:    engine,
        Importer:  importer,
        Provider:  provider,
    }
}

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric :param from the URL path.
func pathID(c echo.Context, name string) (uint64, error) {
    return strconv.ParseUint(c.Param(name), 10, 64)
}

// ----- view DTOs -----

// hallView is the JSON shape of a hall in responses.
type hallView struct {
    ID          uint64  `json:"id"`
    Name        string  `json:"name"`
    Description *string `json:"description,omitempty"`
    CreatedAt   string  `json:"created_at"`
    UpdatedAt   string  `json:"updated_at"`
}

func toHallView(h *model.Hall) hallView {
    return hallView{
        ID:          h.ID,
        Name:        h.Name,
        Description: h.Description,
        CreatedAt:   h.CreatedAt.UTC().Format(time.RFC3339),
        UpdatedAt:   h.UpdatedAt.UTC().Format(time.RFC3339),
    }
}

// castView is one cast entry of a film detail.
type castView struct {
    PersonID      uint64 `json:"person_id"`
    Name          string `json:"name"`
    CharacterName string `json:"character_name,omitempty"`
    BillingOrder  uint32 `json:"billing_order"`
}

// filmView is the JSON shape of a film in responses.  Genres and Cast
// are only populated on detail endpoints.
type filmView struct {
    ID              uint64     `json:"id"`
    Title           string     `json:"title"`
    Synopsis        string     `json:"synopsis,omitempty"`
    Director        string     `json:"director,omitempty"`
    DurationMinutes *uint32    `json:"duration_minutes,omitempty"`
    ReleaseDate     *string    `json:"release_date,omitempty"`
    PosterURL       *string    `json:"poster_url,omitempty"`
    TrailerURL      *string    `json:"trailer_url,omitempty"`
    ExternalID      *string    `json:"external_id,omitempty"`
    Status          string     `json:"status"`
    Genres          []string   `json:"genres,omitempty"`
    Cast            []castView `json:"cast,omitempty"`
}

func toFilmView(f *model.Film) filmView {
    v := filmView{
        ID:              f.ID,
        Title:           f.Title,
        Synopsis:        f.Synopsis,
        Director:        f.Director,
        DurationMinutes: f.DurationMinutes,
        PosterURL:       f.PosterURL,
        TrailerURL:      f.TrailerURL,
        ExternalID:      f.ExternalID,
        Status:          f.Status,
    }
    if f.ReleaseDate != nil {
        d := f.ReleaseDate.Format("2006-01-02")
        v.ReleaseDate = &d
    }
    return v
}

func toCastViews(cast []model.CastCredit) []castView {
    out := make([]castView, 0, len(cast))
    for _, c := range cast {
        out = append(out, castView{
            PersonID:      c.PersonID,
            Name:          c.Name,
            CharacterName: c.CharacterName,
            BillingOrder:  c.BillingOrder,
        })
    }
    return out
}

// showtimeView is the JSON shape of a showtime in responses.  Times are
// RFC 3339 in UTC.
type showtimeView struct {
    ID        uint64 `json:"id"`
    FilmID    uint64 `json:"film_id"`
    FilmTitle string `json:"film_title"`
    HallID    uint64 `json:"hall_id"`
    HallName  string `json:"hall_name"`
    StartsAt  string `json:"starts_at"`
    EndsAt    string `json:"ends_at"`
    Language  string `json:"language"`
    Format    string `json:"format"`
}

func toShowtimeView(s *model.Showtime) showtimeView {
    return showtimeView{
        ID:        s.ID,
        FilmID:    s.FilmID,
        FilmTitle: s.FilmTitle,
        HallID:    s.HallID,
        HallName:  s.HallName,
        StartsAt:  s.StartsAt.UTC().Format(time.RFC3339),
        EndsAt:    s.EndsAt.UTC().Format(time.RFC3339),
        Language:  s.Language,
        Format:    s.Format,
    }
}

func toShowtimeViews(items []model.Showtime) []showtimeView {
    out := make([]showtimeView, 0, len(items))
    for i := range items {
        out = append(out, toShowtimeView(&items[i]))
    }
    return out
}
