package handler // handler package contains the public programme endpoints

import (
    "net/http" // http defines status code constants
    "strings"  // strings trims the date parameter
    "time"     // time computes the local day bounds

    "github.com/labstack/echo/v4" // echo framework supplies request context

    "github.com/iliyamo/cinema-programming/internal/model" // model holds domain entities
)

// programEntry is one film of the daily programme together with its
// screenings for that day, ordered by start time.
type programEntry struct {
    Film      filmView       `json:"film"`
    Showtimes []showtimeView `json:"showtimes"`
}

// Program handles GET /v1/program?date=YYYY-MM-DD.  The date defaults
// to today in the cinema's time zone.  Showtimes are grouped by film;
// films keep their first-screening order so the earliest show of the
// day leads the page.
func (h *AdminHandler) Program(c echo.Context) error {
    loc := h.Engine.Location()
    day := time.Now().In(loc)
    if raw := strings.TrimSpace(c.QueryParam("date")); raw != "" {
        parsed, err := time.ParseInLocation("2006-01-02", raw, loc)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
        }
        day = parsed
    }
    from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
    to := from.AddDate(0, 0, 1)

    ctx := c.Request().Context()
    items, err := h.Showtimes.ListByRange(ctx, from, to)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    // Group by film, preserving first-screening order.
    var order []uint64
    grouped := make(map[uint64][]model.Showtime)
    for _, st := range items {
        if _, seen := grouped[st.FilmID]; !seen {
            order = append(order, st.FilmID)
        }
        grouped[st.FilmID] = append(grouped[st.FilmID], st)
    }

    entries := make([]programEntry, 0, len(order))
    for _, filmID := range order {
        sts := grouped[filmID]
        entry := programEntry{Showtimes: toShowtimeViews(sts)}
        if film, err := h.Films.GetByID(ctx, filmID); err == nil {
            entry.Film = toFilmView(film)
            if genres, err := h.Films.GenresByFilm(ctx, filmID); err == nil {
                entry.Film.Genres = genres
            }
        } else {
            // Join guarantees the film row existed moments ago; fall
            // back to the denormalized title rather than drop the entry.
            entry.Film = filmView{ID: filmID, Title: sts[0].FilmTitle}
        }
        entries = append(entries, entry)
    }

    return c.JSON(http.StatusOK, echo.Map{
        "date":  from.Format("2006-01-02"),
        "items": entries,
    })
}

// PublicFilms handles GET /v1/films for anonymous visitors with an
// optional ?status= filter; it reuses the admin listing logic.
func (h *AdminHandler) PublicFilms(c echo.Context) error {
    return h.ListFilms(c)
}

// PublicFilm handles GET /v1/films/:id for anonymous visitors.
func (h *AdminHandler) PublicFilm(c echo.Context) error {
    return h.GetFilm(c)
}
