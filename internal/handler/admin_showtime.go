package handler // handler package contains admin showtime endpoints

import (
    "context"  // detached context for post-commit event publishing
    "errors"   // errors package for comparing sentinels
    "log"      // log records ignored publish failures
    "net/http" // http defines status code constants
    "strings"  // strings trims request fields
    "time"     // time parses start instants

    "github.com/labstack/echo/v4" // echo framework supplies request context

    "github.com/iliyamo/cinema-programming/internal/model"            // model validates language and format tags
    "github.com/iliyamo/cinema-programming/internal/queue"            // queue defines the schedule change event
    "github.com/iliyamo/cinema-programming/internal/scheduling"       // scheduling runs all showtime writes
    queuepub "github.com/iliyamo/cinema-programming/internal/service" // service publishes events to the broker
)

// showtimeBody is the payload for create and update.  ends_at is absent
// on purpose: it is always derived from the film's duration.
type showtimeBody struct {
    FilmID   uint64 `json:"film_id"`
    HallID   uint64 `json:"hall_id"`
    StartsAt string `json:"starts_at"` // RFC 3339
    Language string `json:"language"`  // VF (default) | VOSTFR
    Format   string `json:"format"`    // 2D (default) | 3D | IMAX | 4DX | DOLBY
}

// parseShowtimeBody validates the payload and returns a draft plus a
// message on failure.
func parseShowtimeBody(b *showtimeBody) (scheduling.Draft, string) {
    var d scheduling.Draft
    if b.FilmID == 0 || b.HallID == 0 {
        return d, "film_id and hall_id are required"
    }
    startsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(b.StartsAt))
    if err != nil {
        return d, "starts_at must be RFC 3339 (e.g. 2026-06-02T20:00:00Z)"
    }
    lang := strings.ToUpper(strings.TrimSpace(b.Language))
    if lang != "" && !model.ValidLanguage(lang) {
        return d, "language must be VF or VOSTFR"
    }
    format := strings.ToUpper(strings.TrimSpace(b.Format))
    if format != "" && !model.ValidFormat(format) {
        return d, "format must be one of 2D, 3D, IMAX, 4DX, DOLBY"
    }
    d.FilmID = b.FilmID
    d.HallID = b.HallID
    d.StartsAt = startsAt
    d.Language = lang
    d.Format = format
    return d, ""
}

// scheduleError translates engine errors into HTTP responses.  Conflict
// responses carry the colliding showtime so clients can render it.
func scheduleError(c echo.Context, err error) error {
    var missing *scheduling.MissingDurationError
    if errors.As(err, &missing) {
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": missing.Error()})
    }
    var conflict *scheduling.SchedulingConflictError
    if errors.As(err, &conflict) {
        return c.JSON(http.StatusConflict, echo.Map{
            "error": conflict.Error(),
            "conflict": echo.Map{
                "showtime_id": conflict.ShowtimeID,
                "film_title":  conflict.FilmTitle,
                "hall_id":     conflict.HallID,
                "hall_name":   conflict.HallName,
                "starts_at":   conflict.StartsAt.UTC().Format(time.RFC3339),
                "ends_at":     conflict.EndsAt.UTC().Format(time.RFC3339),
                "buffer_min":  int(conflict.Buffer.Minutes()),
            },
        })
    }
    var invalid *scheduling.InvalidRecurrenceSpecError
    if errors.As(err, &invalid) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid recurrence spec", "reasons": invalid.Reasons})
    }
    switch {
    case errors.Is(err, scheduling.ErrFilmNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
    case errors.Is(err, scheduling.ErrHallNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
    case errors.Is(err, scheduling.ErrShowtimeNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
    case errors.Is(err, scheduling.ErrIncompleteDraft):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "schedule operation failed"})
}

// publishScheduleChange emits a broker event after a committed showtime
// mutation.  Failures are logged and dropped: the write has already
// committed and the API response must not depend on the broker.
func publishScheduleChange(action string, st *model.Showtime) {
    ev := queue.ScheduleChangedEvent{
        Action:     action,
        ShowtimeID: st.ID,
        FilmID:     st.FilmID,
        FilmTitle:  st.FilmTitle,
        HallID:     st.HallID,
        HallName:   st.HallName,
        StartsAt:   st.StartsAt.UTC().Format(time.RFC3339),
        EndsAt:     st.EndsAt.UTC().Format(time.RFC3339),
        Language:   st.Language,
        Format:     st.Format,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    }
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := queuepub.PublishScheduleChanged(ctx, ev); err != nil {
        log.Printf("schedule event publish failed (action=%s showtime=%d): %v", action, st.ID, err)
    }
}

// CreateShowtime handles POST /v1/showtimes.
func (h *AdminHandler) CreateShowtime(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body showtimeBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    draft, msg := parseShowtimeBody(&body)
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    st, err := h.Engine.Upsert(c.Request().Context(), draft)
    if err != nil {
        return scheduleError(c, err)
    }
    // The hall name is filled by the store on read paths only; reload
    // for a complete view.
    if fresh, err := h.Showtimes.GetByID(c.Request().Context(), st.ID); err == nil {
        st = fresh
    }
    go publishScheduleChange(queue.ActionCreated, st)
    return c.JSON(http.StatusCreated, toShowtimeView(st))
}

// UpdateShowtime handles PUT /v1/showtimes/:id.  The update is a full
// re-validation: film, hall and start may all change and the conflict
// check runs against the new hall.
func (h *AdminHandler) UpdateShowtime(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body showtimeBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    draft, msg := parseShowtimeBody(&body)
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    draft.ID = id
    st, err := h.Engine.Upsert(c.Request().Context(), draft)
    if err != nil {
        return scheduleError(c, err)
    }
    if fresh, err := h.Showtimes.GetByID(c.Request().Context(), st.ID); err == nil {
        st = fresh
    }
    go publishScheduleChange(queue.ActionUpdated, st)
    return c.JSON(http.StatusOK, toShowtimeView(st))
}

// DeleteShowtime handles DELETE /v1/showtimes/:id.
func (h *AdminHandler) DeleteShowtime(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    // Snapshot before delete so the event still carries the schedule.
    st, err := h.Showtimes.GetByID(c.Request().Context(), id)
    if err == nil {
        if err := h.Engine.Delete(c.Request().Context(), id); err != nil {
            return scheduleError(c, err)
        }
        go publishScheduleChange(queue.ActionDeleted, st)
        return c.NoContent(http.StatusNoContent)
    }
    if err := h.Engine.Delete(c.Request().Context(), id); err != nil {
        return scheduleError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// GetShowtime handles GET /v1/showtimes/:id.
func (h *AdminHandler) GetShowtime(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    st, err := h.Showtimes.GetByID(c.Request().Context(), id)
    if err != nil {
        return scheduleError(c, scheduling.ErrShowtimeNotFound)
    }
    return c.JSON(http.StatusOK, toShowtimeView(st))
}

// BulkCreateShowtimes handles POST /v1/showtimes/bulk with a recurrence
// spec.  The response reports every candidate outcome: created
// showtimes, skipped duplicates and per-candidate failures.  A partial
// result is still a 200; only a rejected spec is a 400.
func (h *AdminHandler) BulkCreateShowtimes(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var spec scheduling.RecurrenceSpec
    if err := c.Bind(&spec); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    res, err := h.Engine.Expand(c.Request().Context(), spec)
    if err != nil {
        if res == nil {
            return scheduleError(c, err)
        }
        // Cancelled mid-batch: report what was done before the cut.
        log.Printf("bulk showtime expansion interrupted: %v", err)
    }
    for _, st := range res.Created {
        go publishScheduleChange(queue.ActionCreated, st)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "created": toShowtimeViewsPtr(res.Created),
        "skipped": res.Skipped,
        "failed":  res.Failed,
    })
}

func toShowtimeViewsPtr(items []*model.Showtime) []showtimeView {
    out := make([]showtimeView, 0, len(items))
    for _, st := range items {
        out = append(out, toShowtimeView(st))
    }
    return out
}
