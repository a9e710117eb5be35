package handler // handler package contains admin hall endpoints

import (
    "errors"   // errors package for comparing sentinels
    "net/http" // http defines status code constants
    "strings"  // strings manipulates and trims text

    "github.com/labstack/echo/v4" // echo framework supplies request context

    "github.com/iliyamo/cinema-programming/internal/repository" // repository exposes database access
)

// CreateHall handles POST /v1/halls.
func (h *AdminHandler) CreateHall(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    var body struct {
        Name        string  `json:"name"`        // required hall name, unique
        Description *string `json:"description"` // optional description
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    name := strings.TrimSpace(body.Name)
    if name == "" {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
    }
    var desc *string
    if body.Description != nil {
        if s := strings.TrimSpace(*body.Description); s != "" {
            desc = &s
        }
    }
    hall, err := h.Halls.Create(c.Request().Context(), name, desc)
    if err != nil {
        if errors.Is(err, repository.ErrNameTaken) {
            return c.JSON(http.StatusConflict, map[string]string{"error": "hall name already exists"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create hall"})
    }
    return c.JSON(http.StatusCreated, toHallView(hall))
}

// ListHalls handles GET /v1/halls.
func (h *AdminHandler) ListHalls(c echo.Context) error {
    items, err := h.Halls.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    views := make([]hallView, 0, len(items))
    for i := range items {
        views = append(views, toHallView(&items[i]))
    }
    return c.JSON(http.StatusOK, map[string]any{"items": views})
}

// GetHall handles GET /v1/halls/:id.
func (h *AdminHandler) GetHall(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
    }
    hall, err := h.Halls.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrHallNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "hall not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, toHallView(hall))
}

// UpdateHall handles PUT /v1/halls/:id.  Fields present in the body
// replace current values; an explicit empty description clears it.
func (h *AdminHandler) UpdateHall(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
    }
    cur, err := h.Halls.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrHallNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "hall not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    var body struct {
        Name        *string `json:"name"`
        Description *string `json:"description"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
    }
    if body.Name != nil {
        if s := strings.TrimSpace(*body.Name); s != "" {
            cur.Name = s
        } else {
            return c.JSON(http.StatusBadRequest, map[string]string{"error": "name must not be empty"})
        }
    }
    if body.Description != nil {
        if s := strings.TrimSpace(*body.Description); s != "" {
            cur.Description = &s
        } else {
            cur.Description = nil
        }
    }
    if err := h.Halls.Update(c.Request().Context(), cur); err != nil {
        switch {
        case errors.Is(err, repository.ErrHallNotFound):
            return c.JSON(http.StatusNotFound, map[string]string{"error": "hall not found"})
        case errors.Is(err, repository.ErrNameTaken):
            return c.JSON(http.StatusConflict, map[string]string{"error": "hall name already exists"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
    }
    fresh, err := h.Halls.GetByID(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, toHallView(fresh))
}

// DeleteHall handles DELETE /v1/halls/:id.  A hall still referenced by
// showtimes cannot be removed; reschedule or delete those first.
func (h *AdminHandler) DeleteHall(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
    }
    if err := h.Halls.Delete(c.Request().Context(), id); err != nil {
        switch {
        case errors.Is(err, repository.ErrHallNotFound):
            return c.JSON(http.StatusNotFound, map[string]string{"error": "hall not found"})
        case errors.Is(err, repository.ErrHallInUse):
            return c.JSON(http.StatusConflict, map[string]string{"error": "hall still has showtimes scheduled"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListHallShowtimes handles GET /v1/halls/:id/showtimes.
func (h *AdminHandler) ListHallShowtimes(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
    }
    if _, err := h.Halls.GetByID(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrHallNotFound) {
            return c.JSON(http.StatusNotFound, map[string]string{"error": "hall not found"})
        }
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    items, err := h.Showtimes.ListByHall(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
    }
    return c.JSON(http.StatusOK, map[string]any{"items": toShowtimeViews(items)})
}
