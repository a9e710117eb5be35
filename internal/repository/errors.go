// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  For
// example, ErrHallInUse indicates that a hall cannot be deleted while
// showtimes still reference it, while ErrNameTaken signals a unique
// name collision on insert or update.
package repository

import "errors"

// ErrFilmNotFound is returned when a film lookup fails.
var ErrFilmNotFound = errors.New("film not found")

// ErrHallNotFound is returned when a hall lookup fails.
var ErrHallNotFound = errors.New("hall not found")

// ErrShowtimeNotFound is returned when a showtime lookup fails.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrNameTaken is returned when an insert or update collides with a
// unique name constraint (halls, genres, people).  Handlers should
// translate this into an HTTP 409 response.
var ErrNameTaken = errors.New("name already taken")

// ErrHallInUse is returned when a hall delete is refused because
// showtimes still reference the hall (protect-on-delete).  Handlers
// should translate this into an HTTP 409 response.
var ErrHallInUse = errors.New("hall still has showtimes")
