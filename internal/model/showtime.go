package model

import "time"

// Showtime languages and presentation formats.  These mirror the values
// accepted by the admin API; the defaults are LanguageVF and Format2D.
const (
    LanguageVF     = "VF"
    LanguageVOSTFR = "VOSTFR"
)

const (
    Format2D    = "2D"
    Format3D    = "3D"
    FormatIMAX  = "IMAX"
    Format4DX   = "4DX"
    FormatDolby = "DOLBY"
)

// Showtime represents a scheduled screening of one film in one hall.
// EndsAt is always derived from StartsAt plus the film's duration; the
// scheduling engine recomputes it on every write and callers can never
// supply it.  FilmTitle and HallName are denormalized from joins for
// listings and conflict messages; they are not columns of showtimes.
//
// Fields:
//  ID        – primary key identifier.
//  FilmID    – film being screened.
//  HallID    – hall where the screening takes place.
//  StartsAt  – when the screening begins.
//  EndsAt    – StartsAt + film duration (derived).
//  Language  – audio language tag (VF, VOSTFR).
//  Format    – presentation format tag (2D, 3D, IMAX, 4DX, DOLBY).
//  FilmTitle – title of the referenced film (join).
//  HallName  – name of the referenced hall (join).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Showtime struct {
    ID        uint64    // showtimes.id
    FilmID    uint64    // showtimes.film_id
    HallID    uint64    // showtimes.hall_id
    StartsAt  time.Time // showtimes.starts_at
    EndsAt    time.Time // showtimes.ends_at
    Language  string    // showtimes.language
    Format    string    // showtimes.format
    FilmTitle string    // films.title (join)
    HallName  string    // halls.name (join)
    CreatedAt time.Time // showtimes.created_at
    UpdatedAt time.Time // showtimes.updated_at
}

// ValidLanguage reports whether s is an accepted language tag.
func ValidLanguage(s string) bool {
    return s == LanguageVF || s == LanguageVOSTFR
}

// ValidFormat reports whether s is an accepted presentation format.
func ValidFormat(s string) bool {
    switch s {
    case Format2D, Format3D, FormatIMAX, Format4DX, FormatDolby:
        return true
    }
    return false
}
