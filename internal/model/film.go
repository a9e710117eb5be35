package model

import "time"

// Film lifecycle statuses.  The status is derived by the scheduling
// engine from the release date and the showtime schedule; it is never
// written directly by API callers.
const (
    StatusUpcoming   = "UPCOMING"    // release date in the future, or nothing known yet
    StatusNowShowing = "NOW_SHOWING" // at least one showtime at or after the current instant
    StatusArchived   = "ARCHIVED"    // released in the past with no future showtime
)

// Film represents a movie in the programme.  Duration and release date
// are optional because films are often created from a partial catalog
// import before the schedule is known.  A film without a duration can
// never be scheduled.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – movie title.
//  Synopsis        – optional plot summary.
//  Director        – optional director name.
//  DurationMinutes – running time in minutes (nil if unknown).
//  ReleaseDate     – theatrical release date (nil if unknown).
//  PosterURL       – optional poster image URL.
//  TrailerURL      – optional trailer URL.
//  ExternalID      – identifier in the external movie catalog (nil if
//                    the film was created by hand).
//  Status          – derived lifecycle status (see constants above).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Film struct {
    ID              uint64     // films.id
    Title           string     // films.title
    Synopsis        string     // films.synopsis
    Director        string     // films.director
    DurationMinutes *uint32    // films.duration_minutes (nullable)
    ReleaseDate     *time.Time // films.release_date (nullable DATE)
    PosterURL       *string    // films.poster_url (nullable)
    TrailerURL      *string    // films.trailer_url (nullable)
    ExternalID      *string    // films.external_id (nullable)
    Status          string     // films.status (derived)
    CreatedAt       time.Time  // films.created_at
    UpdatedAt       time.Time  // films.updated_at
}

// Genre is a tag attached to films, unique by name.
type Genre struct {
    ID   uint64 // genres.id
    Name string // genres.name
}

// CastCredit links a film to one person of its cast.  The billing order
// controls display order; the person name is denormalized for listing.
type CastCredit struct {
    PersonID      uint64 // film_cast.person_id
    Name          string // people.name
    CharacterName string // film_cast.character_name
    BillingOrder  uint32 // film_cast.billing_order
    IsMain        bool   // film_cast.is_main
}
