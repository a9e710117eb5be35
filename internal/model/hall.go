package model

import "time"

// Hall represents a screening hall of the cinema.  Hall names are
// unique.  A hall cannot be deleted while showtimes still reference it;
// the repository enforces this with protect-on-delete semantics.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique hall name.
//  Description – optional description of the hall.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Hall struct {
    ID          uint64    // halls.id
    Name        string    // halls.name
    Description *string   // halls.description (nullable)
    CreatedAt   time.Time // halls.created_at
    UpdatedAt   time.Time // halls.updated_at
}
