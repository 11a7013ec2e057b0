package domain

import "time"

type Post struct {
	ID          string
	Title       string
	Description string
	UserID      string
	AuthorEmail string // populated on reads only
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PostPatch carries the fields an owner may change. Empty strings are ignored.
type PostPatch struct {
	Title       string
	Description string
}
