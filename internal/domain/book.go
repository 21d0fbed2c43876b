package domain

import "time"

// Book is the domain model for catalog entries.
type Book struct {
	UID           string
	Title         string
	Author        string
	Publisher     string
	PublishedDate time.Time
	PageCount     int
	Language      string
	OwnerUID      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
