package dto

import (
	"time"

	"github.com/spec-kit/book-catalog/internal/domain"
)

// CreateBookRequest payload.
type CreateBookRequest struct {
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Publisher     string    `json:"publisher"`
	PublishedDate time.Time `json:"published_date"`
	PageCount     int       `json:"page_count"`
	Language      string    `json:"language"`
}

// UpdateBookRequest patch payload; absent fields stay unchanged.
type UpdateBookRequest struct {
	Title         *string    `json:"title"`
	Author        *string    `json:"author"`
	Publisher     *string    `json:"publisher"`
	PublishedDate *time.Time `json:"published_date"`
	PageCount     *int       `json:"page_count"`
	Language      *string    `json:"language"`
}

// BookResponse response.
type BookResponse struct {
	UID           string    `json:"uid"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Publisher     string    `json:"publisher"`
	PublishedDate time.Time `json:"published_date"`
	PageCount     int       `json:"page_count"`
	Language      string    `json:"language"`
	OwnerUID      string    `json:"owner_uid"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewBookResponse maps a domain book to its response shape.
func NewBookResponse(book *domain.Book) BookResponse {
	return BookResponse{
		UID:           book.UID,
		Title:         book.Title,
		Author:        book.Author,
		Publisher:     book.Publisher,
		PublishedDate: book.PublishedDate,
		PageCount:     book.PageCount,
		Language:      book.Language,
		OwnerUID:      book.OwnerUID,
		CreatedAt:     book.CreatedAt,
		UpdatedAt:     book.UpdatedAt,
	}
}
