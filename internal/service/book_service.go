package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/book-catalog/internal/domain"
	"github.com/spec-kit/book-catalog/internal/repository"
	apperrors "github.com/spec-kit/book-catalog/pkg/util"
)

// BookCreateInput describes creation payload.
type BookCreateInput struct {
	Title         string
	Author        string
	Publisher     string
	PublishedDate time.Time
	PageCount     int
	Language      string
}

// BookUpdateInput describes patch payload; nil fields stay unchanged.
type BookUpdateInput struct {
	Title         *string
	Author        *string
	Publisher     *string
	PublishedDate *time.Time
	PageCount     *int
	Language      *string
}

// BookService coordinates catalog operations.
type BookService struct {
	books repository.BookRepository
}

// NewBookService builds the service.
func NewBookService(books repository.BookRepository) *BookService {
	return &BookService{books: books}
}

// ListBooks returns all catalog entries, newest first.
func (s *BookService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.books.List(ctx)
}

// GetBook fetches one entry.
func (s *BookService) GetBook(ctx context.Context, uid string) (*domain.Book, error) {
	book, err := s.books.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("book", map[string]any{"uid": uid})
		}
		return nil, err
	}
	return book, nil
}

// CreateBook adds an entry owned by the calling user.
func (s *BookService) CreateBook(ctx context.Context, ownerUID string, input BookCreateInput) (*domain.Book, error) {
	book := &domain.Book{
		Title:         input.Title,
		Author:        input.Author,
		Publisher:     input.Publisher,
		PublishedDate: input.PublishedDate,
		PageCount:     input.PageCount,
		Language:      input.Language,
		OwnerUID:      ownerUID,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateBook applies a partial update.
func (s *BookService) UpdateBook(ctx context.Context, uid string, input BookUpdateInput) (*domain.Book, error) {
	book, err := s.GetBook(ctx, uid)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.Publisher != nil {
		book.Publisher = *input.Publisher
	}
	if input.PublishedDate != nil {
		book.PublishedDate = *input.PublishedDate
	}
	if input.PageCount != nil {
		book.PageCount = *input.PageCount
	}
	if input.Language != nil {
		book.Language = *input.Language
	}

	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook removes an entry. Owners may delete their own entries; admins
// may delete any.
func (s *BookService) DeleteBook(ctx context.Context, uid string, caller *domain.User) error {
	book, err := s.GetBook(ctx, uid)
	if err != nil {
		return err
	}
	if caller.Role != domain.RoleAdmin && book.OwnerUID != caller.UID {
		return apperrors.NewForbidden("FORBIDDEN", "only the owner or an admin may delete this book")
	}
	return s.books.Delete(ctx, uid)
}
