package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/book-catalog/internal/domain"
)

// BookRepository defines persistence access for catalog entries.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, uid string) error
	GetByUID(ctx context.Context, uid string) (*domain.Book, error)
	List(ctx context.Context) ([]*domain.Book, error)
}

type bookRepository struct {
	pool *pgxpool.Pool
}

// NewBookRepository returns a Postgres-backed implementation.
func NewBookRepository(pool *pgxpool.Pool) BookRepository {
	return &bookRepository{pool: pool}
}

const bookColumns = `uid, title, author, publisher, published_date, page_count, language, owner_uid, created_at, updated_at`

func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	const query = `
        INSERT INTO books (title, author, publisher, published_date, page_count, language, owner_uid)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING uid, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		book.Title,
		book.Author,
		book.Publisher,
		book.PublishedDate,
		book.PageCount,
		book.Language,
		book.OwnerUID,
	).Scan(&book.UID, &book.CreatedAt, &book.UpdatedAt)
}

func (r *bookRepository) Update(ctx context.Context, book *domain.Book) error {
	const query = `
        UPDATE books SET title=$1, author=$2, publisher=$3, published_date=$4, page_count=$5, language=$6, updated_at=NOW()
        WHERE uid=$7`

	cmd, err := r.pool.Exec(ctx, query,
		book.Title,
		book.Author,
		book.Publisher,
		book.PublishedDate,
		book.PageCount,
		book.Language,
		book.UID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, uid string) error {
	const query = `DELETE FROM books WHERE uid=$1`

	cmd, err := r.pool.Exec(ctx, query, uid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookRepository) GetByUID(ctx context.Context, uid string) (*domain.Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books WHERE uid=$1`
	return scanBook(r.pool.QueryRow(ctx, query, uid))
}

func (r *bookRepository) List(ctx context.Context) ([]*domain.Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

func scanBook(row pgx.Row) (*domain.Book, error) {
	var book domain.Book
	if err := row.Scan(
		&book.UID,
		&book.Title,
		&book.Author,
		&book.Publisher,
		&book.PublishedDate,
		&book.PageCount,
		&book.Language,
		&book.OwnerUID,
		&book.CreatedAt,
		&book.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &book, nil
}
