package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/book-catalog/internal/api/dto"
	"github.com/spec-kit/book-catalog/internal/auth"
	"github.com/spec-kit/book-catalog/internal/service"
	apperrors "github.com/spec-kit/book-catalog/pkg/util"
)

// BooksHandler manages catalog endpoints.
type BooksHandler struct {
	service *service.BookService
}

// NewBooksHandler constructs handler.
func NewBooksHandler(bookService *service.BookService) *BooksHandler {
	return &BooksHandler{service: bookService}
}

// ListBooks GET /books.
func (h *BooksHandler) ListBooks(c *fiber.Ctx) error {
	books, err := h.service.ListBooks(c.Context())
	if err != nil {
		return err
	}

	out := make([]dto.BookResponse, 0, len(books))
	for _, book := range books {
		out = append(out, dto.NewBookResponse(book))
	}
	return c.JSON(fiber.Map{"data": out})
}

// GetBook GET /books/:uid.
func (h *BooksHandler) GetBook(c *fiber.Ctx) error {
	book, err := h.service.GetBook(c.Context(), c.Params("uid"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookResponse(book)})
}

// CreateBook POST /books.
func (h *BooksHandler) CreateBook(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewMalformedToken("missing authorization header")
	}

	var req dto.CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.Author == "" {
		return apperrors.NewValidationError("title and author required", nil)
	}

	book, err := h.service.CreateBook(c.Context(), principal.User.UID, service.BookCreateInput{
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		Language:      req.Language,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBookResponse(book)})
}

// UpdateBook PATCH /books/:uid.
func (h *BooksHandler) UpdateBook(c *fiber.Ctx) error {
	var req dto.UpdateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	book, err := h.service.UpdateBook(c.Context(), c.Params("uid"), service.BookUpdateInput{
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		Language:      req.Language,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookResponse(book)})
}

// DeleteBook DELETE /books/:uid.
func (h *BooksHandler) DeleteBook(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewMalformedToken("missing authorization header")
	}

	if err := h.service.DeleteBook(c.Context(), c.Params("uid"), principal.User); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "book deleted"}})
}
