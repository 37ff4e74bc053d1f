package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// CreateBook inserts a catalog row. The insert is the only availability
// write this repository does; afterwards the column belongs to the
// lifecycle engine.
func (r *CatalogRepository) CreateBook(ctx context.Context, book domain.Book) error {
	const stmt = `
INSERT INTO books (id, title, author, editorial, isbn, image_url, badge, rating, available)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, stmt,
		book.ID, book.Title, book.Author, book.Editorial, book.ISBN,
		book.ImageURL, book.Badge, book.Rating, book.Available,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

func (r *CatalogRepository) ListBooks(ctx context.Context) ([]domain.Book, error) {
	const query = `
SELECT id, title, author, editorial, isbn, image_url, badge, rating, available
FROM books
ORDER BY title`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]domain.Book, 0)
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Editorial, &b.ISBN, &b.ImageURL, &b.Badge, &b.Rating, &b.Available); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (r *CatalogRepository) CreateLibrary(ctx context.Context, library domain.Library) error {
	const stmt = `
INSERT INTO libraries (id, name, address, phone, image_url)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, stmt,
		library.ID, library.Name, library.Address, library.Phone, library.ImageURL,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create library: %w", err)
	}
	return nil
}

func (r *CatalogRepository) ListLibraries(ctx context.Context) ([]domain.Library, error) {
	const query = `SELECT id, name, address, phone, image_url FROM libraries ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	defer rows.Close()

	libraries := make([]domain.Library, 0)
	for rows.Next() {
		var l domain.Library
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.Phone, &l.ImageURL); err != nil {
			return nil, fmt.Errorf("scan library: %w", err)
		}
		libraries = append(libraries, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	return libraries, nil
}
