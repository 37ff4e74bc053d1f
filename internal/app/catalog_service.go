package app

import (
	"context"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

type CatalogRepository interface {
	CreateBook(ctx context.Context, book domain.Book) error
	ListBooks(ctx context.Context) ([]domain.Book, error)
	CreateLibrary(ctx context.Context, library domain.Library) error
	ListLibraries(ctx context.Context) ([]domain.Library, error)
}

// CatalogService manages the book catalog and the library branches.
// It never touches a book's availability after creation; that column
// belongs to the lifecycle engine.
type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

type CreateBookInput struct {
	Title     string
	Author    string
	Editorial string
	ISBN      string
	ImageURL  string
	Badge     string
	Rating    int
}

func (s *CatalogService) CreateBook(ctx context.Context, actor domain.Actor, in CreateBookInput) (domain.Book, error) {
	if err := requireLibrarian(actor); err != nil {
		return domain.Book{}, err
	}
	if in.Title == "" {
		return domain.Book{}, domain.ErrNameRequired
	}

	book := domain.Book{
		ID:        newID(),
		Title:     in.Title,
		Author:    in.Author,
		Editorial: in.Editorial,
		ISBN:      in.ISBN,
		ImageURL:  in.ImageURL,
		Badge:     in.Badge,
		Rating:    in.Rating,
		Available: true,
	}

	if err := s.repo.CreateBook(ctx, book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.repo.ListBooks(ctx)
}

type CreateLibraryInput struct {
	Name     string
	Address  string
	Phone    string
	ImageURL string
}

func (s *CatalogService) CreateLibrary(ctx context.Context, actor domain.Actor, in CreateLibraryInput) (domain.Library, error) {
	if err := requireLibrarian(actor); err != nil {
		return domain.Library{}, err
	}
	if in.Name == "" {
		return domain.Library{}, domain.ErrNameRequired
	}

	library := domain.Library{
		ID:       newID(),
		Name:     in.Name,
		Address:  in.Address,
		Phone:    in.Phone,
		ImageURL: in.ImageURL,
	}

	if err := s.repo.CreateLibrary(ctx, library); err != nil {
		return domain.Library{}, err
	}
	return library, nil
}

func (s *CatalogService) ListLibraries(ctx context.Context) ([]domain.Library, error) {
	return s.repo.ListLibraries(ctx)
}
