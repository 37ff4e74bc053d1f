package app

import (
	"context"
	"strings"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

type LoanQueryRepository interface {
	ListByStatus(ctx context.Context, statuses []domain.LoanStatus, order domain.ListOrder) ([]domain.LoanListing, error)
}

// LoanQueryService derives the pending/active/concluded dashboard views.
// Read-only projections over the loan store; never mutates anything.
type LoanQueryService struct {
	repo LoanQueryRepository
}

func NewLoanQueryService(repo LoanQueryRepository) *LoanQueryService {
	return &LoanQueryService{repo: repo}
}

func (s *LoanQueryService) ListPending(ctx context.Context) ([]domain.LoanListing, error) {
	return s.repo.ListByStatus(ctx, []domain.LoanStatus{domain.LoanStatusPending}, domain.OrderByLoanDate)
}

func (s *LoanQueryService) ListActive(ctx context.Context) ([]domain.LoanListing, error) {
	return s.repo.ListByStatus(ctx, []domain.LoanStatus{domain.LoanStatusActive}, domain.OrderByLoanDate)
}

func (s *LoanQueryService) ListConcluded(ctx context.Context) ([]domain.LoanListing, error) {
	return s.repo.ListByStatus(ctx,
		[]domain.LoanStatus{domain.LoanStatusReturned, domain.LoanStatusCancelled},
		domain.OrderByResolvedAt,
	)
}

// FilterLoans narrows a listing to rows whose borrower name, book title
// or borrower email contains term, case-insensitively. An empty term
// returns the input untouched.
func FilterLoans(loans []domain.LoanListing, term string) []domain.LoanListing {
	if term == "" {
		return loans
	}
	needle := strings.ToLower(term)

	out := make([]domain.LoanListing, 0, len(loans))
	for _, loan := range loans {
		if strings.Contains(strings.ToLower(loan.BorrowerName), needle) ||
			strings.Contains(strings.ToLower(loan.BookTitle), needle) ||
			strings.Contains(strings.ToLower(loan.BorrowerEmail), needle) {
			out = append(out, loan)
		}
	}
	return out
}
