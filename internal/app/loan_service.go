package app

import (
	"context"
	"time"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/clock"
	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

type LoanRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetBookForUpdate(ctx context.Context, bookID string) (domain.Book, error)
	SetBookAvailable(ctx context.Context, bookID string, available bool) error
	LibraryExists(ctx context.Context, libraryID string) (bool, error)
	CreateLoan(ctx context.Context, loan domain.Loan) error
	GetLoanForUpdate(ctx context.Context, loanID string) (domain.Loan, error)
	// UpdateLoanStatus applies the transition only when the loan is still in
	// one of the expected statuses; it reports whether a row was updated.
	// This conditional write is the concurrency-control primitive.
	UpdateLoanStatus(ctx context.Context, loanID string, expected []domain.LoanStatus, to domain.LoanStatus, returnedAt *time.Time, editedBy string, editedAt time.Time) (bool, error)
	UpdateLoanFields(ctx context.Context, loanID string, upd domain.LoanUpdate, editedBy string, editedAt time.Time) error
	RestoreOutstandingBooks(ctx context.Context) error
	DeleteAllLoans(ctx context.Context) error
}

// LoanService is the loan lifecycle engine: the only writer of loan
// statuses and, as a consequence of transitions, of book availability.
type LoanService struct {
	repo  LoanRepository
	clock clock.Clock
}

func NewLoanService(repo LoanRepository, clk clock.Clock) *LoanService {
	return &LoanService{
		repo:  repo,
		clock: clk,
	}
}

type CreateLoanInput struct {
	BookID             string
	LibraryID          string
	UserID             string
	GuestName          string
	GuestEmail         string
	GuestPhone         string
	GuestAddress       string
	ExpectedReturnDate time.Time
	Notes              string
}

func (in CreateLoanInput) validate(now time.Time) error {
	if in.BookID == "" || in.LibraryID == "" {
		return domain.ErrInvalidID
	}
	hasGuest := in.GuestName != "" || in.GuestEmail != "" || in.GuestPhone != "" || in.GuestAddress != ""
	switch {
	case in.UserID != "" && hasGuest:
		return domain.ErrBorrowerAmbiguous
	case in.UserID == "" && !hasGuest:
		return domain.ErrBorrowerRequired
	case in.UserID == "":
		if in.GuestName == "" {
			return domain.ErrBorrowerRequired
		}
		if in.GuestEmail == "" && in.GuestPhone == "" && in.GuestAddress == "" {
			return domain.ErrGuestContactMissing
		}
	}
	if !in.ExpectedReturnDate.After(now) {
		return domain.ErrReturnDateNotFuture
	}
	return nil
}

// Create inserts a pending loan and takes the book out of circulation in
// one transaction. Guests may call it; the created loan then carries no
// user reference.
func (s *LoanService) Create(ctx context.Context, actor domain.Actor, in CreateLoanInput) (domain.Loan, error) {
	now := s.clock.Now()
	if err := in.validate(now); err != nil {
		return domain.Loan{}, err
	}

	loan := domain.Loan{
		ID:                 newID(),
		UserID:             in.UserID,
		GuestName:          in.GuestName,
		GuestEmail:         in.GuestEmail,
		GuestPhone:         in.GuestPhone,
		GuestAddress:       in.GuestAddress,
		BookID:             in.BookID,
		LibraryID:          in.LibraryID,
		Notes:              in.Notes,
		Status:             domain.LoanStatusPending,
		LoanDate:           now,
		ExpectedReturnDate: in.ExpectedReturnDate,
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		book, err := s.repo.GetBookForUpdate(txCtx, in.BookID)
		if err != nil {
			return err
		}
		if !book.Available {
			return domain.ErrBookUnavailable
		}

		ok, err := s.repo.LibraryExists(txCtx, in.LibraryID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrLibraryNotFound
		}

		if err := s.repo.CreateLoan(txCtx, loan); err != nil {
			return err
		}
		return s.repo.SetBookAvailable(txCtx, in.BookID, false)
	})
	if err != nil {
		return domain.Loan{}, err
	}
	return loan, nil
}

// Accept moves a pending loan to active. The book stays unavailable; it
// already left circulation when the request was created.
func (s *LoanService) Accept(ctx context.Context, actor domain.Actor, loanID string) error {
	if err := requireLibrarian(actor); err != nil {
		return err
	}
	return s.transition(ctx, actor, loanID,
		[]domain.LoanStatus{domain.LoanStatusPending},
		domain.LoanStatusActive,
		false,
	)
}

// Reject cancels a pending loan and puts the book back in circulation.
func (s *LoanService) Reject(ctx context.Context, actor domain.Actor, loanID string) error {
	if err := requireLibrarian(actor); err != nil {
		return err
	}
	return s.transition(ctx, actor, loanID,
		[]domain.LoanStatus{domain.LoanStatusPending},
		domain.LoanStatusCancelled,
		true,
	)
}

// MarkReturned concludes an active loan, stamping the return date and
// restoring the book's availability.
func (s *LoanService) MarkReturned(ctx context.Context, actor domain.Actor, loanID string) error {
	if err := requireLibrarian(actor); err != nil {
		return err
	}
	return s.transition(ctx, actor, loanID,
		[]domain.LoanStatus{domain.LoanStatusActive},
		domain.LoanStatusReturned,
		true,
	)
}

// Cancel is the administrative variant of Reject, reachable from the
// active state too (lost or withdrawn books). Librarians only.
func (s *LoanService) Cancel(ctx context.Context, actor domain.Actor, loanID string) error {
	if err := requireLibrarian(actor); err != nil {
		return err
	}
	return s.transition(ctx, actor, loanID,
		[]domain.LoanStatus{domain.LoanStatusPending, domain.LoanStatusActive},
		domain.LoanStatusCancelled,
		true,
	)
}

func (s *LoanService) transition(ctx context.Context, actor domain.Actor, loanID string, expected []domain.LoanStatus, to domain.LoanStatus, restoreBook bool) error {
	if loanID == "" {
		return domain.ErrInvalidID
	}
	now := s.clock.Now()
	var returnedAt *time.Time
	if to == domain.LoanStatusReturned {
		today := clock.Today(s.clock)
		returnedAt = &today
	}

	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		loan, err := s.repo.GetLoanForUpdate(txCtx, loanID)
		if err != nil {
			return err
		}
		if !statusIn(loan.Status, expected) {
			return domain.ErrInvalidTransition
		}

		updated, err := s.repo.UpdateLoanStatus(txCtx, loanID, expected, to, returnedAt, actor.ID, now)
		if err != nil {
			return err
		}
		if !updated {
			// Lost the race between read and write; the loser must not
			// silently succeed.
			return domain.ErrInvalidTransition
		}

		if restoreBook {
			return s.repo.SetBookAvailable(txCtx, loan.BookID, true)
		}
		return nil
	})
}

// Update edits the mutable fields of a pending or active loan. Terminal
// loans are immutable.
func (s *LoanService) Update(ctx context.Context, actor domain.Actor, loanID string, upd domain.LoanUpdate) error {
	if err := requireLibrarian(actor); err != nil {
		return err
	}
	if loanID == "" {
		return domain.ErrInvalidID
	}
	if upd.Empty() {
		return domain.ErrNoFieldsToUpdate
	}
	now := s.clock.Now()
	if upd.ExpectedReturnDate != nil && !upd.ExpectedReturnDate.After(now) {
		return domain.ErrReturnDateNotFuture
	}

	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		loan, err := s.repo.GetLoanForUpdate(txCtx, loanID)
		if err != nil {
			return err
		}
		if loan.Status.IsTerminal() {
			return domain.ErrInvalidTransition
		}

		if upd.LibraryID != nil {
			ok, err := s.repo.LibraryExists(txCtx, *upd.LibraryID)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrLibraryNotFound
			}
		}
		return s.repo.UpdateLoanFields(txCtx, loanID, upd, actor.ID, now)
	})
}

// ClearAll wipes every loan record and puts every book with an
// outstanding loan back in circulation. Admin-only reset path; no book
// may stay unavailable once the loans referencing it are gone.
func (s *LoanService) ClearAll(ctx context.Context, actor domain.Actor) error {
	if actor.IsGuest() {
		return domain.ErrUnauthenticated
	}
	if actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.RestoreOutstandingBooks(txCtx); err != nil {
			return err
		}
		return s.repo.DeleteAllLoans(txCtx)
	})
}

func requireLibrarian(actor domain.Actor) error {
	if actor.IsGuest() {
		return domain.ErrUnauthenticated
	}
	if !actor.CanManageLoans() {
		return domain.ErrForbidden
	}
	return nil
}

func statusIn(s domain.LoanStatus, set []domain.LoanStatus) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}
