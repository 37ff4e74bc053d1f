package domain

import "time"

type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "pending"
	LoanStatusActive    LoanStatus = "active"
	LoanStatusReturned  LoanStatus = "returned"
	LoanStatusCancelled LoanStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s LoanStatus) IsTerminal() bool {
	return s == LoanStatusReturned || s == LoanStatusCancelled
}

// Loan is one book lent to one borrower for one period.
// The borrower is either a registered user (UserID set) or a guest
// identified by the embedded contact fields, never both.
type Loan struct {
	ID           string
	UserID       string
	GuestName    string
	GuestEmail   string
	GuestPhone   string
	GuestAddress string
	BookID       string
	LibraryID    string
	// Notes carries free text such as guarantor (fiador) details.
	Notes              string
	Status             LoanStatus
	LoanDate           time.Time
	ExpectedReturnDate time.Time
	// ActualReturnDate has date precision and is set only on return.
	ActualReturnDate *time.Time
	LastEditedBy     string
	LastEditedAt     *time.Time
}

// LoanListing is a loan joined with the display fields the dashboard
// tables and the free-text filter work over.
type LoanListing struct {
	Loan
	BookTitle     string
	BookImageURL  string
	BorrowerName  string
	BorrowerEmail string
}

// LoanUpdate carries the fields a librarian may edit on a live loan.
// Status, book and borrower identity are deliberately absent: those
// change only through the dedicated transition operations, so the
// availability invariant cannot be bypassed through an edit.
type LoanUpdate struct {
	ExpectedReturnDate *time.Time
	Notes              *string
	LibraryID          *string
	GuestEmail         *string
	GuestPhone         *string
	GuestAddress       *string
}

// Empty reports whether the update changes nothing.
func (u LoanUpdate) Empty() bool {
	return u.ExpectedReturnDate == nil && u.Notes == nil && u.LibraryID == nil &&
		u.GuestEmail == nil && u.GuestPhone == nil && u.GuestAddress == nil
}

// ListOrder selects how a loan listing is sorted.
type ListOrder int

const (
	// OrderByLoanDate sorts newest request first.
	OrderByLoanDate ListOrder = iota
	// OrderByResolvedAt sorts newest resolution first; the terminal
	// transition stamps LastEditedAt, which is the resolution instant.
	OrderByResolvedAt
)
