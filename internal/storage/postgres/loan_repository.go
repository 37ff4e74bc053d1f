package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivancitoook/mibuscalibrosreact1/internal/domain"
)

type LoanRepository struct {
	pool *pgxpool.Pool
}

func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

func (r *LoanRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *LoanRepository) GetBookForUpdate(ctx context.Context, bookID string) (domain.Book, error) {
	const query = `
SELECT id, title, author, editorial, isbn, image_url, badge, rating, available
FROM books
WHERE id = $1
FOR UPDATE`

	var b domain.Book
	err := r.queryRow(ctx, query, bookID).Scan(
		&b.ID, &b.Title, &b.Author, &b.Editorial, &b.ISBN, &b.ImageURL, &b.Badge, &b.Rating, &b.Available,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Book{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Book{}, domain.ErrBookNotFound
		}
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

// SetBookAvailable writes the availability flag. Only the lifecycle
// engine calls this, always inside the transaction that moves the loan.
func (r *LoanRepository) SetBookAvailable(ctx context.Context, bookID string, available bool) error {
	tag, err := r.exec(ctx, `UPDATE books SET available = $2 WHERE id = $1`, bookID, available)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("set book available: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *LoanRepository) LibraryExists(ctx context.Context, libraryID string) (bool, error) {
	var exists bool
	err := r.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM libraries WHERE id = $1)`, libraryID).Scan(&exists)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("library exists: %w", err)
	}
	return exists, nil
}

func (r *LoanRepository) CreateLoan(ctx context.Context, loan domain.Loan) error {
	const stmt = `
INSERT INTO loans (id, user_id, guest_name, guest_email, guest_phone, guest_address,
	book_id, library_id, notes, status, loan_date, expected_return_date)
VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.exec(ctx, stmt,
		loan.ID,
		loan.UserID,
		loan.GuestName,
		loan.GuestEmail,
		loan.GuestPhone,
		loan.GuestAddress,
		loan.BookID,
		loan.LibraryID,
		loan.Notes,
		loan.Status,
		loan.LoanDate,
		loan.ExpectedReturnDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// The partial unique index on outstanding loans per book
			// backs up the availability check.
			return domain.ErrBookUnavailable
		}
		if isForeignKeyViolation(err) {
			return domain.ErrBookNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create loan: %w", err)
	}
	return nil
}

const loanColumns = `
id, COALESCE(user_id::text, ''), guest_name, guest_email, guest_phone, guest_address,
book_id, library_id, notes, status, loan_date, expected_return_date, actual_return_date,
last_edited_by, last_edited_at`

func (r *LoanRepository) GetLoanForUpdate(ctx context.Context, loanID string) (domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	loan, err := scanLoan(r.queryRow(ctx, query, loanID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Loan{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Loan{}, domain.ErrLoanNotFound
		}
		return domain.Loan{}, fmt.Errorf("get loan: %w", err)
	}
	return loan, nil
}

func (r *LoanRepository) UpdateLoanStatus(ctx context.Context, loanID string, expected []domain.LoanStatus, to domain.LoanStatus, returnedAt *time.Time, editedBy string, editedAt time.Time) (bool, error) {
	const stmt = `
UPDATE loans
SET status = $2,
	actual_return_date = COALESCE($3, actual_return_date),
	last_edited_by = $4,
	last_edited_at = $5
WHERE id = $1 AND status = ANY($6)`

	tag, err := r.exec(ctx, stmt, loanID, to, returnedAt, editedBy, editedAt, statusStrings(expected))
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("update loan status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *LoanRepository) UpdateLoanFields(ctx context.Context, loanID string, upd domain.LoanUpdate, editedBy string, editedAt time.Time) error {
	const stmt = `
UPDATE loans
SET expected_return_date = COALESCE($2, expected_return_date),
	notes = COALESCE($3, notes),
	library_id = COALESCE($4::uuid, library_id),
	guest_email = COALESCE($5, guest_email),
	guest_phone = COALESCE($6, guest_phone),
	guest_address = COALESCE($7, guest_address),
	last_edited_by = $8,
	last_edited_at = $9
WHERE id = $1 AND status IN ('pending', 'active')`

	tag, err := r.exec(ctx, stmt, loanID,
		upd.ExpectedReturnDate, upd.Notes, upd.LibraryID,
		upd.GuestEmail, upd.GuestPhone, upd.GuestAddress,
		editedBy, editedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update loan fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *LoanRepository) RestoreOutstandingBooks(ctx context.Context) error {
	const stmt = `
UPDATE books
SET available = TRUE
WHERE id IN (SELECT book_id FROM loans WHERE status IN ('pending', 'active'))`

	if _, err := r.exec(ctx, stmt); err != nil {
		return fmt.Errorf("restore outstanding books: %w", err)
	}
	return nil
}

func (r *LoanRepository) DeleteAllLoans(ctx context.Context) error {
	if _, err := r.exec(ctx, `DELETE FROM loans`); err != nil {
		return fmt.Errorf("delete all loans: %w", err)
	}
	return nil
}

func (r *LoanRepository) ListByStatus(ctx context.Context, statuses []domain.LoanStatus, order domain.ListOrder) ([]domain.LoanListing, error) {
	query := `
SELECT l.id, COALESCE(l.user_id::text, ''), l.guest_name, l.guest_email, l.guest_phone, l.guest_address,
	l.book_id, l.library_id, l.notes, l.status, l.loan_date, l.expected_return_date, l.actual_return_date,
	l.last_edited_by, l.last_edited_at,
	b.title, b.image_url,
	COALESCE(NULLIF(l.guest_name, ''), u.full_name, '') AS borrower_name,
	COALESCE(NULLIF(l.guest_email, ''), u.email, '') AS borrower_email
FROM loans l
JOIN books b ON b.id = l.book_id
LEFT JOIN users u ON u.id = l.user_id
WHERE l.status = ANY($1)`

	switch order {
	case domain.OrderByResolvedAt:
		query += ` ORDER BY l.last_edited_at DESC NULLS LAST, l.loan_date DESC`
	default:
		query += ` ORDER BY l.loan_date DESC`
	}

	rows, err := r.query(ctx, query, statusStrings(statuses))
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	listings := make([]domain.LoanListing, 0)
	for rows.Next() {
		var l domain.LoanListing
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.GuestName, &l.GuestEmail, &l.GuestPhone, &l.GuestAddress,
			&l.BookID, &l.LibraryID, &l.Notes, &l.Status, &l.LoanDate, &l.ExpectedReturnDate, &l.ActualReturnDate,
			&l.LastEditedBy, &l.LastEditedAt,
			&l.BookTitle, &l.BookImageURL,
			&l.BorrowerName, &l.BorrowerEmail,
		); err != nil {
			return nil, fmt.Errorf("scan loan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return listings, nil
}

func scanLoan(row pgx.Row) (domain.Loan, error) {
	var l domain.Loan
	err := row.Scan(
		&l.ID, &l.UserID, &l.GuestName, &l.GuestEmail, &l.GuestPhone, &l.GuestAddress,
		&l.BookID, &l.LibraryID, &l.Notes, &l.Status, &l.LoanDate, &l.ExpectedReturnDate, &l.ActualReturnDate,
		&l.LastEditedBy, &l.LastEditedAt,
	)
	return l, err
}

func statusStrings(statuses []domain.LoanStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func (r *LoanRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *LoanRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *LoanRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
