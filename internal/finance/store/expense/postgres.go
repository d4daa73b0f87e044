package expense

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"daystar/internal/finance/models"
	id "daystar/pkg/domain"
	"daystar/pkg/platform/sentinel"
)

// Postgres persists expenses in PostgreSQL. Summaries are computed with
// a GROUP BY so large ledgers never cross the wire.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const expenseColumns = `id, category, description, amount, date, approved_by,
	receipt_image, notes, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, e *models.Expense) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID.String(), string(e.Category), e.Description, e.Amount, e.Date,
		e.ApprovedBy.String(), e.ReceiptImage, e.Notes, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, expenseID id.ExpenseID) (*models.Expense, error) {
	return scanExpense(s.pool.QueryRow(ctx, `
		SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, expenseID.String()))
}

func filterClauses(filter Filter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.DateFrom != "" {
		args = append(args, filter.DateFrom)
		clauses = append(clauses, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.DateTo != "" {
		args = append(args, filter.DateTo)
		clauses = append(clauses, fmt.Sprintf("date <= $%d", len(args)))
	}

	where := ""
	for i, clause := range clauses {
		if i == 0 {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
	}
	return where, args
}

func (s *Postgres) List(ctx context.Context, filter Filter) ([]*models.Expense, error) {
	where, args := filterClauses(filter)
	rows, err := s.pool.Query(ctx, `SELECT `+expenseColumns+` FROM expenses`+where+
		` ORDER BY date DESC, created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Postgres) Summarize(ctx context.Context, filter Filter) (*models.Summary, error) {
	where, args := filterClauses(filter)
	rows, err := s.pool.Query(ctx, `
		SELECT category, SUM(amount), COUNT(*)
		FROM expenses`+where+`
		GROUP BY category
		ORDER BY SUM(amount) DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("summarize expenses: %w", err)
	}
	defer rows.Close()

	summary := &models.Summary{Categories: []models.CategoryTotal{}}
	for rows.Next() {
		var (
			category string
			total    models.CategoryTotal
		)
		if err := rows.Scan(&category, &total.TotalAmount, &total.Count); err != nil {
			return nil, fmt.Errorf("scan expense summary: %w", err)
		}
		total.Category = models.ExpenseCategory(category)
		summary.Categories = append(summary.Categories, total)
		summary.GrandTotal += total.TotalAmount
	}
	return summary, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, e *models.Expense) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE expenses
		SET category = $2, description = $3, amount = $4, date = $5,
			receipt_image = $6, notes = $7, updated_at = $8
		WHERE id = $1`,
		e.ID.String(), string(e.Category), e.Description, e.Amount, e.Date,
		e.ReceiptImage, e.Notes, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, expenseID id.ExpenseID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, expenseID.String())
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var (
		e            models.Expense
		rawID        string
		category     string
		rawApprover  string
		receiptImage *string
		notes        *string
	)
	err := row.Scan(&rawID, &category, &e.Description, &e.Amount, &e.Date,
		&rawApprover, &receiptImage, &notes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan expense: %w", err)
	}

	expenseID, err := id.ParseExpenseID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse stored expense id: %w", err)
	}
	approver, err := id.ParseUserID(rawApprover)
	if err != nil {
		return nil, fmt.Errorf("parse stored approver id: %w", err)
	}

	e.ID = expenseID
	e.Category = models.ExpenseCategory(category)
	e.ApprovedBy = approver
	if receiptImage != nil {
		e.ReceiptImage = *receiptImage
	}
	if notes != nil {
		e.Notes = *notes
	}
	return &e, nil
}
