package payment

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

// Postgres persists payments in PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const paymentColumns = `id, babysitter_id, date, half_day_children, full_day_children,
	half_day_rate, full_day_rate, total_amount, status, approved_by, notes,
	created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, p *models.Payment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID.String(), p.BabysitterID.String(), p.Date,
		p.HalfDayChildren, p.FullDayChildren, p.HalfDayRate, p.FullDayRate,
		p.TotalAmount, string(p.Status), approverParam(p.ApprovedBy), p.Notes,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, paymentID id.PaymentID) (*models.Payment, error) {
	return scanPayment(s.pool.QueryRow(ctx, `
		SELECT `+paymentColumns+` FROM payments WHERE id = $1`, paymentID.String()))
}

func (s *Postgres) List(ctx context.Context, filter Filter) ([]*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments`
	var (
		clauses []string
		args    []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.BabysitterID.IsNil() {
		args = append(args, filter.BabysitterID.String())
		clauses = append(clauses, fmt.Sprintf("babysitter_id = $%d", len(args)))
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, p *models.Payment) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE payments
		SET date = $2, half_day_children = $3, full_day_children = $4,
			half_day_rate = $5, full_day_rate = $6, total_amount = $7,
			status = $8, approved_by = $9, notes = $10, updated_at = $11
		WHERE id = $1`,
		p.ID.String(), p.Date, p.HalfDayChildren, p.FullDayChildren,
		p.HalfDayRate, p.FullDayRate, p.TotalAmount, string(p.Status),
		approverParam(p.ApprovedBy), p.Notes, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, paymentID id.PaymentID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, paymentID.String())
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func approverParam(userID *id.UserID) any {
	if userID == nil {
		return nil
	}
	return userID.String()
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var (
		p           models.Payment
		rawID       string
		rawSitterID string
		status      string
		rawApprover *string
		notes       *string
	)
	err := row.Scan(&rawID, &rawSitterID, &p.Date, &p.HalfDayChildren,
		&p.FullDayChildren, &p.HalfDayRate, &p.FullDayRate, &p.TotalAmount,
		&status, &rawApprover, &notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}

	paymentID, err := id.ParsePaymentID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse stored payment id: %w", err)
	}
	sitterID, err := id.ParseBabysitterID(rawSitterID)
	if err != nil {
		return nil, fmt.Errorf("parse stored babysitter id: %w", err)
	}

	p.ID = paymentID
	p.BabysitterID = sitterID
	p.Status = models.PaymentStatus(status)
	if rawApprover != nil {
		approver, err := id.ParseUserID(*rawApprover)
		if err != nil {
			return nil, fmt.Errorf("parse stored approver id: %w", err)
		}
		p.ApprovedBy = &approver
	}
	if notes != nil {
		p.Notes = *notes
	}
	return &p, nil
}
