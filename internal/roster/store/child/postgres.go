package child

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"daystar/internal/roster/models"
	id "daystar/pkg/domain"
	"daystar/pkg/platform/sentinel"
)

// Postgres persists children in PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const childColumns = `id, full_name, age, parent_name, parent_phone, parent_email,
	allergies, medical_conditions, dietary_restrictions, other_needs,
	session_type, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, child *models.Child) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO children (`+childColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		child.ID.String(), child.FullName, child.Age, child.ParentName,
		child.ParentPhone, child.ParentEmail, child.Allergies,
		child.MedicalConditions, child.DietaryRestrictions, child.OtherNeeds,
		string(child.SessionType), child.CreatedAt, child.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert child: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, childID id.ChildID) (*models.Child, error) {
	return scanChild(s.pool.QueryRow(ctx, `
		SELECT `+childColumns+` FROM children WHERE id = $1`, childID.String()))
}

func (s *Postgres) List(ctx context.Context) ([]*models.Child, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+childColumns+` FROM children ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	var out []*models.Child
	for rows.Next() {
		child, err := scanChild(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, child *models.Child) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE children
		SET full_name = $2, age = $3, parent_name = $4, parent_phone = $5,
			parent_email = $6, allergies = $7, medical_conditions = $8,
			dietary_restrictions = $9, other_needs = $10, session_type = $11,
			updated_at = $12
		WHERE id = $1`,
		child.ID.String(), child.FullName, child.Age, child.ParentName,
		child.ParentPhone, child.ParentEmail, child.Allergies,
		child.MedicalConditions, child.DietaryRestrictions, child.OtherNeeds,
		string(child.SessionType), child.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update child: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, childID id.ChildID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM children WHERE id = $1`, childID.String())
	if err != nil {
		return fmt.Errorf("delete child: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanChild(row pgx.Row) (*models.Child, error) {
	var (
		child       models.Child
		rawID       string
		sessionType string
	)
	err := row.Scan(&rawID, &child.FullName, &child.Age, &child.ParentName,
		&child.ParentPhone, &child.ParentEmail, &child.Allergies,
		&child.MedicalConditions, &child.DietaryRestrictions, &child.OtherNeeds,
		&sessionType, &child.CreatedAt, &child.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan child: %w", err)
	}
	childID, err := id.ParseChildID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse stored child id: %w", err)
	}
	child.ID = childID
	child.SessionType = models.SessionType(sessionType)
	return &child, nil
}
