package babysitter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"daystar/internal/roster/models"
	id "daystar/pkg/domain"
	"daystar/pkg/platform/sentinel"
)

// Postgres persists babysitters in PostgreSQL. National ID uniqueness
// rides on the unique constraint rather than a read-then-write check.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const babysitterColumns = `id, first_name, last_name, email, phone_number, national_id,
	date_of_birth, next_of_kin_name, next_of_kin_phone, user_id, created_at, updated_at`

func (s *Postgres) CreateIfNationalIDAvailable(ctx context.Context, sitter *models.Babysitter) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO babysitters (`+babysitterColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		sitter.ID.String(), sitter.FirstName, sitter.LastName, sitter.Email,
		sitter.PhoneNumber, sitter.NationalID, sitter.DateOfBirth,
		sitter.NextOfKinName, sitter.NextOfKinPhone, userIDParam(sitter.UserID),
		sitter.CreatedAt, sitter.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert babysitter: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, sitterID id.BabysitterID) (*models.Babysitter, error) {
	return scanBabysitter(s.pool.QueryRow(ctx, `
		SELECT `+babysitterColumns+` FROM babysitters WHERE id = $1`, sitterID.String()))
}

func (s *Postgres) FindByUserID(ctx context.Context, userID id.UserID) (*models.Babysitter, error) {
	return scanBabysitter(s.pool.QueryRow(ctx, `
		SELECT `+babysitterColumns+` FROM babysitters WHERE user_id = $1`, userID.String()))
}

func (s *Postgres) List(ctx context.Context) ([]*models.Babysitter, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+babysitterColumns+` FROM babysitters
		ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("list babysitters: %w", err)
	}
	defer rows.Close()

	var out []*models.Babysitter
	for rows.Next() {
		sitter, err := scanBabysitter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sitter)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, sitter *models.Babysitter) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE babysitters
		SET first_name = $2, last_name = $3, email = $4, phone_number = $5,
			national_id = $6, date_of_birth = $7, next_of_kin_name = $8,
			next_of_kin_phone = $9, user_id = $10, updated_at = $11
		WHERE id = $1`,
		sitter.ID.String(), sitter.FirstName, sitter.LastName, sitter.Email,
		sitter.PhoneNumber, sitter.NationalID, sitter.DateOfBirth,
		sitter.NextOfKinName, sitter.NextOfKinPhone, userIDParam(sitter.UserID),
		sitter.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("update babysitter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, sitterID id.BabysitterID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM babysitters WHERE id = $1`, sitterID.String())
	if err != nil {
		return fmt.Errorf("delete babysitter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func userIDParam(userID *id.UserID) any {
	if userID == nil {
		return nil
	}
	return userID.String()
}

func scanBabysitter(row pgx.Row) (*models.Babysitter, error) {
	var (
		sitter    models.Babysitter
		rawID     string
		rawUserID *string
	)
	err := row.Scan(&rawID, &sitter.FirstName, &sitter.LastName, &sitter.Email,
		&sitter.PhoneNumber, &sitter.NationalID, &sitter.DateOfBirth,
		&sitter.NextOfKinName, &sitter.NextOfKinPhone, &rawUserID,
		&sitter.CreatedAt, &sitter.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan babysitter: %w", err)
	}
	sitterID, err := id.ParseBabysitterID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse stored babysitter id: %w", err)
	}
	sitter.ID = sitterID
	if rawUserID != nil {
		userID, err := id.ParseUserID(*rawUserID)
		if err != nil {
			return nil, fmt.Errorf("parse stored babysitter user id: %w", err)
		}
		sitter.UserID = &userID
	}
	return &sitter, nil
}
