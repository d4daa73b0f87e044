package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"daystar/internal/attendance/models"
	rostermodels "daystar/internal/roster/models"
	id "daystar/pkg/domain"
	"daystar/pkg/platform/sentinel"
)

// Postgres persists attendance in PostgreSQL. The one-open-record-per-
// child-per-date rule rides on a partial unique index over records in
// the checked-in status, so racing check-ins resolve in the database.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const uniqueViolation = "23505"

const attendanceColumns = `id, child_id, babysitter_id, date, session_type, check_in_time,
	check_out_time, status, notes, created_at, updated_at`

func (s *Postgres) CreateIfNotCheckedIn(ctx context.Context, rec *models.Attendance) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO attendance (`+attendanceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID.String(), rec.ChildID.String(), rec.BabysitterID.String(),
		rec.Date, string(rec.SessionType), rec.CheckInTime, rec.CheckOutTime,
		string(rec.Status), rec.Notes, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, attendanceID id.AttendanceID) (*models.Attendance, error) {
	return scanAttendance(s.pool.QueryRow(ctx, `
		SELECT `+attendanceColumns+` FROM attendance WHERE id = $1`, attendanceID.String()))
}

func (s *Postgres) List(ctx context.Context, date string) ([]*models.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance`
	args := []any{}
	if date != "" {
		query += ` WHERE date = $1`
		args = append(args, date)
	}
	query += ` ORDER BY date DESC, check_in_time DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var out []*models.Attendance
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, rec *models.Attendance) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE attendance
		SET check_out_time = $2, status = $3, notes = $4, updated_at = $5
		WHERE id = $1`,
		rec.ID.String(), rec.CheckOutTime, string(rec.Status), rec.Notes, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, attendanceID id.AttendanceID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM attendance WHERE id = $1`, attendanceID.String())
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanAttendance(row pgx.Row) (*models.Attendance, error) {
	var (
		rec          models.Attendance
		rawID        string
		rawChildID   string
		rawSitterID  string
		sessionType  string
		status       string
		checkOutTime *string
		notes        *string
	)
	err := row.Scan(&rawID, &rawChildID, &rawSitterID, &rec.Date, &sessionType,
		&rec.CheckInTime, &checkOutTime, &status, &notes, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan attendance: %w", err)
	}

	attendanceID, err := id.ParseAttendanceID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse stored attendance id: %w", err)
	}
	childID, err := id.ParseChildID(rawChildID)
	if err != nil {
		return nil, fmt.Errorf("parse stored child id: %w", err)
	}
	sitterID, err := id.ParseBabysitterID(rawSitterID)
	if err != nil {
		return nil, fmt.Errorf("parse stored babysitter id: %w", err)
	}

	rec.ID = attendanceID
	rec.ChildID = childID
	rec.BabysitterID = sitterID
	rec.SessionType = rostermodels.SessionType(sessionType)
	rec.Status = models.Status(status)
	if checkOutTime != nil {
		rec.CheckOutTime = *checkOutTime
	}
	if notes != nil {
		rec.Notes = *notes
	}
	return &rec, nil
}
