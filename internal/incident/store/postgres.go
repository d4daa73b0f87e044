package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"daystar/internal/incident/models"
	id "daystar/pkg/domain"
	"daystar/pkg/platform/sentinel"
)

// Postgres persists incident reports in PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const incidentColumns = `id, child_id, reported_by, date, incident_type, description,
	severity, action_taken, parent_notified, notification_time,
	follow_up_required, follow_up_notes, status, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, inc *models.Incident) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO incidents (`+incidentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		inc.ID.String(), inc.ChildID.String(), inc.ReportedBy.String(),
		inc.Date, string(inc.IncidentType), inc.Description, string(inc.Severity),
		inc.ActionTaken, inc.ParentNotified, inc.NotificationTime,
		inc.FollowUpRequired, inc.FollowUpNotes, string(inc.Status),
		inc.CreatedAt, inc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, incidentID id.IncidentID) (*models.Incident, error) {
	return scanIncident(s.pool.QueryRow(ctx, `
		SELECT `+incidentColumns+` FROM incidents WHERE id = $1`, incidentID.String()))
}

func (s *Postgres) List(ctx context.Context, status models.Status) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	var out []*models.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, inc *models.Incident) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE incidents
		SET date = $2, incident_type = $3, description = $4, severity = $5,
			action_taken = $6, parent_notified = $7, notification_time = $8,
			follow_up_required = $9, follow_up_notes = $10, status = $11,
			updated_at = $12
		WHERE id = $1`,
		inc.ID.String(), inc.Date, string(inc.IncidentType), inc.Description,
		string(inc.Severity), inc.ActionTaken, inc.ParentNotified,
		inc.NotificationTime, inc.FollowUpRequired, inc.FollowUpNotes,
		string(inc.Status), inc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update incident: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, incidentID id.IncidentID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM incidents WHERE id = $1`, incidentID.String())
	if err != nil {
		return fmt.Errorf("delete incident: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	var (
		inc          models.Incident
		rawID        string
		rawChildID   string
		rawReporter  string
		incidentType string
		severity     string
		status       string
		followUp     *string
	)
	err := row.Scan(&rawID, &rawChildID, &rawReporter, &inc.Date, &incidentType,
		&inc.Description, &severity, &inc.ActionTaken, &inc.ParentNotified,
		&inc.NotificationTime, &inc.FollowUpRequired, &followUp, &status,
		&inc.CreatedAt, &inc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan incident: %w", err)
	}

	incidentID, err := id.ParseIncidentID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse stored incident id: %w", err)
	}
	childID, err := id.ParseChildID(rawChildID)
	if err != nil {
		return nil, fmt.Errorf("parse stored child id: %w", err)
	}
	reporterID, err := id.ParseBabysitterID(rawReporter)
	if err != nil {
		return nil, fmt.Errorf("parse stored babysitter id: %w", err)
	}

	inc.ID = incidentID
	inc.ChildID = childID
	inc.ReportedBy = reporterID
	inc.IncidentType = models.IncidentType(incidentType)
	inc.Severity = models.Severity(severity)
	inc.Status = models.Status(status)
	if followUp != nil {
		inc.FollowUpNotes = *followUp
	}
	return &inc, nil
}
