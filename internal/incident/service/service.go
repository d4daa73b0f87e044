// Package service implements the incident report lifecycle.
package service

import (
	"context"
	"errors"
	"log/slog"

	"daystar/internal/incident/models"
	"daystar/internal/platform/metrics"
	rostermodels "daystar/internal/roster/models"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/platform/sentinel"
	"daystar/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, inc *models.Incident) error
	FindByID(ctx context.Context, incidentID id.IncidentID) (*models.Incident, error)
	List(ctx context.Context, status models.Status) ([]*models.Incident, error)
	Update(ctx context.Context, inc *models.Incident) error
	Delete(ctx context.Context, incidentID id.IncidentID) error
}

type ChildStore interface {
	FindByID(ctx context.Context, childID id.ChildID) (*rostermodels.Child, error)
}

type BabysitterStore interface {
	FindByID(ctx context.Context, sitterID id.BabysitterID) (*rostermodels.Babysitter, error)
}

// Service implements incident reporting.
type Service struct {
	incidents Store
	children  ChildStore
	sitters   BabysitterStore
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(incidents Store, children ChildStore, sitters BabysitterStore, opts ...Option) *Service {
	s := &Service{incidents: incidents, children: children, sitters: sitters, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Report files a new incident in the open state after verifying the
// referenced child and babysitter exist.
func (s *Service) Report(ctx context.Context, in models.ReportInput) (*models.Incident, error) {
	inc, err := models.NewIncident(id.NewIncidentID(), in, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if _, err := s.children.FindByID(ctx, in.ChildID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "child not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to report incident")
	}
	if _, err := s.sitters.FindByID(ctx, in.ReportedBy); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "babysitter not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to report incident")
	}

	if err := s.incidents.Create(ctx, inc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to report incident")
	}

	s.metrics.IncidentReported()
	s.logger.InfoContext(ctx, "incident reported",
		"incident_id", inc.ID.String(),
		"child_id", inc.ChildID.String(),
		"severity", string(inc.Severity),
	)
	return inc, nil
}

func (s *Service) Get(ctx context.Context, incidentID id.IncidentID) (*models.Incident, error) {
	inc, err := s.incidents.FindByID(ctx, incidentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "incident not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load incident")
	}
	return inc, nil
}

// List returns incidents newest first. A non-empty status restricts the
// listing to open or resolved reports.
func (s *Service) List(ctx context.Context, status string) ([]*models.Incident, error) {
	if status != "" && status != string(models.StatusOpen) && status != string(models.StatusResolved) {
		return nil, dErrors.NewValidation("invalid incident query", map[string]string{
			"status": "status must be open or resolved",
		})
	}
	incidents, err := s.incidents.List(ctx, models.Status(status))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list incidents")
	}
	if incidents == nil {
		incidents = []*models.Incident{}
	}
	return incidents, nil
}

// Update merges a partial update into the report.
func (s *Service) Update(ctx context.Context, incidentID id.IncidentID, in models.UpdateInput) (*models.Incident, error) {
	inc, err := s.Get(ctx, incidentID)
	if err != nil {
		return nil, err
	}

	if err := inc.ApplyUpdate(in, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}

	if err := s.incidents.Update(ctx, inc); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "incident not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update incident")
	}
	return inc, nil
}

// Resolve closes an open incident.
func (s *Service) Resolve(ctx context.Context, incidentID id.IncidentID, followUpNotes string) (*models.Incident, error) {
	inc, err := s.Get(ctx, incidentID)
	if err != nil {
		return nil, err
	}

	if err := inc.ApplyResolve(followUpNotes, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}

	if err := s.incidents.Update(ctx, inc); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "incident not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve incident")
	}

	s.logger.InfoContext(ctx, "incident resolved", "incident_id", inc.ID.String())
	return inc, nil
}

func (s *Service) Delete(ctx context.Context, incidentID id.IncidentID) error {
	if err := s.incidents.Delete(ctx, incidentID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "incident not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete incident")
	}
	s.logger.InfoContext(ctx, "incident deleted", "incident_id", incidentID.String())
	return nil
}
