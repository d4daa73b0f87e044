package service

import (
	"context"
	"errors"

	"daystar/internal/roster/models"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/platform/sentinel"
	"daystar/pkg/requestcontext"
)

func (s *Service) CreateChild(ctx context.Context, in models.ChildInput) (*models.Child, error) {
	child, err := models.NewChild(id.NewChildID(), in, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.children.Create(ctx, child); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create child")
	}

	s.logger.InfoContext(ctx, "child enrolled",
		"child_id", child.ID.String(),
		"session_type", string(child.SessionType),
	)
	return child, nil
}

func (s *Service) GetChild(ctx context.Context, childID id.ChildID) (*models.Child, error) {
	child, err := s.children.FindByID(ctx, childID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "child not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load child")
	}
	return child, nil
}

func (s *Service) ListChildren(ctx context.Context) ([]*models.Child, error) {
	children, err := s.children.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list children")
	}
	if children == nil {
		children = []*models.Child{}
	}
	return children, nil
}

func (s *Service) UpdateChild(ctx context.Context, childID id.ChildID, in models.ChildInput) (*models.Child, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	child, err := s.GetChild(ctx, childID)
	if err != nil {
		return nil, err
	}

	child.ApplyUpdate(in, requestcontext.Now(ctx))
	if err := s.children.Update(ctx, child); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "child not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update child")
	}
	return child, nil
}

func (s *Service) DeleteChild(ctx context.Context, childID id.ChildID) error {
	if err := s.children.Delete(ctx, childID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "child not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete child")
	}
	s.logger.InfoContext(ctx, "child removed from roster", "child_id", childID.String())
	return nil
}
