package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	authmodels "daystar/internal/auth/models"
	"daystar/internal/roster/models"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/platform/sentinel"
	"daystar/pkg/requestcontext"
)

// defaultBabysitterPassword is issued when a babysitter account is
// provisioned without an explicit password. Babysitters are expected to
// change it on first login.
const defaultBabysitterPassword = "password123"

// CreateBabysitter adds a roster entry. When an email is supplied a login
// account with the babysitter role is provisioned and linked; the account
// is created first so an email conflict surfaces before the roster write.
func (s *Service) CreateBabysitter(ctx context.Context, in models.BabysitterInput) (*models.Babysitter, error) {
	now := requestcontext.Now(ctx)

	sitter, err := models.NewBabysitter(id.NewBabysitterID(), in, now)
	if err != nil {
		return nil, err
	}

	var linkedUser *authmodels.User
	if sitter.Email != "" {
		linkedUser, err = s.provisionAccount(ctx, in)
		if err != nil {
			return nil, err
		}
		userID := linkedUser.ID
		sitter.UserID = &userID
	}

	if err := s.sitters.CreateIfNationalIDAvailable(ctx, sitter); err != nil {
		if linkedUser != nil {
			if cleanupErr := s.users.Delete(ctx, linkedUser.ID); cleanupErr != nil {
				s.logger.ErrorContext(ctx, "failed to remove provisioned account after roster insert failure",
					"user_id", linkedUser.ID.String(),
					"error", cleanupErr,
				)
			}
		}
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "a babysitter with this national ID already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create babysitter")
	}

	s.logger.InfoContext(ctx, "babysitter created",
		"babysitter_id", sitter.ID.String(),
		"has_account", sitter.UserID != nil,
	)
	return sitter, nil
}

func (s *Service) provisionAccount(ctx context.Context, in models.BabysitterInput) (*authmodels.User, error) {
	password := in.Password
	if password == "" {
		password = defaultBabysitterPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to provision account")
	}

	user, err := authmodels.NewUser(id.NewUserID(), in.FirstName, in.LastName, in.Email,
		string(hash), authmodels.RoleBabysitter, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.users.CreateIfEmailAvailable(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "a user with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to provision account")
	}
	return user, nil
}

func (s *Service) GetBabysitter(ctx context.Context, sitterID id.BabysitterID) (*models.Babysitter, error) {
	sitter, err := s.sitters.FindByID(ctx, sitterID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "babysitter not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load babysitter")
	}
	return sitter, nil
}

func (s *Service) ListBabysitters(ctx context.Context) ([]*models.Babysitter, error) {
	sitters, err := s.sitters.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list babysitters")
	}
	if sitters == nil {
		sitters = []*models.Babysitter{}
	}
	return sitters, nil
}

// BabysitterForUser resolves the roster entry linked to a login account.
func (s *Service) BabysitterForUser(ctx context.Context, userID id.UserID) (*models.Babysitter, error) {
	sitter, err := s.sitters.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no babysitter profile linked to this account")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load babysitter")
	}
	return sitter, nil
}

// UpdateBabysitter rewrites the roster entry and keeps the linked login
// account's name and email in step.
func (s *Service) UpdateBabysitter(ctx context.Context, sitterID id.BabysitterID, in models.BabysitterInput) (*models.Babysitter, error) {
	now := requestcontext.Now(ctx)
	if err := in.Validate(now); err != nil {
		return nil, err
	}

	sitter, err := s.GetBabysitter(ctx, sitterID)
	if err != nil {
		return nil, err
	}

	sitter.ApplyUpdate(in, now)
	if err := s.sitters.Update(ctx, sitter); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "babysitter not found")
		case errors.Is(err, sentinel.ErrAlreadyUsed):
			return nil, dErrors.New(dErrors.CodeConflict, "a babysitter with this national ID already exists")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update babysitter")
		}
	}

	if sitter.UserID != nil {
		if err := s.propagateToAccount(ctx, sitter); err != nil {
			s.logger.ErrorContext(ctx, "failed to propagate babysitter update to linked account",
				"babysitter_id", sitter.ID.String(),
				"user_id", sitter.UserID.String(),
				"error", err,
			)
		}
	}
	return sitter, nil
}

func (s *Service) propagateToAccount(ctx context.Context, sitter *models.Babysitter) error {
	user, err := s.users.FindByID(ctx, *sitter.UserID)
	if err != nil {
		return err
	}
	user.FirstName = sitter.FirstName
	user.LastName = sitter.LastName
	if sitter.Email != "" {
		user.Email = authmodels.NormalizeEmail(sitter.Email)
	}
	user.UpdatedAt = sitter.UpdatedAt
	return s.users.Update(ctx, user)
}

// DeleteBabysitter removes the roster entry and any linked login account.
func (s *Service) DeleteBabysitter(ctx context.Context, sitterID id.BabysitterID) error {
	sitter, err := s.GetBabysitter(ctx, sitterID)
	if err != nil {
		return err
	}

	if err := s.sitters.Delete(ctx, sitterID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "babysitter not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete babysitter")
	}

	if sitter.UserID != nil {
		if err := s.users.Delete(ctx, *sitter.UserID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.ErrorContext(ctx, "failed to remove linked account",
				"babysitter_id", sitterID.String(),
				"user_id", sitter.UserID.String(),
				"error", err,
			)
		}
	}

	s.logger.InfoContext(ctx, "babysitter deleted", "babysitter_id", sitterID.String())
	return nil
}
