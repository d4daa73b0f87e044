package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"daystar/internal/auth/models"
	"daystar/internal/jwttoken"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/platform/sentinel"
	"daystar/pkg/requestcontext"
)

type UserStore interface {
	CreateIfEmailAvailable(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type TokenRevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Service implements registration, login and identity resolution. It keeps
// transport concerns out of the credential rules.
type Service struct {
	users  UserStore
	tokens *jwttoken.JWTService
	trl    TokenRevocationList
	logger *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithRevocationList(trl TokenRevocationList) Option {
	return func(s *Service) {
		s.trl = trl
	}
}

func New(users UserStore, tokens *jwttoken.JWTService, opts ...Option) *Service {
	s := &Service{users: users, tokens: tokens, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// AuthResult pairs the stored identity with a fresh bearer credential.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if len(req.Password) < 6 {
		return nil, dErrors.NewValidation("invalid user", map[string]string{
			"password": "password must be at least 6 characters",
		})
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, dErrors.NewValidation("invalid user", map[string]string{
			"role": "role must be manager or babysitter",
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register user")
	}

	now := requestcontext.Now(ctx)
	user, err := models.NewUser(id.NewUserID(), req.FirstName, req.LastName, req.Email, string(hash), role, now)
	if err != nil {
		return nil, err
	}

	if err := s.users.CreateIfEmailAvailable(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "a user with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register user")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, string(user.Role), now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.logger.InfoContext(ctx, "user registered",
		"user_id", user.ID.String(),
		"role", string(user.Role),
	)
	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies the credentials and issues a bearer token. The error does
// not disclose whether the email or the password was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to log in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, string(user.Role), requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	return &AuthResult{User: user, Token: token}, nil
}

// CurrentUser resolves the authenticated identity from the request context.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

// Logout revokes the presented token's JTI for the token's maximum remaining
// lifetime. Without a configured revocation list logout is a client-side
// operation and this is a no-op.
func (s *Service) Logout(ctx context.Context) error {
	if s.trl == nil {
		return nil
	}
	jti := requestcontext.TokenID(ctx)
	if jti == "" {
		return nil
	}
	if err := s.trl.RevokeToken(ctx, jti, s.tokens.TokenTTL()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}
	return nil
}
