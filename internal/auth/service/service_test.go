package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"daystar/internal/auth/models"
	"daystar/internal/auth/store/revocation"
	"daystar/internal/auth/store/user"
	"daystar/internal/jwttoken"
	dErrors "daystar/pkg/domain-errors"
	"daystar/pkg/requestcontext"
)

type AuthServiceSuite struct {
	suite.Suite
	service *Service
	users   *user.InMemory
	trl     *revocation.InMemoryTRL
	tokens  *jwttoken.JWTService
	ctx     context.Context
}

func (s *AuthServiceSuite) SetupTest() {
	s.users = user.NewInMemory()
	s.trl = revocation.NewInMemoryTRL()
	s.tokens = jwttoken.NewJWTService("test-key", "daystar-test", time.Hour)
	s.service = New(s.users, s.tokens, WithRevocationList(s.trl))
	s.ctx = context.Background()
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) register(email string) *AuthResult {
	result, err := s.service.Register(s.ctx, RegisterRequest{
		FirstName: "Grace",
		LastName:  "Nakato",
		Email:     email,
		Password:  "secret123",
		Role:      "manager",
	})
	s.Require().NoError(err)
	return result
}

func (s *AuthServiceSuite) TestRegister() {
	s.Run("valid registration returns user and token", func() {
		result := s.register("grace@daystar.test")
		s.Equal("grace@daystar.test", result.User.Email)
		s.Equal(models.RoleManager, result.User.Role)
		s.NotEmpty(result.Token)
		s.NotEqual("secret123", result.User.PasswordHash, "password must be stored hashed")
	})

	s.Run("duplicate email returns conflict", func() {
		s.register("dup@daystar.test")
		_, err := s.service.Register(s.ctx, RegisterRequest{
			FirstName: "Other",
			LastName:  "Person",
			Email:     "dup@daystar.test",
			Password:  "secret123",
			Role:      "babysitter",
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("short password is a validation error", func() {
		_, err := s.service.Register(s.ctx, RegisterRequest{
			FirstName: "A",
			LastName:  "B",
			Email:     "short@daystar.test",
			Password:  "12345",
			Role:      "manager",
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(dErrors.FieldsOf(err), "password")
	})

	s.Run("unknown role is a validation error", func() {
		_, err := s.service.Register(s.ctx, RegisterRequest{
			FirstName: "A",
			LastName:  "B",
			Email:     "role@daystar.test",
			Password:  "secret123",
			Role:      "admin",
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *AuthServiceSuite) TestLogin() {
	s.register("login@daystar.test")

	s.Run("correct credentials succeed", func() {
		result, err := s.service.Login(s.ctx, "login@daystar.test", "secret123")
		s.Require().NoError(err)
		s.NotEmpty(result.Token)
	})

	s.Run("email lookup is case-insensitive", func() {
		_, err := s.service.Login(s.ctx, "LOGIN@daystar.test", "secret123")
		s.Require().NoError(err)
	})

	s.Run("wrong password is unauthorized", func() {
		_, err := s.service.Login(s.ctx, "login@daystar.test", "wrong")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("unknown email is unauthorized, not not-found", func() {
		_, err := s.service.Login(s.ctx, "nobody@daystar.test", "secret123")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *AuthServiceSuite) TestCurrentUser() {
	result := s.register("me@daystar.test")

	s.Run("resolves the context identity", func() {
		ctx := requestcontext.WithUserID(s.ctx, result.User.ID)
		me, err := s.service.CurrentUser(ctx)
		s.Require().NoError(err)
		s.Equal(result.User.ID, me.ID)
	})

	s.Run("missing identity is unauthorized", func() {
		_, err := s.service.CurrentUser(s.ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *AuthServiceSuite) TestLogout() {
	result := s.register("bye@daystar.test")

	claims, err := s.tokens.ValidateToken(result.Token)
	s.Require().NoError(err)

	ctx := requestcontext.WithTokenID(s.ctx, claims.ID)
	s.Require().NoError(s.service.Logout(ctx))

	revoked, err := s.trl.IsRevoked(s.ctx, claims.ID)
	s.Require().NoError(err)
	s.True(revoked, "logout must add the JTI to the revocation list")
}
