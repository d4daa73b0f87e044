package jwttoken

import (
	"daystar/internal/platform/middleware"
	id "daystar/pkg/domain"
	dErrors "daystar/pkg/domain-errors"
)

// JWTServiceAdapter narrows JWTService to the middleware.JWTValidator
// interface, parsing the string claims into typed values.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return &middleware.JWTClaims{
		UserID: userID,
		Role:   claims.Role,
		JTI:    claims.ID,
	}, nil
}
