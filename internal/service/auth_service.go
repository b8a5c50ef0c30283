package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"surveybuilder/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService issues and validates editor session tokens
type AuthService struct {
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new auth service. A zero ttl issues tokens without expiry.
func NewAuthService(secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		jwtSecret: []byte(secret),
		tokenTTL:  tokenTTL,
	}
}

// IssueEditorToken creates a token scoped to one editor session
func (s *AuthService) IssueEditorToken(sessionID string) (string, error) {
	now := time.Now()
	claims := &model.EditorClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  sessionID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.tokenTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.tokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateEditorToken validates an editor token and returns its claims
func (s *AuthService) ValidateEditorToken(tokenString string) (*model.EditorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.EditorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.EditorClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Authorize checks that a token grants access to sessionID
func (s *AuthService) Authorize(tokenString, sessionID string) error {
	claims, err := s.ValidateEditorToken(tokenString)
	if err != nil {
		return err
	}
	if claims.SessionID != sessionID {
		return ErrInvalidToken
	}
	return nil
}
