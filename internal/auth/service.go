package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDisabled           = errors.New("admin key not configured")
)

const (
	adminSubject = "admin"
	tokenTTL     = 24 * time.Hour
)

type Service struct {
	adminKeyHash []byte
	jwtSecret    []byte
	now          func() time.Time
}

// NewService checks admin keys against adminKeyHash, a bcrypt hash. An
// empty hash disables token issue.
func NewService(adminKeyHash, jwtSecret string) *Service {
	return &Service{
		adminKeyHash: []byte(adminKeyHash),
		jwtSecret:    []byte(jwtSecret),
		now:          time.Now,
	}
}

type TokenResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Service) Exchange(key string) (*TokenResult, error) {
	if len(s.adminKeyHash) == 0 {
		return nil, ErrDisabled
	}
	if err := bcrypt.CompareHashAndPassword(s.adminKeyHash, []byte(key)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(adminSubject)
}

func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	subject, ok := claims["sub"].(string)
	if !ok {
		return "", errors.New("invalid token subject")
	}

	return subject, nil
}

func (s *Service) issueToken(subject string) (*TokenResult, error) {
	now := s.now()
	expires := now.Add(tokenTTL)
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": expires.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &TokenResult{Token: signed, ExpiresAt: expires.UTC().Truncate(time.Second)}, nil
}
