package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes
const (
	PurposeMagicLink = "magic_link"
	PurposeSession   = "session"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims carried by magic-link and session tokens. Subject is the
// participant identifier for sessions and the email for magic links.
type Claims struct {
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenService signs and validates HS256 tokens
type TokenService struct {
	secret       []byte
	sessionTTL   time.Duration
	magicLinkTTL time.Duration
	now          func() time.Time
}

// NewTokenService creates a TokenService
func NewTokenService(secret string, sessionTTL, magicLinkTTL time.Duration) *TokenService {
	return &TokenService{
		secret:       []byte(secret),
		sessionTTL:   sessionTTL,
		magicLinkTTL: magicLinkTTL,
		now:          time.Now,
	}
}

// IssueMagicLink signs a one-time login token for email
func (s *TokenService) IssueMagicLink(email string) (string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.sign(Claims{Email: email, Purpose: PurposeMagicLink}, email, s.magicLinkTTL)
}

// IssueSession signs an API session token
func (s *TokenService) IssueSession(identifier, email, role string) (string, time.Time, error) {
	return s.sign(Claims{Email: email, Role: role, Purpose: PurposeSession}, identifier, s.sessionTTL)
}

func (s *TokenService) sign(claims Claims, subject string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates tokenString and checks that it was issued for purpose
func (s *TokenService) Parse(tokenString, purpose string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
