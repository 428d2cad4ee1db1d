package service

import (
	"errors"
	"fmt"
	"time"

	"bluecarbon/internal/db"
	"bluecarbon/internal/models"
	"bluecarbon/pkg"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/clock"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidToken       = errors.New("invalid token")
)

type AuthService interface {
	// Login checks the demo credentials and opens a session.
	Login(email, password string) (string, models.Session, error)
	Logout(sessionID string) error
	// Validate resolves a bearer token to a live session.
	Validate(token string) (models.Session, error)
}

type Credentials struct {
	Email    string
	Password string
}

type authService struct {
	sessions  db.SessionDB
	log       pkg.Logger
	clock     clock.Clock
	jwtSecret string
	ttl       time.Duration
	demo      Credentials
}

func NewAuthService(sessions db.SessionDB, logger pkg.Logger, clk clock.Clock, jwtSecret string, ttl time.Duration, demo Credentials) AuthService {
	return &authService{
		sessions:  sessions,
		log:       logger,
		clock:     clk,
		jwtSecret: jwtSecret,
		ttl:       ttl,
		demo:      demo,
	}
}

func (s *authService) Login(email, password string) (string, models.Session, error) {
	if s.jwtSecret == "" {
		s.log.Error("auth: empty JWT secret key")
		return "", models.Session{}, errors.New("could not generate token: empty secret key")
	}
	if email != s.demo.Email || password != s.demo.Password {
		s.log.Warn("invalid credentials", zap.String("email", email))
		return "", models.Session{}, ErrInvalidCredentials
	}

	now := s.clock.Now()
	session := models.Session{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":   session.ID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   session.ExpiresAt.Unix(),
	})
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		s.log.Error("failed to generate token", zap.String("email", email), zap.Error(err))
		return "", models.Session{}, fmt.Errorf("could not generate token: %w", err)
	}
	if err := s.sessions.CreateSession(session); err != nil {
		s.log.Error("failed to store session", zap.String("sessionID", session.ID), zap.Error(err))
		return "", models.Session{}, fmt.Errorf("could not open session: %w", err)
	}
	s.log.Info("User authenticated", zap.String("sessionID", session.ID), zap.String("email", email))
	return tokenString, session, nil
}

func (s *authService) Logout(sessionID string) error {
	if err := s.sessions.DeleteSession(sessionID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	s.log.Info("User logged out", zap.String("sessionID", sessionID))
	return nil
}

func (s *authService) Validate(tokenString string) (models.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return models.Session{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Session{}, fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return models.Session{}, fmt.Errorf("%w: missing session id", ErrInvalidToken)
	}

	session, err := s.sessions.GetSession(sid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}
	if !s.clock.Now().Before(session.ExpiresAt) {
		_ = s.sessions.DeleteSession(sid)
		return models.Session{}, ErrSessionNotFound
	}
	return session, nil
}
