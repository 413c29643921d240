package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vending-machine/internal/db"
	"vending-machine/pkg"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Authenticate(username, password string) (string, error)

	// EnsureOperator creates the operator or resets their password.
	EnsureOperator(username, password string) error
}

type authService struct {
	authDB    db.AuthDB
	log       pkg.Logger
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(authDB db.AuthDB, logger pkg.Logger, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		authDB:    authDB,
		log:       logger,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *authService) Authenticate(username, password string) (string, error) {
	if s.jwtSecret == "" {
		s.log.Error("auth: empty JWT secret key")
		return "", errors.New("could not generate token: empty secret key")
	}
	id, passHash, err := s.authDB.GetOperatorAuthData(username)
	if errors.Is(err, sql.ErrNoRows) {
		s.log.Warn("invalid credentials: unknown operator", zap.String("username", username))
		return "", fmt.Errorf("%w: unknown operator", ErrInvalidCredentials)
	}
	if err != nil {
		s.log.Error("failed to get operator auth data", zap.String("username", username), zap.Error(err))
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passHash), []byte(password)); err != nil {
		s.log.Warn("invalid credentials: password mismatch", zap.String("username", username))
		return "", fmt.Errorf("%w: password mismatch", ErrInvalidCredentials)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"operator_id": id,
		"username":    username,
		"exp":         time.Now().Add(s.tokenTTL).Unix(),
	})
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		s.log.Error("failed to generate token", zap.String("username", username), zap.Error(err))
		return "", fmt.Errorf("could not generate token: %w", err)
	}
	s.log.Info("Operator authenticated", zap.Int("operatorID", id), zap.String("username", username))
	return tokenString, nil
}

func (s *authService) EnsureOperator(username, password string) error {
	if username == "" || password == "" {
		return errors.New("operator username and password must be set")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash operator password: %w", err)
	}
	if err := s.authDB.UpsertOperator(username, string(hash)); err != nil {
		s.log.Error("failed to store operator", zap.String("username", username), zap.Error(err))
		return err
	}
	s.log.Info("Operator ensured", zap.String("username", username))
	return nil
}
