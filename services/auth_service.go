package services

import (
	"context"
	"dm-chat/auth"
	"dm-chat/errors"
	"dm-chat/repositories"
	"fmt"
	"log/slog"
)

type IAuthService interface {
	Login(ctx context.Context, email, password string) (Token, error)
	Register(ctx context.Context, email, password string) (Token, error)
}

type AuthService struct {
	userRepository repositories.IUserRepository
	issuer         *auth.TokenIssuer
	log            *slog.Logger
}

type Token string

func (t Token) String() string {
	return string(t)
}

func NewAuthService(repo repositories.IUserRepository, issuer *auth.TokenIssuer, log *slog.Logger) *AuthService {
	return &AuthService{userRepository: repo, issuer: issuer, log: log}
}

// Register validates the credentials before any expensive hashing, persists the
// user and returns its first token.
func (s *AuthService) Register(ctx context.Context, email, password string) (Token, error) {
	if err := auth.ValidateRegister(auth.RegisterRequest{Email: email, Password: password}); err != nil {
		return "", err
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.userRepository.CreateUser(ctx, email, hashedPassword)
	if err != nil {
		return "", err
	}
	s.log.Info("User registered", "user_id", userID)

	token, err := s.issuer.GenerateToken(string(userID))
	if err != nil {
		return "", err
	}
	return Token(token), nil
}

// Login never tells apart an unknown email from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (Token, error) {
	if err := auth.ValidateLogin(auth.LoginRequest{Email: email, Password: password}); err != nil {
		return "", errors.ErrInvalidCredentials
	}

	user, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.issuer.GenerateToken(user.ID)
	if err != nil {
		return "", err
	}
	return Token(token), nil
}
