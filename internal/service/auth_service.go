package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"list-backend/internal/auth"
	"list-backend/internal/domain"
	"list-backend/internal/repository"
)

// RegisterRequest holds the data needed to create a new account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public representation of a user. It never carries the
// password hash.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// TokenResponse is the login result: a bearer token the client presents on
// every subsequent request.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthService handles registration, login, and resolving bearer tokens back
// into users.
type AuthService interface {
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)

	// Login checks credentials and issues a bearer token.
	Login(ctx context.Context, username, password string) (*TokenResponse, error)

	// Resolve verifies a bearer token and loads the user it was issued for.
	// Because the lookup happens on every request, a deleted or deactivated
	// user's tokens stop working immediately even though tokens are
	// stateless.
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
}

// NewAuthService creates a new instance of authService.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if _, err := s.users.FindByUsername(req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if _, err := s.users.FindByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hash,
		IsActive:       true,
	}
	if err := s.users.Create(user); err != nil {
		// The unique indexes backstop the pre-check race.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUsernameTaken
		}
		log.Printf("Error creating user: %v", err)
		return nil, errors.New("failed to create user")
	}

	return &UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsActive: user.IsActive,
	}, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same failure as a wrong password; see ErrInvalidCredentials.
			return nil, ErrInvalidCredentials
		}
		log.Printf("Error looking up user %q: %v", username, err)
		return nil, errors.New("failed to authenticate")
	}
	if !auth.CheckPassword(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		log.Printf("Error issuing token for %q: %v", username, err)
		return nil, errors.New("failed to issue token")
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *authService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.users.FindByUsername(subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		log.Printf("Error resolving token subject %q: %v", subject, err)
		return nil, errors.New("failed to resolve token")
	}
	if !user.IsActive {
		return nil, ErrUnauthorized
	}
	return user, nil
}
