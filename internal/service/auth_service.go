package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"study-buddy/internal/model"
	"study-buddy/internal/repository"
	"study-buddy/utilities"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 80
)

// AuthService interface
type AuthService interface {
	Register(username, password string) (*model.User, error)
	Login(username, password string) (*model.User, utilities.TokenPair, error)
	Refresh(refreshToken string) (utilities.TokenPair, error)
}

type authService struct {
	userRepo   repository.UserRepository
	tokens     *utilities.JWTManager
	bcryptCost int
}

// NewAuthService initializes authentication service
func NewAuthService(userRepo repository.UserRepository, tokens *utilities.JWTManager, bcryptCost int) AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{userRepo: userRepo, tokens: tokens, bcryptCost: bcryptCost}
}

func (s *authService) Register(username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return nil, invalid(fmt.Sprintf("username must be %d to %d characters", minUsernameLength, maxUsernameLength))
	}
	if password == "" {
		return nil, invalid("password cannot be empty")
	}

	existing, err := s.userRepo.GetUserByUsername(username)
	if err == nil && existing != nil {
		return nil, ErrUsernameTaken
	}
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Username: username, PasswordHash: string(hash)}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to store user in database: %w", err)
	}
	return user, nil
}

// Login checks the password and issues a token pair. Unknown usernames and
// wrong passwords return the same error.
func (s *authService) Login(username, password string) (*model.User, utilities.TokenPair, error) {
	user, err := s.userRepo.GetUserByUsername(strings.TrimSpace(username))
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, utilities.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return nil, utilities.TokenPair{}, fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, utilities.TokenPair{}, ErrInvalidCredentials
	}

	tokens, err := s.tokens.GenerateTokens(user)
	if err != nil {
		return nil, utilities.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return user, tokens, nil
}

// Refresh exchanges a refresh token for a new pair, provided the user
// still exists.
func (s *authService) Refresh(refreshToken string) (utilities.TokenPair, error) {
	claims, err := s.tokens.ValidateToken(refreshToken, true)
	if err != nil {
		return utilities.TokenPair{}, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetUserByID(claims.UserID)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return utilities.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return utilities.TokenPair{}, fmt.Errorf("look up user: %w", err)
	}
	return s.tokens.GenerateTokens(user)
}
