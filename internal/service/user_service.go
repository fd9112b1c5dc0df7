package service

import (
	"fmt"

	"study-buddy/internal/model"
	"study-buddy/internal/repository"
)

// UserService backs the administrative CLI. None of it is reachable over HTTP.
type UserService interface {
	GetAllUsers() ([]model.User, error)
	DeleteUser(username string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetAllUsers() ([]model.User, error) {
	return s.userRepo.GetAllUsers()
}

// DeleteUser removes the user with everything they own.
func (s *userService) DeleteUser(username string) error {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return lookupError("user", err)
	}
	if err := s.userRepo.DeleteUser(user.ID); err != nil {
		return fmt.Errorf("delete user %q: %w", username, err)
	}
	return nil
}
