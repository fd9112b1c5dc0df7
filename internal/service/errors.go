package service

import (
	"errors"
	"fmt"

	"study-buddy/internal/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already in use")
	// ErrAIUnavailable means the language model could not be reached or
	// returned nothing usable. Stored state is left untouched.
	ErrAIUnavailable = errors.New("AI service unavailable, try again")
)

// ownedBy rejects records that belong to someone other than userID.
func ownedBy(ownerID, userID uint) error {
	if ownerID != userID {
		return ErrUnauthorized
	}
	return nil
}

func lookupError(kind string, err error) error {
	if errors.Is(err, repository.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", kind, ErrNotFound)
	}
	return fmt.Errorf("load %s: %w", kind, err)
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
