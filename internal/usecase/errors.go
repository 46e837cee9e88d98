package usecase

import (
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrValidation         = errors.New("validation failed")
)

// validationFailed wraps the problems so callers can match ErrValidation and
// still reach the entity.ValidationError with errors.As.
func validationFailed(problems ...string) error {
	return fmt.Errorf("%w: %w", ErrValidation, &entity.ValidationError{Problems: problems})
}
