package mongo

import (
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

// Server error codes that mean the caller lacks access.
const (
	codeUnauthorized         = 13
	codeAuthenticationFailed = 18
	codeAtlasUnauthorized    = 8000
)

// classify maps driver errors onto repository sentinels, keeping the driver error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", repository.ErrDuplicate, err)
	}
	var se mongo.ServerError
	if errors.As(err, &se) {
		switch {
		case se.HasErrorCode(codeAuthenticationFailed):
			return fmt.Errorf("%w: %w", repository.ErrUnauthenticated, err)
		case se.HasErrorCode(codeUnauthorized), se.HasErrorCode(codeAtlasUnauthorized):
			return fmt.Errorf("%w: %w", repository.ErrPermissionDenied, err)
		}
	}
	return err
}
