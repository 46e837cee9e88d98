package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/entity"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/port/repository"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/usecase"
	"go.uber.org/zap"
)

// maxLimit bounds every ?limit= query parameter.
const maxLimit = 100

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// writeError maps domain errors onto HTTP statuses. Unexpected errors are
// logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, err error, defaultMessage string, logger *zap.Logger) {
	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "Validation failed",
			"errors": verr.Problems,
		})
	case errors.Is(err, repository.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, repository.ErrDuplicate):
		respondWithError(w, http.StatusConflict, "Already exists")
	case errors.Is(err, usecase.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, usecase.ErrUnauthorized), errors.Is(err, repository.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, repository.ErrPermissionDenied):
		respondWithError(w, http.StatusForbidden, "Permission denied")
	default:
		logger.Error(defaultMessage, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, defaultMessage)
	}
}

func parseIntQueryParam(r *http.Request, key string, defaultValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		return defaultValue
	}
	if val > maxLimit {
		return maxLimit
	}
	return val
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst)
}
