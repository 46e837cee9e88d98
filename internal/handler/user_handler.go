package handler

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/content-service/internal/usecase"
	"go.uber.org/zap"
)

type UserHandler struct {
	users  UserService
	logger *zap.Logger
}

func NewUserHandler(users UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger.Named("UserHTTPHandler")}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("Failed to decode request body for Register", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	res, err := h.users.Register(r.Context(), usecase.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeError(w, err, "Failed to register user", h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, res)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("Failed to decode request body for Login", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err, "Failed to login user", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Logout(r.Context(), middleware.ClaimsFrom(r.Context())); err != nil {
		writeError(w, err, "Failed to logout user", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.GetProfile(r.Context(), middleware.UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err, "Failed to get profile", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.users.UpdateProfile(r.Context(), middleware.UserIDFrom(r.Context()), req.DisplayName)
	if err != nil {
		writeError(w, err, "Failed to update profile", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.users.ChangePassword(r.Context(), middleware.UserIDFrom(r.Context()), req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err, "Failed to change password", h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
