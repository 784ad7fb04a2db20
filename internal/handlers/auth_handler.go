package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"pump-backend/internal/auth"
	"pump-backend/internal/models"
	"pump-backend/internal/repositories"
	"pump-backend/pkg/utils"
)

type AuthHandler struct {
	UserRepo   *repositories.UserRepository
	JWTManager *auth.JWTManager
}

func NewAuthHandler(userRepo *repositories.UserRepository, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, JWTManager: jwtManager}
}

// Signup registers a station owner account.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		utils.BadRequest(w, "name, email and a password of at least 8 characters are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		utils.Error(w, err)
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleOwner,
	}
	if err := h.UserRepo.Create(r.Context(), user); err != nil {
		utils.Error(w, err)
		return
	}

	token, err := h.JWTManager.GenerateToken(user)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, models.LoginResponse{Token: token, User: *user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	user, err := h.UserRepo.GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		utils.JSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
		return
	}

	token, err := h.JWTManager.GenerateToken(user)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.LoginResponse{Token: token, User: *user})
}
