package handlers

import (
	"net/http"

	"github.com/campushire/backend/internal/api/middleware"
	"github.com/campushire/backend/internal/api/types"
	"github.com/campushire/backend/internal/models"
	"github.com/campushire/backend/internal/services"
	appErr "github.com/campushire/backend/pkg/errors"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !decode(w, r, &req) {
		return
	}

	token, user, err := h.auth.Register(r.Context(), &services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, types.APIResponse{
		Success: true,
		Data:    map[string]any{"token": token, "user": user},
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeErrorStr(w, http.StatusBadRequest, appErr.CodeInvalid, "email and password are required")
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    map[string]any{"token": token, "user": user},
	})
}

func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Credential string `json:"credential"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Credential == "" {
		writeErrorStr(w, http.StatusBadRequest, appErr.CodeInvalid, "credential is required")
		return
	}

	token, user, err := h.auth.GoogleLogin(r.Context(), req.Credential)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    map[string]any{"token": token, "user": user},
	})
}

// Me returns the authenticated user with role profile attached.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := middleware.GetUser(r.Context())
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: u})
}
