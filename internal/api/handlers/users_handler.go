package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campushire/backend/internal/api/middleware"
	"github.com/campushire/backend/internal/api/types"
	"github.com/campushire/backend/internal/models"
	"github.com/campushire/backend/internal/services"
)

type UsersHandler struct {
	users services.UserService
}

func NewUsersHandler(users services.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	role := models.Role(r.URL.Query().Get("role"))
	users, err := h.users.List(r.Context(), caller, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    users,
		Meta:    &types.Meta{Count: len(users)},
	})
}

func (h *UsersHandler) ListByRole(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	role := models.Role(chi.URLParam(r, "role"))
	users, err := h.users.List(r.Context(), caller, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    users,
		Meta:    &types.Meta{Count: len(users)},
	})
}

func (h *UsersHandler) ListForMessaging(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	users, err := h.users.ListForMessaging(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: users})
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: u})
}

func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	var req struct {
		Name     *string `json:"name"`
		Phone    *string `json:"phone"`
		Bio      *string `json:"bio"`
		Location *string `json:"location"`
		LinkedIn *string `json:"linkedin"`
		GitHub   *string `json:"github"`
		Website  *string `json:"website"`

		CGPA           *float64 `json:"cgpa"`
		Skills         []string `json:"skills"`
		ResumeURL      *string  `json:"resume_url"`
		Branch         *string  `json:"branch"`
		GraduationYear *int     `json:"graduation_year"`

		Company  *string `json:"company"`
		Position *string `json:"position"`
	}
	if !decode(w, r, &req) {
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), caller, &services.UpdateProfileInput{
		Name: req.Name, Phone: req.Phone, Bio: req.Bio, Location: req.Location,
		LinkedIn: req.LinkedIn, GitHub: req.GitHub, Website: req.Website,
		CGPA: req.CGPA, Skills: req.Skills, ResumeURL: req.ResumeURL,
		Branch: req.Branch, GraduationYear: req.GraduationYear,
		Company: req.Company, Position: req.Position,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: u})
}

func (h *UsersHandler) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	h.updatePrefs(w, r, h.users.UpdateNotifications)
}

func (h *UsersHandler) UpdatePrivacy(w http.ResponseWriter, r *http.Request) {
	h.updatePrefs(w, r, h.users.UpdatePrivacy)
}

type prefsUpdateFunc func(ctx context.Context, caller *models.User, prefs map[string]any) (*models.User, error)

func (h *UsersHandler) updatePrefs(w http.ResponseWriter, r *http.Request, update prefsUpdateFunc) {
	caller := middleware.GetUser(r.Context())
	var prefs map[string]any
	if !decode(w, r, &prefs) {
		return
	}
	u, err := update(r.Context(), caller, prefs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: u})
}

func (h *UsersHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.users.ChangePassword(r.Context(), caller, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Message: "password updated"})
}

func (h *UsersHandler) ApproveRecruiter(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.users.ApproveRecruiter(r.Context(), caller, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Message: "recruiter approved"})
}

// DeleteOwnAccount removes the caller's account with its full cascade.
func (h *UsersHandler) DeleteOwnAccount(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	if err := h.users.DeleteAccount(r.Context(), caller, caller.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Message: "account deleted"})
}

// DeleteAccount removes any account by id; reserved for admins.
func (h *UsersHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.users.DeleteAccount(r.Context(), caller, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Message: "account deleted"})
}
