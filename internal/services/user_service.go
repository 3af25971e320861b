package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/campushire/backend/internal/models"
	"github.com/campushire/backend/internal/repository"
	appErr "github.com/campushire/backend/pkg/errors"
	"github.com/campushire/backend/pkg/logger"
)

// UserService owns profile management, admin user operations, and account
// deletion.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, caller *models.User, input *UpdateProfileInput) (*models.User, error)
	UpdateNotifications(ctx context.Context, caller *models.User, prefs map[string]any) (*models.User, error)
	UpdatePrivacy(ctx context.Context, caller *models.User, prefs map[string]any) (*models.User, error)
	ChangePassword(ctx context.Context, caller *models.User, current, next string) error
	List(ctx context.Context, caller *models.User, role models.Role) ([]models.User, error)
	ListForMessaging(ctx context.Context, caller *models.User) ([]models.Summary, error)
	ApproveRecruiter(ctx context.Context, caller *models.User, userID uuid.UUID) error
	DeleteAccount(ctx context.Context, caller *models.User, userID uuid.UUID) error
}

// UpdateProfileInput carries optional profile fields; nil means "leave as is".
type UpdateProfileInput struct {
	Name     *string
	Phone    *string
	Bio      *string
	Location *string
	LinkedIn *string
	GitHub   *string
	Website  *string

	CGPA           *float64
	Skills         []string
	ResumeURL      *string
	Branch         *string
	GraduationYear *int

	Company  *string
	Position *string
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

var _ UserService = (*userService)(nil)

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.userRepo.GetWithProfiles(ctx, id, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, caller *models.User, input *UpdateProfileInput) (*models.User, error) {
	var u models.User
	if err := s.userRepo.GetWithProfiles(ctx, caller.ID, &u); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			fields["name"] = "name cannot be empty"
		} else {
			u.Name = name
		}
	}
	setOpt(&u.Phone, input.Phone)
	setOpt(&u.Bio, input.Bio)
	setOpt(&u.Location, input.Location)
	setOpt(&u.LinkedIn, input.LinkedIn)
	setOpt(&u.GitHub, input.GitHub)
	setOpt(&u.Website, input.Website)
	if input.CGPA != nil && (*input.CGPA < 0 || *input.CGPA > 10) {
		fields["cgpa"] = "CGPA must be between 0 and 10"
	}
	if len(fields) > 0 {
		return nil, appErr.NewValidation("profile validation failed", fields)
	}

	if err := s.userRepo.Update(ctx, &u); err != nil {
		return nil, err
	}

	// Role-specific fields go to the matching profile table; fields for the
	// other role are silently dropped.
	switch u.Role {
	case models.RoleStudent:
		p := u.Student
		if p == nil {
			p = &models.StudentProfile{UserID: u.ID}
		}
		if input.CGPA != nil {
			p.CGPA = input.CGPA
		}
		if input.Skills != nil {
			p.Skills = pq.StringArray(trimAll(input.Skills))
		}
		setOpt(&p.ResumeURL, input.ResumeURL)
		setOpt(&p.Branch, input.Branch)
		if input.GraduationYear != nil {
			p.GraduationYear = *input.GraduationYear
		}
		if err := s.userRepo.UpsertStudentProfile(ctx, p); err != nil {
			return nil, err
		}
		u.Student = p
	case models.RoleRecruiter:
		p := u.Recruiter
		if p == nil {
			p = &models.RecruiterProfile{UserID: u.ID}
		}
		setOpt(&p.Company, input.Company)
		setOpt(&p.Position, input.Position)
		if err := s.userRepo.UpsertRecruiterProfile(ctx, p); err != nil {
			return nil, err
		}
		u.Recruiter = p
	}

	logger.L().Info("profile updated", zap.String("user_id", u.ID.String()))
	return &u, nil
}

func (s *userService) UpdateNotifications(ctx context.Context, caller *models.User, prefs map[string]any) (*models.User, error) {
	return s.updateJSONPrefs(ctx, caller, prefs, "notifications")
}

func (s *userService) UpdatePrivacy(ctx context.Context, caller *models.User, prefs map[string]any) (*models.User, error) {
	return s.updateJSONPrefs(ctx, caller, prefs, "privacy")
}

func (s *userService) updateJSONPrefs(ctx context.Context, caller *models.User, prefs map[string]any, kind string) (*models.User, error) {
	if prefs == nil {
		return nil, appErr.Newf(appErr.CodeInvalid, "%s preferences are required", kind)
	}
	raw, err := json.Marshal(prefs)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInvalid, "invalid preferences payload")
	}

	var u models.User
	if err := s.userRepo.GetWithProfiles(ctx, caller.ID, &u); err != nil {
		return nil, err
	}
	if kind == "notifications" {
		u.Notifications = datatypes.JSON(raw)
	} else {
		u.Privacy = datatypes.JSON(raw)
	}
	if err := s.userRepo.Update(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userService) ChangePassword(ctx context.Context, caller *models.User, current, next string) error {
	if len(next) < 8 {
		return appErr.NewValidation("password validation failed",
			map[string]string{"newPassword": "password must be at least 8 characters"})
	}

	var u models.User
	if err := s.userRepo.GetByID(ctx, caller.ID, &u); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return appErr.New(appErr.CodeInvalid, "account has no password; sign in with Google")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return appErr.New(appErr.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}
	if err := s.userRepo.UpdatePassword(ctx, caller.ID, string(hash)); err != nil {
		return err
	}

	logger.L().Info("password changed", zap.String("user_id", caller.ID.String()))
	return nil
}

func (s *userService) List(ctx context.Context, caller *models.User, role models.Role) ([]models.User, error) {
	if caller.Role != models.RoleAdmin {
		return nil, appErr.New(appErr.CodeForbidden, "admin access required")
	}
	if role != "" && !models.ValidRole(role) {
		return nil, appErr.New(appErr.CodeInvalid, "role must be student, recruiter, or admin")
	}
	return s.userRepo.List(ctx, role)
}

// ListForMessaging returns the reduced directory a user may address messages
// to: students see recruiters, recruiters see students, admins see everyone.
func (s *userService) ListForMessaging(ctx context.Context, caller *models.User) ([]models.Summary, error) {
	var role models.Role
	switch caller.Role {
	case models.RoleStudent:
		role = models.RoleRecruiter
	case models.RoleRecruiter:
		role = models.RoleStudent
	}
	users, err := s.userRepo.List(ctx, role)
	if err != nil {
		return nil, err
	}
	out := make([]models.Summary, 0, len(users))
	for i := range users {
		if users[i].ID == caller.ID {
			continue
		}
		out = append(out, users[i].Summarize())
	}
	return out, nil
}

func (s *userService) ApproveRecruiter(ctx context.Context, caller *models.User, userID uuid.UUID) error {
	if caller.Role != models.RoleAdmin {
		return appErr.New(appErr.CodeForbidden, "admin access required")
	}
	if err := s.userRepo.ApproveRecruiter(ctx, userID); err != nil {
		return err
	}
	logger.L().Info("recruiter approved",
		zap.String("recruiter_id", userID.String()),
		zap.String("admin_id", caller.ID.String()))
	return nil
}

func (s *userService) DeleteAccount(ctx context.Context, caller *models.User, userID uuid.UUID) error {
	if caller.ID != userID && caller.Role != models.RoleAdmin {
		return appErr.New(appErr.CodeForbidden, "not authorized to delete this account")
	}
	if err := s.userRepo.DeleteCascade(ctx, userID); err != nil {
		return err
	}
	logger.L().Info("account deleted",
		zap.String("user_id", userID.String()),
		zap.String("caller_id", caller.ID.String()))
	return nil
}

func setOpt(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
