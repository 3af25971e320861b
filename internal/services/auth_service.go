package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushire/backend/internal/models"
	"github.com/campushire/backend/internal/repository"
	appErr "github.com/campushire/backend/pkg/errors"
	"github.com/campushire/backend/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, input *RegisterInput) (string, *models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GoogleLogin(ctx context.Context, credential string) (string, *models.User, error)
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

type authService struct {
	userRepo   repository.UserRepository
	google     GoogleVerifier
	hmacSecret []byte
	tokenTTL   time.Duration
}

func NewAuthService(userRepo repository.UserRepository, google GoogleVerifier, secret []byte, ttl time.Duration) AuthService {
	return &authService{userRepo: userRepo, google: google, hmacSecret: secret, tokenTTL: ttl}
}

var _ AuthService = (*authService)(nil)

func (s *authService) Register(ctx context.Context, input *RegisterInput) (string, *models.User, error) {
	fields := map[string]string{}
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		fields["name"] = "name is required"
	}
	if email == "" {
		fields["email"] = "email is required"
	}
	if len(input.Password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	role := input.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !models.ValidRole(role) {
		fields["role"] = "role must be student, recruiter, or admin"
	}
	if len(fields) > 0 {
		return "", nil, appErr.NewValidation("registration failed", fields)
	}

	ph, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}

	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(ph),
		Role:         role,
	}
	// Role-specific profiles start empty; recruiters need admin approval
	// before they can post jobs.
	switch role {
	case models.RoleStudent:
		u.Student = &models.StudentProfile{}
	case models.RoleRecruiter:
		u.Recruiter = &models.RecruiterProfile{Approved: false}
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if appErr.IsCode(err, appErr.CodeAlreadyExists) {
			return "", nil, appErr.New(appErr.CodeAlreadyExists, "user already exists")
		}
		return "", nil, err
	}

	token, err := s.issueToken(u.ID.String())
	if err != nil {
		return "", nil, err
	}

	logger.L().Info("user registered", zap.String("user_id", u.ID.String()), zap.String("role", string(role)))
	return token, u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var u models.User
	if err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)), &u); err != nil {
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
	}
	if u.PasswordHash == "" {
		// Google-only account; no password to compare against.
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.issueToken(u.ID.String())
	if err != nil {
		return "", nil, err
	}
	return token, &u, nil
}

func (s *authService) GoogleLogin(ctx context.Context, credential string) (string, *models.User, error) {
	claims, err := s.google.Verify(ctx, credential)
	if err != nil {
		return "", nil, appErr.Wrap(err, appErr.CodeUnauthorized, "google authentication failed")
	}

	var u models.User
	err = s.userRepo.GetByEmail(ctx, strings.ToLower(claims.Email), &u)
	switch {
	case appErr.IsCode(err, appErr.CodeNotFound):
		u = models.User{
			Name:           claims.Name,
			Email:          strings.ToLower(claims.Email),
			GoogleID:       &claims.Subject,
			ProfilePicture: claims.Picture,
			IsVerified:     true,
			Role:           models.RoleStudent,
			Student:        &models.StudentProfile{},
		}
		if err := s.userRepo.Create(ctx, &u); err != nil {
			return "", nil, err
		}
		logger.L().Info("google account created", zap.String("user_id", u.ID.String()))
	case err != nil:
		return "", nil, err
	case u.GoogleID == nil:
		// Link the Google identity to the existing account.
		u.GoogleID = &claims.Subject
		u.ProfilePicture = claims.Picture
		u.IsVerified = true
		if err := s.userRepo.Update(ctx, &u); err != nil {
			return "", nil, err
		}
	}

	token, err := s.issueToken(u.ID.String())
	if err != nil {
		return "", nil, err
	}
	return token, &u, nil
}

func (s *authService) issueToken(subject string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.hmacSecret)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "sign token failed")
	}
	return signed, nil
}
