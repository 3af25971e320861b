package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushire/backend/internal/models"
	appErr "github.com/campushire/backend/pkg/errors"
)

type stubVerifier struct {
	claims *GoogleClaims
	err    error
}

func (s *stubVerifier) Verify(context.Context, string) (*GoogleClaims, error) {
	return s.claims, s.err
}

var testSecret = []byte("test-secret")

func newAuthService(users *mockUserRepo, google GoogleVerifier) AuthService {
	return NewAuthService(users, google, testSecret, time.Hour)
}

func TestRegisterReportsAllViolations(t *testing.T) {
	users := new(mockUserRepo)
	svc := newAuthService(users, nil)

	_, _, err := svc.Register(context.Background(), &RegisterInput{
		Password: "short",
		Role:     "superuser",
	})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	fields := appErr.Fields(err)
	for _, key := range []string{"name", "email", "password", "role"} {
		require.Contains(t, fields, key)
	}
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterDefaultsToStudent(t *testing.T) {
	users := new(mockUserRepo)
	svc := newAuthService(users, nil)

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleStudent && u.Student != nil && u.Recruiter == nil
	})).Return(nil)

	token, user, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Asha",
		Email:    "Asha@Example.EDU",
		Password: "password123",
	})
	require.NoError(t, err)
	require.Equal(t, "asha@example.edu", user.Email)
	require.NotEmpty(t, token)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return testSecret, nil })
	require.NoError(t, err)
	require.True(t, parsed.Valid)
}

func TestRegisterRecruiterStartsUnapproved(t *testing.T) {
	users := new(mockUserRepo)
	svc := newAuthService(users, nil)

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleRecruiter && u.Recruiter != nil && !u.Recruiter.Approved
	})).Return(nil)

	_, _, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Rita",
		Email:    "rita@acme.com",
		Password: "password123",
		Role:     models.RoleRecruiter,
	})
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := new(mockUserRepo)
	svc := newAuthService(users, nil)

	users.On("Create", mock.Anything, mock.Anything).
		Return(appErr.New(appErr.CodeAlreadyExists, "entity already exists"))

	_, _, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Asha",
		Email:    "asha@example.edu",
		Password: "password123",
	})
	require.True(t, appErr.IsCode(err, appErr.CodeAlreadyExists))
}

func TestLoginWrongPassword(t *testing.T) {
	users := new(mockUserRepo)
	svc := newAuthService(users, nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Email: "asha@example.edu", PasswordHash: string(hash)}

	users.On("GetByEmail", mock.Anything, "asha@example.edu", mock.Anything).Return(nil, u)

	_, _, err = svc.Login(context.Background(), "asha@example.edu", "wrong-password")
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
}

func TestLoginGoogleOnlyAccountHasNoPassword(t *testing.T) {
	users := new(mockUserRepo)
	svc := newAuthService(users, nil)

	u := &models.User{Email: "asha@example.edu"}
	users.On("GetByEmail", mock.Anything, "asha@example.edu", mock.Anything).Return(nil, u)

	_, _, err := svc.Login(context.Background(), "asha@example.edu", "anything")
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
}

func TestGoogleLoginCreatesStudentAccount(t *testing.T) {
	users := new(mockUserRepo)
	verifier := &stubVerifier{claims: &GoogleClaims{
		Subject: "google-sub-1",
		Email:   "new@example.edu",
		Name:    "New Student",
	}}
	svc := newAuthService(users, verifier)

	users.On("GetByEmail", mock.Anything, "new@example.edu", mock.Anything).
		Return(appErr.New(appErr.CodeNotFound, "user not found"), nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleStudent && u.GoogleID != nil && *u.GoogleID == "google-sub-1" && u.IsVerified
	})).Return(nil)

	token, user, err := svc.GoogleLogin(context.Background(), "credential")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, models.RoleStudent, user.Role)
	users.AssertExpectations(t)
}

func TestGoogleLoginLinksExistingAccount(t *testing.T) {
	users := new(mockUserRepo)
	verifier := &stubVerifier{claims: &GoogleClaims{
		Subject: "google-sub-2",
		Email:   "asha@example.edu",
	}}
	svc := newAuthService(users, verifier)

	existing := &models.User{Email: "asha@example.edu", Role: models.RoleStudent}
	users.On("GetByEmail", mock.Anything, "asha@example.edu", mock.Anything).Return(nil, existing)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.GoogleID != nil && *u.GoogleID == "google-sub-2" && u.IsVerified
	})).Return(nil)

	_, _, err := svc.GoogleLogin(context.Background(), "credential")
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestGoogleLoginBadCredential(t *testing.T) {
	users := new(mockUserRepo)
	verifier := &stubVerifier{err: appErr.New(appErr.CodeUnauthorized, "bad token")}
	svc := newAuthService(users, verifier)

	_, _, err := svc.GoogleLogin(context.Background(), "garbage")
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
}
