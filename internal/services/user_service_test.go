package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushire/backend/internal/models"
	appErr "github.com/campushire/backend/pkg/errors"
)

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users)

	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	require.NoError(t, err)
	caller := &models.User{ID: uuid.New(), PasswordHash: string(hash)}

	users.On("GetByID", mock.Anything, caller.ID, mock.Anything).Return(nil, caller)

	err = svc.ChangePassword(context.Background(), caller, "wrong", "new-password-1")
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePasswordHappyPath(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users)

	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	require.NoError(t, err)
	caller := &models.User{ID: uuid.New(), PasswordHash: string(hash)}

	users.On("GetByID", mock.Anything, caller.ID, mock.Anything).Return(nil, caller)
	users.On("UpdatePassword", mock.Anything, caller.ID, mock.MatchedBy(func(h string) bool {
		return bcrypt.CompareHashAndPassword([]byte(h), []byte("new-password-1")) == nil
	})).Return(nil)

	require.NoError(t, svc.ChangePassword(context.Background(), caller, "old-password", "new-password-1"))
	users.AssertExpectations(t)
}

func TestChangePasswordMinLength(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users)

	caller := &models.User{ID: uuid.New()}
	err := svc.ChangePassword(context.Background(), caller, "old", "short")
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestListUsersAdminOnly(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users)

	student := &models.User{ID: uuid.New(), Role: models.RoleStudent}
	_, err := svc.List(context.Background(), student, "")
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))
}

func TestListForMessagingCrossesRoles(t *testing.T) {
	cases := []struct {
		callerRole models.Role
		wantFilter models.Role
	}{
		{models.RoleStudent, models.RoleRecruiter},
		{models.RoleRecruiter, models.RoleStudent},
		{models.RoleAdmin, ""},
	}
	for _, tc := range cases {
		t.Run(string(tc.callerRole), func(t *testing.T) {
			users := new(mockUserRepo)
			svc := NewUserService(users)

			caller := &models.User{ID: uuid.New(), Role: tc.callerRole}
			other := models.User{ID: uuid.New(), Name: "Other", Role: tc.wantFilter}

			users.On("List", mock.Anything, tc.wantFilter).
				Return([]models.User{other, {ID: caller.ID, Role: tc.callerRole}}, nil)

			out, err := svc.ListForMessaging(context.Background(), caller)
			require.NoError(t, err)
			// The caller never appears in their own directory.
			for _, s := range out {
				require.NotEqual(t, caller.ID, s.ID)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestApproveRecruiterAdminOnly(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users)

	recruiter := &models.User{ID: uuid.New(), Role: models.RoleRecruiter}
	err := svc.ApproveRecruiter(context.Background(), recruiter, uuid.New())
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))
	users.AssertNotCalled(t, "ApproveRecruiter", mock.Anything, mock.Anything)
}

func TestDeleteAccountSelfOrAdmin(t *testing.T) {
	self := &models.User{ID: uuid.New(), Role: models.RoleStudent}
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	stranger := &models.User{ID: uuid.New(), Role: models.RoleStudent}

	cases := []struct {
		name   string
		caller *models.User
		ok     bool
	}{
		{"self", self, true},
		{"admin", admin, true},
		{"other student", stranger, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := new(mockUserRepo)
			svc := NewUserService(users)

			if tc.ok {
				users.On("DeleteCascade", mock.Anything, self.ID).Return(nil)
			}
			err := svc.DeleteAccount(context.Background(), tc.caller, self.ID)
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.True(t, appErr.IsCode(err, appErr.CodeForbidden))
			}
		})
	}
}

func TestUpdateProfileUpsertsStudentFields(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users)

	caller := &models.User{ID: uuid.New(), Role: models.RoleStudent, Name: "Asha"}
	stored := *caller
	stored.Student = &models.StudentProfile{UserID: caller.ID}

	cgpa := 8.2
	users.On("GetWithProfiles", mock.Anything, caller.ID, mock.Anything).Return(nil, &stored)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)
	users.On("UpsertStudentProfile", mock.Anything, mock.MatchedBy(func(p *models.StudentProfile) bool {
		return p.UserID == caller.ID && p.CGPA != nil && *p.CGPA == cgpa && len(p.Skills) == 2
	})).Return(nil)

	u, err := svc.UpdateProfile(context.Background(), caller, &UpdateProfileInput{
		CGPA:   &cgpa,
		Skills: []string{" Go ", "SQL", "  "},
	})
	require.NoError(t, err)
	require.NotNil(t, u.Student)
	users.AssertExpectations(t)
}

func TestUpdateProfileRejectsBadCGPA(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewUserService(users)

	caller := &models.User{ID: uuid.New(), Role: models.RoleStudent}
	stored := *caller
	users.On("GetWithProfiles", mock.Anything, caller.ID, mock.Anything).Return(nil, &stored)

	bad := 11.0
	_, err := svc.UpdateProfile(context.Background(), caller, &UpdateProfileInput{CGPA: &bad})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
	users.AssertNotCalled(t, "UpsertStudentProfile", mock.Anything, mock.Anything)
}
