package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campushire/backend/internal/models"
	appErr "github.com/campushire/backend/pkg/errors"
)

func testStudent(cgpa *float64) *models.User {
	return &models.User{
		ID:      uuid.New(),
		Name:    "Asha",
		Email:   "asha@example.edu",
		Role:    models.RoleStudent,
		Student: &models.StudentProfile{CGPA: cgpa, ResumeURL: "https://cdn.example.edu/asha.pdf"},
	}
}

func openJob(recruiterID uuid.UUID) *models.Job {
	return &models.Job{
		ID:          uuid.New(),
		RecruiterID: recruiterID,
		Title:       "Backend Engineer",
		Company:     "Acme",
		Status:      models.JobStatusOpen,
		Deadline:    time.Now().Add(48 * time.Hour),
	}
}

func TestSubmitHappyPath(t *testing.T) {
	jobs := new(mockJobRepo)
	apps := new(mockAppRepo)
	svc := NewApplicationService(apps, jobs)

	student := testStudent(nil)
	job := openJob(uuid.New())

	jobs.On("GetByID", mock.Anything, job.ID, mock.Anything).Return(nil, job)
	apps.On("GetByJobAndStudent", mock.Anything, job.ID, student.ID, mock.Anything).
		Return(appErr.New(appErr.CodeNotFound, "application not found"), nil)
	apps.On("CreateWithCount", mock.Anything, mock.MatchedBy(func(a *models.Application) bool {
		return a.JobID == job.ID && a.StudentID == student.ID &&
			a.Status == models.ApplicationApplied &&
			a.ResumeURL == student.Student.ResumeURL
	})).Return(nil)

	app, err := svc.Submit(context.Background(), student, &SubmitApplicationInput{JobID: job.ID})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationApplied, app.Status)
	apps.AssertExpectations(t)
}

func TestSubmitRequiresStudentProfile(t *testing.T) {
	jobs := new(mockJobRepo)
	apps := new(mockAppRepo)
	svc := NewApplicationService(apps, jobs)

	student := testStudent(nil)
	student.Student = nil
	job := openJob(uuid.New())

	_, err := svc.Submit(context.Background(), student, &SubmitApplicationInput{JobID: job.ID})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
	jobs.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	apps.AssertNotCalled(t, "CreateWithCount", mock.Anything, mock.Anything)
}

func TestSubmitDuplicateRejected(t *testing.T) {
	jobs := new(mockJobRepo)
	apps := new(mockAppRepo)
	svc := NewApplicationService(apps, jobs)

	student := testStudent(nil)
	job := openJob(uuid.New())

	jobs.On("GetByID", mock.Anything, job.ID, mock.Anything).Return(nil, job)
	apps.On("GetByJobAndStudent", mock.Anything, job.ID, student.ID, mock.Anything).
		Return(nil, &models.Application{ID: uuid.New(), JobID: job.ID, StudentID: student.ID})

	_, err := svc.Submit(context.Background(), student, &SubmitApplicationInput{JobID: job.ID})
	require.True(t, appErr.IsCode(err, appErr.CodeAlreadyExists))
	apps.AssertNotCalled(t, "CreateWithCount", mock.Anything, mock.Anything)
}

func TestSubmitClosedJobRejected(t *testing.T) {
	jobs := new(mockJobRepo)
	apps := new(mockAppRepo)
	svc := NewApplicationService(apps, jobs)

	student := testStudent(nil)
	job := openJob(uuid.New())
	job.Status = models.JobStatusClosed

	jobs.On("GetByID", mock.Anything, job.ID, mock.Anything).Return(nil, job)

	_, err := svc.Submit(context.Background(), student, &SubmitApplicationInput{JobID: job.ID})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestSubmitExpiredDeadlineRejected(t *testing.T) {
	jobs := new(mockJobRepo)
	apps := new(mockAppRepo)
	svc := NewApplicationService(apps, jobs)

	student := testStudent(nil)
	job := openJob(uuid.New())
	job.Deadline = time.Now().Add(-time.Hour)

	jobs.On("GetByID", mock.Anything, job.ID, mock.Anything).Return(nil, job)

	_, err := svc.Submit(context.Background(), student, &SubmitApplicationInput{JobID: job.ID})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestSubmitCGPARules(t *testing.T) {
	min := 7.5
	low := 6.0
	high := 8.0

	cases := []struct {
		name string
		cgpa *float64
		want bool
	}{
		{"missing cgpa counts as zero", nil, false},
		{"below minimum", &low, false},
		{"meets minimum", &high, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			jobs := new(mockJobRepo)
			apps := new(mockAppRepo)
			svc := NewApplicationService(apps, jobs)

			student := testStudent(tc.cgpa)
			job := openJob(uuid.New())
			job.MinCGPA = &min

			jobs.On("GetByID", mock.Anything, job.ID, mock.Anything).Return(nil, job)
			if tc.want {
				apps.On("GetByJobAndStudent", mock.Anything, job.ID, student.ID, mock.Anything).
					Return(appErr.New(appErr.CodeNotFound, "application not found"), nil)
				apps.On("CreateWithCount", mock.Anything, mock.Anything).Return(nil)
			}

			_, err := svc.Submit(context.Background(), student, &SubmitApplicationInput{JobID: job.ID})
			if tc.want {
				require.NoError(t, err)
			} else {
				require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
			}
		})
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	recruiter := &models.User{ID: uuid.New(), Role: models.RoleRecruiter}

	cases := []struct {
		from models.ApplicationStatus
		to   models.ApplicationStatus
		ok   bool
	}{
		{models.ApplicationApplied, models.ApplicationShortlisted, true},
		{models.ApplicationApplied, models.ApplicationRejected, true},
		{models.ApplicationApplied, models.ApplicationHired, true},
		{models.ApplicationShortlisted, models.ApplicationHired, false},
		{models.ApplicationShortlisted, models.ApplicationApplied, false},
		{models.ApplicationRejected, models.ApplicationShortlisted, false},
		{models.ApplicationHired, models.ApplicationRejected, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			jobs := new(mockJobRepo)
			apps := new(mockAppRepo)
			svc := NewApplicationService(apps, jobs)

			job := openJob(recruiter.ID)
			app := &models.Application{ID: uuid.New(), JobID: job.ID, Status: tc.from}

			apps.On("GetByID", mock.Anything, app.ID, mock.Anything).Return(nil, app)
			jobs.On("GetByID", mock.Anything, job.ID, mock.Anything).Return(nil, job)
			if tc.ok {
				apps.On("UpdateStatus", mock.Anything, app.ID, tc.to).Return(nil)
			}

			updated, err := svc.UpdateStatus(context.Background(), recruiter, app.ID, tc.to)
			if tc.ok {
				require.NoError(t, err)
				require.Equal(t, tc.to, updated.Status)
			} else {
				require.True(t, appErr.IsCode(err, appErr.CodeConflict))
			}
		})
	}
}

func TestUpdateStatusRequiresOwnership(t *testing.T) {
	jobs := new(mockJobRepo)
	apps := new(mockAppRepo)
	svc := NewApplicationService(apps, jobs)

	stranger := &models.User{ID: uuid.New(), Role: models.RoleRecruiter}
	job := openJob(uuid.New())
	app := &models.Application{ID: uuid.New(), JobID: job.ID, Status: models.ApplicationApplied}

	apps.On("GetByID", mock.Anything, app.ID, mock.Anything).Return(nil, app)
	jobs.On("GetByID", mock.Anything, job.ID, mock.Anything).Return(nil, job)

	_, err := svc.UpdateStatus(context.Background(), stranger, app.ID, models.ApplicationShortlisted)
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))
}

func TestUpdateStatusAdminBypassesOwnership(t *testing.T) {
	jobs := new(mockJobRepo)
	apps := new(mockAppRepo)
	svc := NewApplicationService(apps, jobs)

	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	job := openJob(uuid.New())
	app := &models.Application{ID: uuid.New(), JobID: job.ID, Status: models.ApplicationApplied}

	apps.On("GetByID", mock.Anything, app.ID, mock.Anything).Return(nil, app)
	jobs.On("GetByID", mock.Anything, job.ID, mock.Anything).Return(nil, job)
	apps.On("UpdateStatus", mock.Anything, app.ID, models.ApplicationShortlisted).Return(nil)

	updated, err := svc.UpdateStatus(context.Background(), admin, app.ID, models.ApplicationShortlisted)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationShortlisted, updated.Status)
	apps.AssertExpectations(t)
}

func TestWithdrawOnlyFromApplied(t *testing.T) {
	jobs := new(mockJobRepo)
	apps := new(mockAppRepo)
	svc := NewApplicationService(apps, jobs)

	student := testStudent(nil)
	app := &models.Application{ID: uuid.New(), StudentID: student.ID, Status: models.ApplicationShortlisted}

	apps.On("GetByID", mock.Anything, app.ID, mock.Anything).Return(nil, app)

	err := svc.Withdraw(context.Background(), student, app.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeConflict))
	apps.AssertNotCalled(t, "DeleteWithCount", mock.Anything, mock.Anything)
}

func TestWithdrawOwnApplication(t *testing.T) {
	jobs := new(mockJobRepo)
	apps := new(mockAppRepo)
	svc := NewApplicationService(apps, jobs)

	student := testStudent(nil)
	app := &models.Application{ID: uuid.New(), StudentID: student.ID, Status: models.ApplicationApplied}

	apps.On("GetByID", mock.Anything, app.ID, mock.Anything).Return(nil, app)
	apps.On("DeleteWithCount", mock.Anything, mock.MatchedBy(func(a *models.Application) bool {
		return a.ID == app.ID
	})).Return(nil)

	require.NoError(t, svc.Withdraw(context.Background(), student, app.ID))
	apps.AssertExpectations(t)
}

func TestWithdrawForeignApplicationForbidden(t *testing.T) {
	jobs := new(mockJobRepo)
	apps := new(mockAppRepo)
	svc := NewApplicationService(apps, jobs)

	student := testStudent(nil)
	app := &models.Application{ID: uuid.New(), StudentID: uuid.New(), Status: models.ApplicationApplied}

	apps.On("GetByID", mock.Anything, app.ID, mock.Anything).Return(nil, app)

	err := svc.Withdraw(context.Background(), student, app.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeForbidden))
}
