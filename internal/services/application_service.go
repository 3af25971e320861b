package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushire/backend/internal/models"
	"github.com/campushire/backend/internal/repository"
	appErr "github.com/campushire/backend/pkg/errors"
	"github.com/campushire/backend/pkg/logger"
)

// ApplicationService owns the apply/withdraw lifecycle and recruiter triage.
type ApplicationService interface {
	Submit(ctx context.Context, student *models.User, input *SubmitApplicationInput) (*models.Application, error)
	ListForStudent(ctx context.Context, student *models.User) ([]models.Application, error)
	ListForJob(ctx context.Context, caller *models.User, jobID uuid.UUID) ([]models.Application, error)
	ListAll(ctx context.Context, caller *models.User) ([]models.Application, error)
	UpdateStatus(ctx context.Context, caller *models.User, id uuid.UUID, status models.ApplicationStatus) (*models.Application, error)
	Withdraw(ctx context.Context, student *models.User, id uuid.UUID) error
}

type SubmitApplicationInput struct {
	JobID       uuid.UUID
	CoverLetter string
	ResumeURL   string
}

type applicationService struct {
	appRepo repository.ApplicationRepository
	jobRepo repository.JobRepository
}

func NewApplicationService(appRepo repository.ApplicationRepository, jobRepo repository.JobRepository) ApplicationService {
	return &applicationService{appRepo: appRepo, jobRepo: jobRepo}
}

var _ ApplicationService = (*applicationService)(nil)

func (s *applicationService) Submit(ctx context.Context, student *models.User, input *SubmitApplicationInput) (*models.Application, error) {
	if student.Student == nil {
		return nil, appErr.New(appErr.CodeInvalid, "please complete your student profile before applying")
	}

	var job models.Job
	if err := s.jobRepo.GetByID(ctx, input.JobID, &job); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "job not found")
		}
		return nil, err
	}

	cgpa := student.Student.CGPA
	resumeURL := strings.TrimSpace(input.ResumeURL)
	if resumeURL == "" {
		resumeURL = student.Student.ResumeURL
	}

	if ok, reason := job.CanApply(time.Now(), cgpa); !ok {
		switch reason {
		case models.ApplyDeniedNotOpen:
			return nil, appErr.New(appErr.CodeInvalid, "this job is not accepting applications")
		case models.ApplyDeniedExpired:
			return nil, appErr.New(appErr.CodeInvalid, "application deadline has passed")
		case models.ApplyDeniedLowCGPA:
			return nil, appErr.Newf(appErr.CodeInvalid, "minimum CGPA requirement of %.2f not met", *job.MinCGPA)
		default:
			return nil, appErr.New(appErr.CodeInvalid, "you are not eligible for this job")
		}
	}

	var existing models.Application
	err := s.appRepo.GetByJobAndStudent(ctx, job.ID, student.ID, &existing)
	if err == nil {
		return nil, appErr.New(appErr.CodeAlreadyExists, "you have already applied for this job")
	}
	if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}

	app := &models.Application{
		JobID:       job.ID,
		StudentID:   student.ID,
		Status:      models.ApplicationApplied,
		CoverLetter: strings.TrimSpace(input.CoverLetter),
		ResumeURL:   resumeURL,
	}
	// The unique (job_id, student_id) index backstops the check above when
	// two submits race.
	if err := s.appRepo.CreateWithCount(ctx, app); err != nil {
		return nil, err
	}

	logger.L().Info("application submitted",
		zap.String("application_id", app.ID.String()),
		zap.String("job_id", job.ID.String()),
		zap.String("student_id", student.ID.String()))
	return app, nil
}

func (s *applicationService) ListForStudent(ctx context.Context, student *models.User) ([]models.Application, error) {
	return s.appRepo.ListByStudent(ctx, student.ID)
}

func (s *applicationService) ListForJob(ctx context.Context, caller *models.User, jobID uuid.UUID) ([]models.Application, error) {
	var job models.Job
	if err := s.jobRepo.GetByID(ctx, jobID, &job); err != nil {
		return nil, err
	}
	if job.RecruiterID != caller.ID && caller.Role != models.RoleAdmin {
		return nil, appErr.New(appErr.CodeForbidden, "not authorized to view applications for this job")
	}
	return s.appRepo.ListByJob(ctx, jobID)
}

func (s *applicationService) ListAll(ctx context.Context, caller *models.User) ([]models.Application, error) {
	if caller.Role != models.RoleAdmin {
		return nil, appErr.New(appErr.CodeForbidden, "admin access required")
	}
	return s.appRepo.ListAll(ctx)
}

func (s *applicationService) UpdateStatus(ctx context.Context, caller *models.User, id uuid.UUID, status models.ApplicationStatus) (*models.Application, error) {
	if !models.ValidApplicationStatus(status) {
		return nil, appErr.New(appErr.CodeInvalid, "status must be applied, shortlisted, rejected, or hired")
	}

	var app models.Application
	if err := s.appRepo.GetByID(ctx, id, &app); err != nil {
		return nil, err
	}
	var job models.Job
	if err := s.jobRepo.GetByID(ctx, app.JobID, &job); err != nil {
		return nil, err
	}
	if job.RecruiterID != caller.ID && caller.Role != models.RoleAdmin {
		return nil, appErr.New(appErr.CodeForbidden, "not authorized to update this application")
	}
	if !app.Status.CanTransition(status) {
		return nil, appErr.Newf(appErr.CodeConflict, "cannot move application from %s to %s", app.Status, status)
	}

	if err := s.appRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	app.Status = status

	logger.L().Info("application status changed",
		zap.String("application_id", id.String()),
		zap.String("status", string(status)),
		zap.String("caller_id", caller.ID.String()))
	return &app, nil
}

func (s *applicationService) Withdraw(ctx context.Context, student *models.User, id uuid.UUID) error {
	var app models.Application
	if err := s.appRepo.GetByID(ctx, id, &app); err != nil {
		return err
	}
	if app.StudentID != student.ID {
		return appErr.New(appErr.CodeForbidden, "not authorized to withdraw this application")
	}
	if app.Status != models.ApplicationApplied {
		return appErr.Newf(appErr.CodeConflict, "cannot withdraw an application that is %s", app.Status)
	}
	if err := s.appRepo.DeleteWithCount(ctx, &app); err != nil {
		return err
	}

	logger.L().Info("application withdrawn",
		zap.String("application_id", id.String()),
		zap.String("student_id", student.ID.String()))
	return nil
}
