package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushire/backend/internal/models"
	appErr "github.com/campushire/backend/pkg/errors"
)

type ApplicationRepository interface {
	BaseRepository[models.Application]
	GetByJobAndStudent(ctx context.Context, jobID, studentID uuid.UUID, dest *models.Application) error
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error)
	ListAll(ctx context.Context) ([]models.Application, error)
	CountsByJobs(ctx context.Context, jobIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	AppliedSet(ctx context.Context, studentID uuid.UUID, jobIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	CreateWithCount(ctx context.Context, app *models.Application) error
	DeleteWithCount(ctx context.Context, app *models.Application) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error
}

type applicationRepository struct {
	BaseRepository[models.Application]
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{BaseRepository: NewBaseRepository[models.Application](db), db: db}
}

func (r *applicationRepository) GetByJobAndStudent(ctx context.Context, jobID, studentID uuid.UUID, dest *models.Application) error {
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND student_id = ?", jobID, studentID).
		First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "application not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get application failed")
	}
	return nil
}

func (r *applicationRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Application, error) {
	var out []models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list applications by student failed")
	}
	return out, nil
}

func (r *applicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error) {
	var out []models.Application
	err := r.db.WithContext(ctx).
		Preload("Student").Preload("Student.Student").Preload("Job").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list applications by job failed")
	}
	return out, nil
}

func (r *applicationRepository) ListAll(ctx context.Context) ([]models.Application, error) {
	var out []models.Application
	err := r.db.WithContext(ctx).
		Preload("Student").Preload("Job").
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list applications failed")
	}
	return out, nil
}

func (r *applicationRepository) CountsByJobs(ctx context.Context, jobIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(jobIDs))
	if len(jobIDs) == 0 {
		return out, nil
	}
	rows := []struct {
		JobID uuid.UUID
		N     int64
	}{}
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Select("job_id, COUNT(*) AS n").
		Where("job_id IN ?", jobIDs).
		Group("job_id").
		Scan(&rows).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "count applications by job failed")
	}
	for _, row := range rows {
		out[row.JobID] = row.N
	}
	return out, nil
}

func (r *applicationRepository) AppliedSet(ctx context.Context, studentID uuid.UUID, jobIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(jobIDs))
	if len(jobIDs) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("student_id = ? AND job_id IN ?", studentID, jobIDs).
		Pluck("job_id", &ids).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "resolve applied jobs failed")
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// CreateWithCount inserts the application and increments the owning job's
// cached counter in one transaction. A concurrent duplicate submit loses to
// the unique (job_id, student_id) index and surfaces as already_exists.
func (r *applicationRepository) CreateWithCount(ctx context.Context, app *models.Application) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		return tx.Model(&models.Job{}).Where("id = ?", app.JobID).
			UpdateColumn("application_count", gorm.Expr("application_count + 1")).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return appErr.New(appErr.CodeAlreadyExists, "you have already applied for this job")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "create application failed")
	}
	return nil
}

// DeleteWithCount removes the application and decrements the owning job's
// cached counter in one transaction.
func (r *applicationRepository) DeleteWithCount(ctx context.Context, app *models.Application) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Application{}, "id = ?", app.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return appErr.New(appErr.CodeNotFound, "application not found")
		}
		return tx.Model(&models.Job{}).Where("id = ?", app.JobID).
			UpdateColumn("application_count", gorm.Expr("application_count - 1")).Error
	})
	if err != nil {
		var ae *appErr.AppError
		if errors.As(err, &ae) {
			return ae
		}
		return appErr.Wrap(err, appErr.CodeInternal, "withdraw application failed")
	}
	return nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update application status failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "application not found")
	}
	return nil
}
