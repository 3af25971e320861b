package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campushire/backend/internal/models"
	appErr "github.com/campushire/backend/pkg/errors"
)

// JobFilter narrows job listings. Zero values mean "no constraint".
type JobFilter struct {
	RecruiterID *uuid.UUID
	Status      models.JobStatus
	Company     string
	JobType     models.JobType
	Search      string
}

type JobRepository interface {
	BaseRepository[models.Job]
	List(ctx context.Context, f JobFilter) ([]models.Job, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.JobStatus) error
	DeleteWithApplications(ctx context.Context, id uuid.UUID) error
}

type jobRepository struct {
	BaseRepository[models.Job]
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{BaseRepository: NewBaseRepository[models.Job](db), db: db}
}

func (r *jobRepository) List(ctx context.Context, f JobFilter) ([]models.Job, error) {
	q := r.db.WithContext(ctx).Preload("Recruiter").Preload("Recruiter.Recruiter").
		Order("created_at DESC")
	if f.RecruiterID != nil {
		q = q.Where("recruiter_id = ?", *f.RecruiterID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Company != "" {
		q = q.Where("company ILIKE ?", "%"+f.Company+"%")
	}
	if f.JobType != "" {
		q = q.Where("job_type = ?", f.JobType)
	}
	if f.Search != "" {
		pat := "%" + f.Search + "%"
		q = q.Where("title ILIKE ? OR company ILIKE ? OR description ILIKE ? OR location ILIKE ?",
			pat, pat, pat, pat)
	}
	var out []models.Job
	if err := q.Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list jobs failed")
	}
	return out, nil
}

func (r *jobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.JobStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Job{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update job status failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "job not found")
	}
	return nil
}

// DeleteWithApplications removes the job and every application referencing
// it in a single transaction so neither can be orphaned.
func (r *jobRepository) DeleteWithApplications(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Job{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return appErr.New(appErr.CodeNotFound, "job not found")
		}
		return nil
	})
	if err != nil {
		var ae *appErr.AppError
		if errors.As(err, &ae) {
			return ae
		}
		return appErr.Wrap(err, appErr.CodeInternal, "delete job cascade failed")
	}
	return nil
}
