package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campushire/backend/internal/models"
	appErr "github.com/campushire/backend/pkg/errors"
)

type UserRepository interface {
	BaseRepository[models.User]
	GetByEmail(ctx context.Context, email string, dest *models.User) error
	GetWithProfiles(ctx context.Context, id uuid.UUID, dest *models.User) error
	List(ctx context.Context, role models.Role) ([]models.User, error)
	UpsertStudentProfile(ctx context.Context, p *models.StudentProfile) error
	UpsertRecruiterProfile(ctx context.Context, p *models.RecruiterProfile) error
	ApproveRecruiter(ctx context.Context, userID uuid.UUID) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) error
	DeleteCascade(ctx context.Context, userID uuid.UUID) error
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db), db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	err := r.db.WithContext(ctx).
		Preload("Student").Preload("Recruiter").
		Where("email = ?", email).First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "user not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get user by email failed")
	}
	return nil
}

func (r *userRepository) GetWithProfiles(ctx context.Context, id uuid.UUID, dest *models.User) error {
	err := r.db.WithContext(ctx).
		Preload("Student").Preload("Recruiter").
		First(dest, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, "user not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get user failed")
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, role models.Role) ([]models.User, error) {
	q := r.db.WithContext(ctx).Preload("Student").Preload("Recruiter").Order("created_at DESC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var out []models.User
	if err := q.Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list users failed")
	}
	return out, nil
}

func (r *userRepository) UpsertStudentProfile(ctx context.Context, p *models.StudentProfile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(p).Error
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "upsert student profile failed")
	}
	return nil
}

func (r *userRepository) UpsertRecruiterProfile(ctx context.Context, p *models.RecruiterProfile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(p).Error
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "upsert recruiter profile failed")
	}
	return nil
}

func (r *userRepository) ApproveRecruiter(ctx context.Context, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.RecruiterProfile{}).
		Where("user_id = ?", userID).Update("approved", true)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "approve recruiter failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "recruiter profile not found")
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).Update("password_hash", hash)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update password failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "user not found")
	}
	return nil
}

// DeleteCascade removes a user and everything hanging off it in one
// transaction: the user's messages and profiles; for students, their
// applications with the owning jobs' counters decremented; for recruiters,
// their jobs and every application referencing those jobs.
func (r *userRepository) DeleteCascade(ctx context.Context, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appErr.New(appErr.CodeNotFound, "user not found")
			}
			return err
		}

		if err := tx.Where("sender_id = ? OR recipient_id = ?", userID, userID).
			Delete(&models.Message{}).Error; err != nil {
			return err
		}

		switch u.Role {
		case models.RoleStudent:
			var apps []models.Application
			if err := tx.Where("student_id = ?", userID).Find(&apps).Error; err != nil {
				return err
			}
			for _, a := range apps {
				if err := tx.Model(&models.Job{}).Where("id = ?", a.JobID).
					UpdateColumn("application_count", gorm.Expr("application_count - 1")).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("student_id = ?", userID).Delete(&models.Application{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).Delete(&models.StudentProfile{}).Error; err != nil {
				return err
			}
		case models.RoleRecruiter:
			if err := tx.Where("job_id IN (?)",
				tx.Model(&models.Job{}).Select("id").Where("recruiter_id = ?", userID),
			).Delete(&models.Application{}).Error; err != nil {
				return err
			}
			if err := tx.Where("recruiter_id = ?", userID).Delete(&models.Job{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).Delete(&models.RecruiterProfile{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
	if err != nil {
		var ae *appErr.AppError
		if errors.As(err, &ae) {
			return ae
		}
		return appErr.Wrap(err, appErr.CodeInternal, "delete user cascade failed")
	}
	return nil
}
