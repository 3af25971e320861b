package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/campushire/backend/internal/models"
	"github.com/campushire/backend/internal/repository"
	"github.com/campushire/backend/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type mockUserRepo struct{ mock.Mock }

var _ repository.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) Create(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id any, dest *models.User) error {
	args := m.Called(ctx, id, dest)
	if u, ok := args.Get(1).(*models.User); ok && args.Error(0) == nil {
		*dest = *u
	}
	return args.Error(0)
}

func (m *mockUserRepo) Update(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id any) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	args := m.Called(ctx, email, dest)
	if u, ok := args.Get(1).(*models.User); ok && args.Error(0) == nil {
		*dest = *u
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetWithProfiles(ctx context.Context, id uuid.UUID, dest *models.User) error {
	args := m.Called(ctx, id, dest)
	if u, ok := args.Get(1).(*models.User); ok && args.Error(0) == nil {
		*dest = *u
	}
	return args.Error(0)
}

func (m *mockUserRepo) List(ctx context.Context, role models.Role) ([]models.User, error) {
	args := m.Called(ctx, role)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) UpsertStudentProfile(ctx context.Context, p *models.StudentProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockUserRepo) UpsertRecruiterProfile(ctx context.Context, p *models.RecruiterProfile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockUserRepo) ApproveRecruiter(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) error {
	return m.Called(ctx, userID, hash).Error(0)
}

func (m *mockUserRepo) DeleteCascade(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type mockJobRepo struct{ mock.Mock }

var _ repository.JobRepository = (*mockJobRepo)(nil)

func (m *mockJobRepo) Create(ctx context.Context, j *models.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *mockJobRepo) GetByID(ctx context.Context, id any, dest *models.Job) error {
	args := m.Called(ctx, id, dest)
	if j, ok := args.Get(1).(*models.Job); ok && args.Error(0) == nil {
		*dest = *j
	}
	return args.Error(0)
}

func (m *mockJobRepo) Update(ctx context.Context, j *models.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *mockJobRepo) Delete(ctx context.Context, id any) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockJobRepo) List(ctx context.Context, f repository.JobFilter) ([]models.Job, error) {
	args := m.Called(ctx, f)
	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Error(1)
}

func (m *mockJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.JobStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockJobRepo) DeleteWithApplications(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockAppRepo struct{ mock.Mock }

var _ repository.ApplicationRepository = (*mockAppRepo)(nil)

func (m *mockAppRepo) Create(ctx context.Context, a *models.Application) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAppRepo) GetByID(ctx context.Context, id any, dest *models.Application) error {
	args := m.Called(ctx, id, dest)
	if a, ok := args.Get(1).(*models.Application); ok && args.Error(0) == nil {
		*dest = *a
	}
	return args.Error(0)
}

func (m *mockAppRepo) Update(ctx context.Context, a *models.Application) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAppRepo) Delete(ctx context.Context, id any) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAppRepo) GetByJobAndStudent(ctx context.Context, jobID, studentID uuid.UUID, dest *models.Application) error {
	args := m.Called(ctx, jobID, studentID, dest)
	if a, ok := args.Get(1).(*models.Application); ok && args.Error(0) == nil {
		*dest = *a
	}
	return args.Error(0)
}

func (m *mockAppRepo) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Application, error) {
	args := m.Called(ctx, studentID)
	apps, _ := args.Get(0).([]models.Application)
	return apps, args.Error(1)
}

func (m *mockAppRepo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Application, error) {
	args := m.Called(ctx, jobID)
	apps, _ := args.Get(0).([]models.Application)
	return apps, args.Error(1)
}

func (m *mockAppRepo) ListAll(ctx context.Context) ([]models.Application, error) {
	args := m.Called(ctx)
	apps, _ := args.Get(0).([]models.Application)
	return apps, args.Error(1)
}

func (m *mockAppRepo) CountsByJobs(ctx context.Context, jobIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx, jobIDs)
	counts, _ := args.Get(0).(map[uuid.UUID]int64)
	return counts, args.Error(1)
}

func (m *mockAppRepo) AppliedSet(ctx context.Context, studentID uuid.UUID, jobIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, studentID, jobIDs)
	set, _ := args.Get(0).(map[uuid.UUID]bool)
	return set, args.Error(1)
}

func (m *mockAppRepo) CreateWithCount(ctx context.Context, a *models.Application) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAppRepo) DeleteWithCount(ctx context.Context, a *models.Application) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAppRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ApplicationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type mockMsgRepo struct{ mock.Mock }

var _ repository.MessageRepository = (*mockMsgRepo)(nil)

func (m *mockMsgRepo) Create(ctx context.Context, msg *models.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockMsgRepo) GetByID(ctx context.Context, id any, dest *models.Message) error {
	args := m.Called(ctx, id, dest)
	if msg, ok := args.Get(1).(*models.Message); ok && args.Error(0) == nil {
		*dest = *msg
	}
	return args.Error(0)
}

func (m *mockMsgRepo) Update(ctx context.Context, msg *models.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockMsgRepo) Delete(ctx context.Context, id any) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockMsgRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	args := m.Called(ctx, userID)
	msgs, _ := args.Get(0).([]models.Message)
	return msgs, args.Error(1)
}

func (m *mockMsgRepo) Conversation(ctx context.Context, a, b uuid.UUID) ([]models.Message, error) {
	args := m.Called(ctx, a, b)
	msgs, _ := args.Get(0).([]models.Message)
	return msgs, args.Error(1)
}

func (m *mockMsgRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMsgRepo) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}
