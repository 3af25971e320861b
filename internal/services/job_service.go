package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/campushire/backend/internal/models"
	"github.com/campushire/backend/internal/repository"
	appErr "github.com/campushire/backend/pkg/errors"
	"github.com/campushire/backend/pkg/logger"
)

// JobService owns posting creation, status transitions, and eligibility.
type JobService interface {
	Create(ctx context.Context, recruiter *models.User, input *CreateJobInput) (*models.Job, error)
	List(ctx context.Context, caller *models.User, f *ListJobsFilter) ([]JobView, error)
	Get(ctx context.Context, caller *models.User, id uuid.UUID) (*JobView, error)
	Update(ctx context.Context, caller *models.User, id uuid.UUID, patch map[string]any) (*models.Job, error)
	Close(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Job, error)
	Approve(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Job, error)
	Delete(ctx context.Context, caller *models.User, id uuid.UUID) error
}

type CreateJobInput struct {
	Title          string
	Company        string
	Description    string
	Requirements   string
	Location       string
	Salary         string
	JobType        models.JobType
	Deadline       time.Time
	MinCGPA        *float64
	RequiredSkills []string
}

type ListJobsFilter struct {
	Status  models.JobStatus
	Company string
	JobType models.JobType
	Search  string
}

// JobView is a job annotated with a freshly computed application count and,
// for students, whether the caller already applied and whether they may.
type JobView struct {
	models.Job
	ApplicationCount int64 `json:"application_count"`
	HasApplied       *bool `json:"has_applied,omitempty"`
	CanApply         *bool `json:"can_apply,omitempty"`
}

// updateAllowList is the exact set of patchable job fields; any other key
// fails the whole update.
var updateAllowList = map[string]bool{
	"title": true, "company": true, "description": true, "requirements": true,
	"location": true, "salary": true, "jobType": true, "deadline": true,
	"minCGPA": true, "requiredSkills": true, "status": true,
}

type jobService struct {
	jobRepo repository.JobRepository
	appRepo repository.ApplicationRepository
}

func NewJobService(jobRepo repository.JobRepository, appRepo repository.ApplicationRepository) JobService {
	return &jobService{jobRepo: jobRepo, appRepo: appRepo}
}

var _ JobService = (*jobService)(nil)

func (s *jobService) Create(ctx context.Context, recruiter *models.User, input *CreateJobInput) (*models.Job, error) {
	if recruiter.Recruiter == nil || !recruiter.Recruiter.Approved {
		return nil, appErr.New(appErr.CodeForbidden, "recruiter account is not approved yet")
	}

	j := &models.Job{
		RecruiterID:  recruiter.ID,
		Title:        strings.TrimSpace(input.Title),
		Company:      strings.TrimSpace(input.Company),
		Description:  strings.TrimSpace(input.Description),
		Requirements: strings.TrimSpace(input.Requirements),
		Location:     strings.TrimSpace(input.Location),
		Salary:       strings.TrimSpace(input.Salary),
		JobType:      input.JobType,
		Status:       models.JobStatusOpen,
		Deadline:     input.Deadline,
		MinCGPA:      input.MinCGPA,
	}
	if j.JobType == "" {
		j.JobType = models.JobTypeFullTime
	}
	for _, skill := range input.RequiredSkills {
		if t := strings.TrimSpace(skill); t != "" {
			j.RequiredSkills = append(j.RequiredSkills, t)
		}
	}

	// All fields are validated and every violation reported at once.
	fields := map[string]string{}
	requireString(fields, "title", j.Title, 200)
	requireString(fields, "company", j.Company, 100)
	requireString(fields, "description", j.Description, 5000)
	requireString(fields, "requirements", j.Requirements, 3000)
	requireString(fields, "location", j.Location, 200)
	if len(j.Salary) > 100 {
		fields["salary"] = "salary cannot exceed 100 characters"
	}
	if !models.ValidJobType(j.JobType) {
		fields["jobType"] = "job type must be Full-time, Part-time, Internship, or Contract"
	}
	if j.Deadline.IsZero() {
		fields["deadline"] = "application deadline is required"
	} else if !j.Deadline.After(time.Now()) {
		fields["deadline"] = "deadline must be in the future"
	}
	if j.MinCGPA != nil && (*j.MinCGPA < 0 || *j.MinCGPA > 10) {
		fields["minCGPA"] = "minimum CGPA must be between 0 and 10"
	}
	if len(fields) > 0 {
		return nil, appErr.NewValidation("job validation failed", fields)
	}

	if err := s.jobRepo.Create(ctx, j); err != nil {
		return nil, err
	}
	logger.L().Info("job created",
		zap.String("job_id", j.ID.String()),
		zap.String("recruiter_id", recruiter.ID.String()),
		zap.String("title", j.Title))
	return j, nil
}

func (s *jobService) List(ctx context.Context, caller *models.User, f *ListJobsFilter) ([]JobView, error) {
	if f == nil {
		f = &ListJobsFilter{}
	}
	repoFilter := repository.JobFilter{
		Company: f.Company,
		JobType: f.JobType,
		Search:  f.Search,
	}
	switch caller.Role {
	case models.RoleStudent:
		// Students see every job regardless of status; the status filter
		// is deliberately ignored to maximize discovery.
	case models.RoleRecruiter:
		id := caller.ID
		repoFilter.RecruiterID = &id
		repoFilter.Status = f.Status
	case models.RoleAdmin:
		repoFilter.Status = f.Status
	}

	jobs, err := s.jobRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, caller, jobs)
}

func (s *jobService) Get(ctx context.Context, caller *models.User, id uuid.UUID) (*JobView, error) {
	var j models.Job
	if err := s.jobRepo.GetByID(ctx, id, &j); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "job not found")
		}
		return nil, err
	}
	views, err := s.annotate(ctx, caller, []models.Job{j})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// annotate attaches fresh application counts and, for students, the
// has-applied and eligibility flags computed via the shared predicate.
func (s *jobService) annotate(ctx context.Context, caller *models.User, jobs []models.Job) ([]JobView, error) {
	ids := make([]uuid.UUID, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	counts, err := s.appRepo.CountsByJobs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var applied map[uuid.UUID]bool
	var cgpa *float64
	student := caller.Role == models.RoleStudent
	if student {
		if applied, err = s.appRepo.AppliedSet(ctx, caller.ID, ids); err != nil {
			return nil, err
		}
		if caller.Student != nil {
			cgpa = caller.Student.CGPA
		}
	}

	now := time.Now()
	views := make([]JobView, len(jobs))
	for i, j := range jobs {
		views[i] = JobView{Job: j, ApplicationCount: counts[j.ID]}
		if student {
			has := applied[j.ID]
			ok, _ := j.CanApply(now, cgpa)
			can := ok && !has
			views[i].HasApplied = &has
			views[i].CanApply = &can
		}
	}
	return views, nil
}

func (s *jobService) Update(ctx context.Context, caller *models.User, id uuid.UUID, patch map[string]any) (*models.Job, error) {
	var j models.Job
	if err := s.jobRepo.GetByID(ctx, id, &j); err != nil {
		return nil, err
	}
	if j.RecruiterID != caller.ID {
		return nil, appErr.New(appErr.CodeForbidden, "not authorized to update this job")
	}

	for key := range patch {
		if !updateAllowList[key] {
			return nil, appErr.NewValidation("invalid updates", map[string]string{key: "field cannot be updated"})
		}
	}

	fields := map[string]string{}
	for key, raw := range patch {
		if raw == nil {
			continue
		}
		switch key {
		case "title":
			j.Title = trimString(raw)
			requireString(fields, "title", j.Title, 200)
		case "company":
			j.Company = trimString(raw)
			requireString(fields, "company", j.Company, 100)
		case "description":
			j.Description = trimString(raw)
			requireString(fields, "description", j.Description, 5000)
		case "requirements":
			j.Requirements = trimString(raw)
			requireString(fields, "requirements", j.Requirements, 3000)
		case "location":
			j.Location = trimString(raw)
			requireString(fields, "location", j.Location, 200)
		case "salary":
			j.Salary = trimString(raw)
			if len(j.Salary) > 100 {
				fields["salary"] = "salary cannot exceed 100 characters"
			}
		case "jobType":
			jt := models.JobType(trimString(raw))
			if !models.ValidJobType(jt) {
				fields["jobType"] = "job type must be Full-time, Part-time, Internship, or Contract"
			} else {
				j.JobType = jt
			}
		case "status":
			st := models.JobStatus(trimString(raw))
			if !models.ValidJobStatus(st) {
				fields["status"] = "status must be open, closed, or pending"
			} else {
				j.Status = st
			}
		case "deadline":
			d, err := parseTime(raw)
			if err != nil {
				fields["deadline"] = "deadline must be an RFC 3339 timestamp"
			} else if !d.After(time.Now()) {
				fields["deadline"] = "deadline must be in the future"
			} else {
				j.Deadline = d
			}
		case "minCGPA":
			v, ok := toFloat(raw)
			if !ok || v < 0 || v > 10 {
				fields["minCGPA"] = "minimum CGPA must be between 0 and 10"
			} else {
				j.MinCGPA = &v
			}
		case "requiredSkills":
			skills, ok := toStringSlice(raw)
			if !ok {
				fields["requiredSkills"] = "required skills must be a list of strings"
			} else {
				j.RequiredSkills = pq.StringArray(skills)
			}
		}
	}
	if len(fields) > 0 {
		return nil, appErr.NewValidation("job validation failed", fields)
	}

	if err := s.jobRepo.Update(ctx, &j); err != nil {
		return nil, err
	}
	logger.L().Info("job updated", zap.String("job_id", j.ID.String()), zap.String("recruiter_id", caller.ID.String()))
	return &j, nil
}

func (s *jobService) Close(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Job, error) {
	return s.setStatus(ctx, caller, id, models.JobStatusClosed, true)
}

func (s *jobService) Approve(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Job, error) {
	return s.setStatus(ctx, caller, id, models.JobStatusOpen, false)
}

func (s *jobService) setStatus(ctx context.Context, caller *models.User, id uuid.UUID, status models.JobStatus, ownerAllowed bool) (*models.Job, error) {
	var j models.Job
	if err := s.jobRepo.GetByID(ctx, id, &j); err != nil {
		return nil, err
	}
	owner := ownerAllowed && j.RecruiterID == caller.ID
	if !owner && caller.Role != models.RoleAdmin {
		return nil, appErr.Newf(appErr.CodeForbidden, "not authorized to set this job %s", status)
	}
	if j.Status == status {
		return &j, nil
	}
	if err := s.jobRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	j.Status = status
	logger.L().Info("job status changed",
		zap.String("job_id", id.String()),
		zap.String("status", string(status)),
		zap.String("caller_id", caller.ID.String()))
	return &j, nil
}

func (s *jobService) Delete(ctx context.Context, caller *models.User, id uuid.UUID) error {
	var j models.Job
	if err := s.jobRepo.GetByID(ctx, id, &j); err != nil {
		return err
	}
	if j.RecruiterID != caller.ID && caller.Role != models.RoleAdmin {
		return appErr.New(appErr.CodeForbidden, "not authorized to delete this job")
	}
	if err := s.jobRepo.DeleteWithApplications(ctx, id); err != nil {
		return err
	}
	logger.L().Info("job deleted with applications",
		zap.String("job_id", id.String()),
		zap.String("caller_id", caller.ID.String()))
	return nil
}

func requireString(fields map[string]string, name, value string, max int) {
	if value == "" {
		fields[name] = fmt.Sprintf("%s is required", name)
		return
	}
	if len(value) > max {
		fields[name] = fmt.Sprintf("%s cannot exceed %d characters", name, max)
	}
}

func trimString(raw any) string {
	s, _ := raw.(string)
	return strings.TrimSpace(s)
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func toStringSlice(raw any) ([]string, bool) {
	items, ok := raw.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out, true
}

func parseTime(raw any) (time.Time, error) {
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("not a string")
	}
	return time.Parse(time.RFC3339, s)
}
