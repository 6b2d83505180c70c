package jobdescriptions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for job descriptions.
type Service struct {
	Repo Repo
}

// Create validates and stores a new job description. The stored payload is
// always the canonical validated form.
func (s *Service) Create(ctx context.Context, tenantID, businessUnitID, title, description, createdBy string, data Data) (JobDescription, error) {
	title = strings.TrimSpace(title)
	if tenantID == "" {
		return JobDescription{}, errors.New("tenantID is required")
	}
	if title == "" {
		return JobDescription{}, errors.New("title is required")
	}
	if data.JobTitle == "" {
		data.JobTitle = title
	}
	now := time.Now().UTC()
	jd := JobDescription{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		BusinessUnitID: businessUnitID,
		Title:          title,
		Description:    description,
		Data:           Validate(data),
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, jd); err != nil {
		return JobDescription{}, err
	}
	return jd, nil
}

// Get returns a job description scoped to a tenant.
func (s *Service) Get(ctx context.Context, tenantID, jdID string) (JobDescription, error) {
	return s.Repo.GetByID(ctx, tenantID, jdID)
}

// List returns a tenant's job descriptions newest first.
func (s *Service) List(ctx context.Context, tenantID string, limit, offset int) ([]JobDescription, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.ListByTenant(ctx, tenantID, limit, offset)
}
