package file

import (
	"context"
	"time"
)

// Application is the subset of an application row that workflow actions write.
type Application struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Status         string    `json:"status"`
	Stage          string    `json:"pipeline_stage,omitempty"`
	AssignedTo     string    `json:"assigned_to,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ApplicationRepository stores applications as JSON files.
// Updates of unknown applications are silently ignored.
type ApplicationRepository struct {
	applications collection[Application]
}

// Save stores an application.
func (r *ApplicationRepository) Save(_ context.Context, application *Application) error {
	return r.applications.put(recordKey(application.ID), application)
}

// Get returns the stored application or nil.
func (r *ApplicationRepository) Get(_ context.Context, applicationID string) (*Application, error) {
	return r.applications.get(recordKey(applicationID))
}

func (r *ApplicationRepository) UpdateStatus(_ context.Context, organizationID, applicationID, status string, at time.Time) error {
	return r.mutate(organizationID, applicationID, at, func(a *Application) { a.Status = status })
}

func (r *ApplicationRepository) UpdateStage(_ context.Context, organizationID, applicationID, stage string, at time.Time) error {
	return r.mutate(organizationID, applicationID, at, func(a *Application) { a.Stage = stage })
}

func (r *ApplicationRepository) Assign(_ context.Context, organizationID, applicationID, userID string, at time.Time) error {
	return r.mutate(organizationID, applicationID, at, func(a *Application) { a.AssignedTo = userID })
}

func (r *ApplicationRepository) mutate(organizationID, applicationID string, at time.Time, apply func(*Application)) error {
	return r.applications.update(recordKey(applicationID), func(current *Application) *Application {
		if current == nil || current.OrganizationID != organizationID {
			return nil
		}

		next := *current
		apply(&next)
		next.UpdatedAt = at

		return &next
	})
}
