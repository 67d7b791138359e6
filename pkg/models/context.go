package models

import "strings"

// ApplicationSnapshot is the triggering application as seen by the caller.
type ApplicationSnapshot struct {
	ID      string   `json:"id"`
	Status  string   `json:"status,omitempty"`
	Stage   string   `json:"stage,omitempty"`
	AIScore *float64 `json:"ai_score,omitempty"`
}

// CandidateSnapshot is the candidate attached to the triggering event.
type CandidateSnapshot struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

// FullName joins first and last name, skipping empty parts.
func (c CandidateSnapshot) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// JobSnapshot is the job attached to the triggering event.
type JobSnapshot struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// WorkflowContext is the per-event snapshot built by the caller and passed by
// value through the engine, the trigger checks and every action.
type WorkflowContext struct {
	OrganizationID string               `json:"organization_id"`
	Application    *ApplicationSnapshot `json:"application,omitempty"`
	Candidate      *CandidateSnapshot   `json:"candidate,omitempty"`
	Job            *JobSnapshot         `json:"job,omitempty"`
	PreviousStatus string               `json:"previous_status,omitempty"`
	NewStatus      string               `json:"new_status,omitempty"`
	TriggeredBy    string               `json:"triggered_by,omitempty"`
}

// ApplicationID returns the triggering application id, or "" when absent.
func (c WorkflowContext) ApplicationID() string {
	if c.Application == nil {
		return ""
	}

	return c.Application.ID
}

// AIScore returns the application AI score when one is present.
func (c WorkflowContext) AIScore() (float64, bool) {
	if c.Application == nil || c.Application.AIScore == nil {
		return 0, false
	}

	return *c.Application.AIScore, true
}

// JobTitle returns the job title or "".
func (c WorkflowContext) JobTitle() string {
	if c.Job == nil {
		return ""
	}

	return c.Job.Title
}

// CandidateName returns the candidate full name or "".
func (c WorkflowContext) CandidateName() string {
	if c.Candidate == nil {
		return ""
	}

	return c.Candidate.FullName()
}

// CurrentStatus prefers the new status of a status change over the application snapshot.
func (c WorkflowContext) CurrentStatus() string {
	if c.NewStatus != "" {
		return c.NewStatus
	}

	if c.Application != nil {
		return c.Application.Status
	}

	return ""
}
