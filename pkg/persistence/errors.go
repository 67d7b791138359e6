package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrWorkflowNotFound indicates a workflow was not found by the given identifier.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrExecutionNotFound indicates a workflow execution was not found.
	ErrExecutionNotFound = errors.New("workflow execution not found")

	// ErrOrganizationNotFound indicates an organization was not found.
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrMembershipNotFound indicates the user holds no role in the organization.
	ErrMembershipNotFound = errors.New("membership not found")

	// ErrEmailTemplateNotFound indicates no email template exists for the slug.
	ErrEmailTemplateNotFound = errors.New("email template not found")

	// ErrNotificationSettingNotFound indicates the organization has no setting row for the event code.
	ErrNotificationSettingNotFound = errors.New("notification setting not found")

	// ErrEmailProviderNotFound indicates the organization has no email provider configured.
	ErrEmailProviderNotFound = errors.New("email provider not found")
)

// WorkflowError wraps workflow-related errors with additional context.
type WorkflowError struct {
	Op             string // Operation being performed (e.g., "GetByID", "Save")
	WorkflowID     string
	OrganizationID string
	Err            error
}

func (e *WorkflowError) Error() string {
	if e.OrganizationID != "" {
		return fmt.Sprintf("%s operation failed for workflow %s in organization %s: %v", e.Op, e.WorkflowID, e.OrganizationID, e.Err)
	}

	return fmt.Sprintf("%s operation failed for workflow %s: %v", e.Op, e.WorkflowID, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for workflow errors.
func (e *WorkflowError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewWorkflowError creates a new workflow error with context.
func NewWorkflowError(op, organizationID, workflowID string, err error) *WorkflowError {
	return &WorkflowError{
		Op:             op,
		WorkflowID:     workflowID,
		OrganizationID: organizationID,
		Err:            err,
	}
}

// IsWorkflowNotFound checks if an error indicates a workflow was not found.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsOrganizationNotFound checks if an error indicates an organization was not found.
func IsOrganizationNotFound(err error) bool {
	return errors.Is(err, ErrOrganizationNotFound)
}

// IsMembershipNotFound checks if an error indicates a missing membership.
func IsMembershipNotFound(err error) bool {
	return errors.Is(err, ErrMembershipNotFound)
}

// IsNotFound reports whether err is any of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound) ||
		errors.Is(err, ErrExecutionNotFound) ||
		errors.Is(err, ErrOrganizationNotFound) ||
		errors.Is(err, ErrMembershipNotFound) ||
		errors.Is(err, ErrEmailTemplateNotFound) ||
		errors.Is(err, ErrNotificationSettingNotFound) ||
		errors.Is(err, ErrEmailProviderNotFound)
}
