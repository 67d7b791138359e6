package models

// Role is one of the fixed set of roles a user can hold inside an organization.
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleOrgAdmin      Role = "org_admin"
	RoleHRManager     Role = "hr_manager"
	RoleRecruiter     Role = "recruiter"
	RoleHiringManager Role = "hiring_manager"
	RoleInterviewer   Role = "interviewer"
	RoleCandidate     Role = "candidate"
)

// Roles lists every known role.
var Roles = []Role{
	RoleSuperAdmin,
	RoleOrgAdmin,
	RoleHRManager,
	RoleRecruiter,
	RoleHiringManager,
	RoleInterviewer,
	RoleCandidate,
}

// Valid reports whether r is part of the closed role set.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}

	return false
}

// BypassesSubscription reports whether the role is exempt from subscription gating.
func (r Role) BypassesSubscription() bool {
	return r == RoleSuperAdmin || r == RoleOrgAdmin
}

// Permission is a capability string such as "jobs.read".
type Permission string

const (
	PermJobsRead           Permission = "jobs.read"
	PermJobsWrite          Permission = "jobs.write"
	PermCandidatesRead     Permission = "candidates.read"
	PermCandidatesWrite    Permission = "candidates.write"
	PermApplicationsRead   Permission = "applications.read"
	PermApplicationsWrite  Permission = "applications.write"
	PermInterviewsRead     Permission = "interviews.read"
	PermInterviewsWrite    Permission = "interviews.write"
	PermReportsRead        Permission = "reports.read"
	PermUsersManage        Permission = "users.manage"
	PermSettingsManage     Permission = "settings.manage"
	PermWorkflowsManage    Permission = "workflows.manage"
	PermBillingManage      Permission = "billing.manage"
	PermOrganizationsAdmin Permission = "organizations.admin"
)

// Membership is the single user_roles row binding a user to an organization.
type Membership struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	Role           Role   `json:"role"`
	Email          string `json:"email,omitempty"`
	FullName       string `json:"full_name,omitempty"`
}
