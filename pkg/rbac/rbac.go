// Package rbac holds the static role to permission grant table.
package rbac

import (
	"slices"

	"github.com/hirelane/hirelane/pkg/models"
)

var (
	recruiting = []models.Permission{
		models.PermJobsRead,
		models.PermJobsWrite,
		models.PermCandidatesRead,
		models.PermCandidatesWrite,
		models.PermApplicationsRead,
		models.PermApplicationsWrite,
		models.PermInterviewsRead,
		models.PermInterviewsWrite,
		models.PermReportsRead,
	}

	grants = map[models.Role][]models.Permission{
		models.RoleSuperAdmin: slices.Concat(recruiting, []models.Permission{
			models.PermUsersManage,
			models.PermSettingsManage,
			models.PermWorkflowsManage,
			models.PermBillingManage,
			models.PermOrganizationsAdmin,
		}),
		models.RoleOrgAdmin: slices.Concat(recruiting, []models.Permission{
			models.PermUsersManage,
			models.PermSettingsManage,
			models.PermWorkflowsManage,
			models.PermBillingManage,
		}),
		models.RoleHRManager: slices.Concat(recruiting, []models.Permission{
			models.PermUsersManage,
			models.PermWorkflowsManage,
		}),
		models.RoleRecruiter: recruiting,
		models.RoleHiringManager: {
			models.PermJobsRead,
			models.PermCandidatesRead,
			models.PermApplicationsRead,
			models.PermApplicationsWrite,
			models.PermInterviewsRead,
			models.PermInterviewsWrite,
			models.PermReportsRead,
		},
		models.RoleInterviewer: {
			models.PermCandidatesRead,
			models.PermApplicationsRead,
			models.PermInterviewsRead,
			models.PermInterviewsWrite,
		},
	}
)

// PermissionsFor returns a copy of the permissions granted to role.
// Candidates and unknown roles hold none.
func PermissionsFor(role models.Role) []models.Permission {
	return slices.Clone(grants[role])
}

// Can reports whether role is granted permission.
func Can(role models.Role, permission models.Permission) bool {
	return slices.Contains(grants[role], permission)
}
