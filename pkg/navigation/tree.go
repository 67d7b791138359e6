package navigation

import "github.com/hirelane/hirelane/pkg/models"

var (
	dashboard = Item{
		ID:    "dashboard",
		Title: LocalizedText{EN: "Dashboard", AR: "لوحة التحكم"},
		Href:  "/dashboard",
		Icon:  "layout-dashboard",
	}
	jobs = Item{
		ID:          "jobs",
		Title:       LocalizedText{EN: "Jobs", AR: "الوظائف"},
		Href:        "/jobs",
		Icon:        "briefcase",
		Permissions: []models.Permission{models.PermJobsRead},
	}
	candidates = Item{
		ID:          "candidates",
		Title:       LocalizedText{EN: "Candidates", AR: "المرشحون"},
		Href:        "/candidates",
		Icon:        "users",
		Permissions: []models.Permission{models.PermCandidatesRead},
	}
	applications = Item{
		ID:          "applications",
		Title:       LocalizedText{EN: "Applications", AR: "الطلبات"},
		Href:        "/applications",
		Icon:        "file-text",
		Permissions: []models.Permission{models.PermApplicationsRead},
	}
	pipeline = Item{
		ID:          "pipeline",
		Title:       LocalizedText{EN: "Pipeline", AR: "مسار التوظيف"},
		Href:        "/pipeline",
		Icon:        "kanban",
		Permissions: []models.Permission{models.PermApplicationsWrite},
	}
	interviews = Item{
		ID:          "interviews",
		Title:       LocalizedText{EN: "Interviews", AR: "المقابلات"},
		Href:        "/interviews",
		Icon:        "calendar",
		Permissions: []models.Permission{models.PermInterviewsRead},
	}
	reports = Item{
		ID:          "reports",
		Title:       LocalizedText{EN: "Reports", AR: "التقارير"},
		Href:        "/reports",
		Icon:        "bar-chart",
		Permissions: []models.Permission{models.PermReportsRead},
	}
	team = Item{
		ID:          "team",
		Title:       LocalizedText{EN: "Team", AR: "الفريق"},
		Href:        "/settings/team",
		Icon:        "user-cog",
		Permissions: []models.Permission{models.PermUsersManage},
	}
	workflows = Item{
		ID:          "workflows",
		Title:       LocalizedText{EN: "Workflows", AR: "سير العمل"},
		Href:        "/settings/workflows",
		Icon:        "workflow",
		Permissions: []models.Permission{models.PermWorkflowsManage},
	}
	emailTemplates = Item{
		ID:          "email-templates",
		Title:       LocalizedText{EN: "Email templates", AR: "قوالب البريد"},
		Href:        "/settings/email-templates",
		Icon:        "mail",
		Permissions: []models.Permission{models.PermSettingsManage},
	}
	notifications = Item{
		ID:          "notifications",
		Title:       LocalizedText{EN: "Notifications", AR: "الإشعارات"},
		Href:        "/settings/notifications",
		Icon:        "bell",
		Permissions: []models.Permission{models.PermSettingsManage},
	}
	billing = Item{
		ID:          "billing",
		Title:       LocalizedText{EN: "Billing", AR: "الفوترة"},
		Href:        "/settings/billing",
		Icon:        "credit-card",
		Permissions: []models.Permission{models.PermBillingManage},
	}

	superAdminTree = []Section{
		{
			ID:    "platform",
			Title: LocalizedText{EN: "Platform", AR: "المنصة"},
			Roles: []models.Role{models.RoleSuperAdmin},
			Items: []Item{
				{
					ID:          "organizations",
					Title:       LocalizedText{EN: "Organizations", AR: "المؤسسات"},
					Href:        "/admin/organizations",
					Icon:        "building",
					Permissions: []models.Permission{models.PermOrganizationsAdmin},
				},
				{
					ID:          "subscriptions",
					Title:       LocalizedText{EN: "Subscriptions", AR: "الاشتراكات"},
					Href:        "/admin/subscriptions",
					Icon:        "receipt",
					Permissions: []models.Permission{models.PermOrganizationsAdmin},
				},
			},
		},
		{
			ID:    "overview",
			Title: LocalizedText{EN: "Overview", AR: "نظرة عامة"},
			Items: []Item{dashboard, reports},
		},
	}

	orgAdminTree = []Section{
		{
			ID:    "overview",
			Title: LocalizedText{EN: "Overview", AR: "نظرة عامة"},
			Items: []Item{dashboard, reports},
		},
		{
			ID:    "recruitment",
			Title: LocalizedText{EN: "Recruitment", AR: "التوظيف"},
			Items: []Item{jobs, candidates, applications, pipeline, interviews},
		},
		{
			ID:    "administration",
			Title: LocalizedText{EN: "Administration", AR: "الإدارة"},
			Roles: []models.Role{models.RoleOrgAdmin, models.RoleHRManager},
			Items: []Item{team, workflows, emailTemplates, notifications, billing},
		},
	}

	recruiterTree = []Section{
		{
			ID:    "overview",
			Title: LocalizedText{EN: "Overview", AR: "نظرة عامة"},
			Items: []Item{dashboard},
		},
		{
			ID:    "recruitment",
			Title: LocalizedText{EN: "Recruitment", AR: "التوظيف"},
			Items: []Item{jobs, candidates, applications, pipeline, interviews, reports},
		},
	}

	hiringManagerTree = []Section{
		{
			ID:    "overview",
			Title: LocalizedText{EN: "Overview", AR: "نظرة عامة"},
			Items: []Item{dashboard},
		},
		{
			ID:    "hiring",
			Title: LocalizedText{EN: "My hiring", AR: "توظيفي"},
			Items: []Item{jobs, applications, interviews, reports},
		},
	}

	interviewerTree = []Section{
		{
			ID:    "overview",
			Title: LocalizedText{EN: "Overview", AR: "نظرة عامة"},
			Items: []Item{dashboard},
		},
		{
			ID:    "interviewing",
			Title: LocalizedText{EN: "Interviewing", AR: "المقابلات"},
			Items: []Item{interviews, candidates},
		},
	}

	// hr_manager shares the org_admin tree; permission filtering tells them apart.
	byRole = map[models.Role][]Section{
		models.RoleSuperAdmin:    superAdminTree,
		models.RoleOrgAdmin:      orgAdminTree,
		models.RoleHRManager:     orgAdminTree,
		models.RoleRecruiter:     recruiterTree,
		models.RoleHiringManager: hiringManagerTree,
		models.RoleInterviewer:   interviewerTree,
	}
)
