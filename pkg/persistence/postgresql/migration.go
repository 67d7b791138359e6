package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Tenants and role assignments
			CREATE TABLE organizations (
				id TEXT PRIMARY KEY,
				name VARCHAR(255) NOT NULL DEFAULT '',
				subscription_status VARCHAR(50) CHECK (subscription_status IN ('active', 'trial', 'cancelled')),
				subscription_end_date TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE user_roles (
				user_id TEXT PRIMARY KEY,
				organization_id TEXT NOT NULL REFERENCES organizations(id),
				role VARCHAR(50) NOT NULL,
				email VARCHAR(320),
				full_name VARCHAR(255)
			);

			CREATE INDEX idx_user_roles_organization_role ON user_roles(organization_id, role);

			CREATE TABLE applications (
				id TEXT PRIMARY KEY,
				organization_id TEXT NOT NULL REFERENCES organizations(id),
				status VARCHAR(100) NOT NULL DEFAULT 'applied',
				pipeline_stage VARCHAR(100),
				assigned_to TEXT,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_applications_organization ON applications(organization_id);
		`,
		2: `
			-- Automation rules and their audit log
			CREATE TABLE workflows (
				id TEXT PRIMARY KEY,
				organization_id TEXT NOT NULL REFERENCES organizations(id),
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				trigger_type VARCHAR(50) NOT NULL,
				trigger_config JSONB NOT NULL DEFAULT '{}',
				actions JSONB NOT NULL DEFAULT '[]',
				is_active BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflows_org_trigger_active ON workflows(organization_id, trigger_type, is_active);

			CREATE TABLE workflow_executions (
				id TEXT PRIMARY KEY,
				workflow_id TEXT NOT NULL REFERENCES workflows(id),
				organization_id TEXT NOT NULL,
				trigger_type VARCHAR(50) NOT NULL,
				trigger_data JSONB NOT NULL DEFAULT '{}',
				status VARCHAR(20) NOT NULL CHECK (status IN ('pending', 'running', 'completed', 'failed')),
				result JSONB,
				error_message TEXT,
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_workflow_executions_workflow ON workflow_executions(workflow_id, started_at DESC);
			CREATE INDEX idx_workflow_executions_status ON workflow_executions(status);
		`,
		3: `
			-- Notifications, email templates and delivery
			CREATE TABLE email_templates (
				organization_id TEXT NOT NULL REFERENCES organizations(id),
				slug VARCHAR(100) NOT NULL,
				subject TEXT NOT NULL,
				body TEXT NOT NULL,
				PRIMARY KEY (organization_id, slug)
			);

			CREATE TABLE notifications (
				id TEXT PRIMARY KEY,
				organization_id TEXT NOT NULL,
				user_id TEXT NOT NULL,
				event_code VARCHAR(100),
				title TEXT NOT NULL,
				message TEXT NOT NULL,
				link TEXT,
				read BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_notifications_user ON notifications(organization_id, user_id, created_at DESC);

			CREATE TABLE notification_settings (
				organization_id TEXT NOT NULL REFERENCES organizations(id),
				event_code VARCHAR(100) NOT NULL,
				in_app_enabled BOOLEAN NOT NULL DEFAULT true,
				email_enabled BOOLEAN NOT NULL DEFAULT false,
				audience JSONB NOT NULL DEFAULT '[]',
				title_template TEXT,
				body_template TEXT,
				PRIMARY KEY (organization_id, event_code)
			);

			CREATE TABLE email_providers (
				organization_id TEXT PRIMARY KEY REFERENCES organizations(id),
				provider VARCHAR(50) NOT NULL,
				from_address VARCHAR(320) NOT NULL,
				from_name VARCHAR(255),
				verified BOOLEAN NOT NULL DEFAULT false
			);

			CREATE TABLE email_delivery_logs (
				id TEXT PRIMARY KEY,
				organization_id TEXT NOT NULL,
				event_code VARCHAR(100),
				recipient VARCHAR(320) NOT NULL,
				subject TEXT,
				status VARCHAR(20) NOT NULL CHECK (status IN ('sent', 'failed')),
				error TEXT,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
		`,
	}
}
