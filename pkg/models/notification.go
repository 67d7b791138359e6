package models

import "time"

// Notification is an in-app notification row.
type Notification struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	EventCode      string    `json:"event_code,omitempty"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Link           string    `json:"link,omitempty"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// NotificationSetting is an organization's channel and audience configuration for one event code.
type NotificationSetting struct {
	OrganizationID string `json:"organization_id"`
	EventCode      string `json:"event_code"`
	InAppEnabled   bool   `json:"in_app_enabled"`
	EmailEnabled   bool   `json:"email_enabled"`
	Audience       []Role `json:"audience,omitempty"`
	TitleTemplate  string `json:"title_template,omitempty"`
	BodyTemplate   string `json:"body_template,omitempty"`
}

// EmailProvider is the email sending configuration of an organization.
type EmailProvider struct {
	OrganizationID string `json:"organization_id"`
	Provider       string `json:"provider"`
	FromAddress    string `json:"from_address"`
	FromName       string `json:"from_name,omitempty"`
	Verified       bool   `json:"verified"`
}

// EmailTemplate is an organization-scoped email template addressed by slug.
type EmailTemplate struct {
	OrganizationID string `json:"organization_id"`
	Slug           string `json:"slug"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}

// DeliveryStatus is the outcome of one email send.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// EmailDeliveryLog records one email send attempt.
type EmailDeliveryLog struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organization_id"`
	EventCode      string         `json:"event_code"`
	Recipient      string         `json:"recipient"`
	Subject        string         `json:"subject"`
	Status         DeliveryStatus `json:"status"`
	Error          string         `json:"error,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Recipient is one addressee of a notification.
type Recipient struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}
