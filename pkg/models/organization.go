// Package models defines the core domain models for the applicant tracking core.
package models

import "time"

// SubscriptionStatus is the billing state stored on an organization row.
// The empty value represents a NULL column and is treated as a trial.
type SubscriptionStatus string

const (
	SubscriptionStatusNone      SubscriptionStatus = ""
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Organization is the tenant root.
type Organization struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	SubscriptionStatus  SubscriptionStatus `json:"subscription_status,omitempty"`
	SubscriptionEndDate *time.Time         `json:"subscription_end_date,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
}
