// Package subscription derives an organization's effective subscription state.
package subscription

import (
	"math"
	"time"

	"github.com/hirelane/hirelane/pkg/models"
)

// TrialPeriod is the trial window measured from organization creation.
const TrialPeriod = 14 * 24 * time.Hour

const day = 24 * time.Hour

// State is the derived subscription state. Exactly one holds at any instant.
type State string

const (
	StateActive    State = "active"
	StateTrial     State = "trial"
	StateExpired   State = "expired"
	StateCancelled State = "cancelled"
)

// Status is recomputed on every access check and never persisted.
type Status struct {
	IsActive           bool      `json:"is_active"`
	State              State     `json:"state"`
	TrialDaysRemaining int       `json:"trial_days_remaining"`
	TrialExpired       bool      `json:"trial_expired"`
	TrialEndDate       time.Time `json:"trial_end_date"`
}

// Resolve computes the subscription status of org at instant now.
func Resolve(org models.Organization, now time.Time) Status {
	trialEnd := org.CreatedAt.Add(TrialPeriod)

	daysRemaining := int(math.Ceil(float64(trialEnd.Sub(now)) / float64(day)))
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	trial := Status{
		TrialDaysRemaining: daysRemaining,
		TrialExpired:       daysRemaining == 0,
		TrialEndDate:       trialEnd,
	}

	switch org.SubscriptionStatus {
	case models.SubscriptionStatusActive:
		if org.SubscriptionEndDate != nil && !org.SubscriptionEndDate.After(now) {
			return Status{
				IsActive:           false,
				State:              StateExpired,
				TrialDaysRemaining: 0,
				TrialExpired:       true,
				TrialEndDate:       trialEnd,
			}
		}

		trial.IsActive = true
		trial.State = StateActive

		return trial
	case models.SubscriptionStatusCancelled:
		return Status{
			IsActive:           false,
			State:              StateCancelled,
			TrialDaysRemaining: 0,
			TrialExpired:       true,
			TrialEndDate:       trialEnd,
		}
	default:
		if !trial.TrialExpired {
			trial.IsActive = true
			trial.State = StateTrial

			return trial
		}

		trial.State = StateExpired

		return trial
	}
}
