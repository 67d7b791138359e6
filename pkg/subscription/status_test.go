package subscription_test

import (
	"testing"
	"time"

	"github.com/hirelane/hirelane/pkg/models"
	"github.com/hirelane/hirelane/pkg/subscription"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return now.Add(-time.Duration(n) * 24 * time.Hour)
}

func TestResolve_Trial(t *testing.T) {
	t.Parallel()

	for _, status := range []models.SubscriptionStatus{models.SubscriptionStatusNone, models.SubscriptionStatusTrial} {
		org := models.Organization{ID: "org-1", SubscriptionStatus: status, CreatedAt: daysAgo(13)}

		got := subscription.Resolve(org, now)

		assert.True(t, got.IsActive, "status %q", status)
		assert.Equal(t, subscription.StateTrial, got.State)
		assert.Equal(t, 1, got.TrialDaysRemaining)
		assert.False(t, got.TrialExpired)
		assert.Equal(t, daysAgo(13).Add(subscription.TrialPeriod), got.TrialEndDate)
	}
}

func TestResolve_TrialRoundsPartialDaysUp(t *testing.T) {
	t.Parallel()

	org := models.Organization{CreatedAt: daysAgo(13).Add(-23 * time.Hour)}

	got := subscription.Resolve(org, now)

	assert.True(t, got.IsActive)
	assert.Equal(t, 1, got.TrialDaysRemaining)
}

func TestResolve_TrialExpired(t *testing.T) {
	t.Parallel()

	org := models.Organization{SubscriptionStatus: models.SubscriptionStatusTrial, CreatedAt: daysAgo(15)}

	got := subscription.Resolve(org, now)

	assert.False(t, got.IsActive)
	assert.Equal(t, subscription.StateExpired, got.State)
	assert.Equal(t, 0, got.TrialDaysRemaining)
	assert.True(t, got.TrialExpired)
}

func TestResolve_TrialEndsExactlyNow(t *testing.T) {
	t.Parallel()

	org := models.Organization{CreatedAt: daysAgo(14)}

	got := subscription.Resolve(org, now)

	assert.False(t, got.IsActive)
	assert.Equal(t, subscription.StateExpired, got.State)
}

func TestResolve_Active(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		endDate   *time.Time
		wantState subscription.State
		active    bool
	}{
		{name: "no end date", endDate: nil, wantState: subscription.StateActive, active: true},
		{name: "ends tomorrow", endDate: ptr(now.Add(24 * time.Hour)), wantState: subscription.StateActive, active: true},
		{name: "ended yesterday", endDate: ptr(now.Add(-24 * time.Hour)), wantState: subscription.StateExpired, active: false},
		{name: "ends now", endDate: ptr(now), wantState: subscription.StateExpired, active: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			org := models.Organization{
				SubscriptionStatus:  models.SubscriptionStatusActive,
				SubscriptionEndDate: tt.endDate,
				CreatedAt:           daysAgo(400),
			}

			got := subscription.Resolve(org, now)

			assert.Equal(t, tt.active, got.IsActive)
			assert.Equal(t, tt.wantState, got.State)

			if !tt.active {
				assert.Equal(t, 0, got.TrialDaysRemaining)
				assert.True(t, got.TrialExpired)
			}
		})
	}
}

func TestResolve_ActiveCarriesTrialFields(t *testing.T) {
	t.Parallel()

	org := models.Organization{SubscriptionStatus: models.SubscriptionStatusActive, CreatedAt: daysAgo(4)}

	got := subscription.Resolve(org, now)

	assert.True(t, got.IsActive)
	assert.Equal(t, 10, got.TrialDaysRemaining)
	assert.False(t, got.TrialExpired)
}

func TestResolve_CancelledIgnoresDates(t *testing.T) {
	t.Parallel()

	for _, created := range []time.Time{daysAgo(1), daysAgo(100)} {
		org := models.Organization{
			SubscriptionStatus:  models.SubscriptionStatusCancelled,
			SubscriptionEndDate: ptr(now.Add(30 * 24 * time.Hour)),
			CreatedAt:           created,
		}

		got := subscription.Resolve(org, now)

		assert.False(t, got.IsActive)
		assert.Equal(t, subscription.StateCancelled, got.State)
		assert.Equal(t, 0, got.TrialDaysRemaining)
		assert.True(t, got.TrialExpired)
	}
}

func ptr[T any](v T) *T {
	return &v
}
