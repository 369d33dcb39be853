package services

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/repository"
	"github.com/clemarais/moodjournal/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subscriptionFixture(t *testing.T) (*SubscriptionService, *clock.Mock) {
	t.Helper()
	store := storage.NewMemory()
	repo := repository.NewSubscriptionRepository(store)
	mock := clock.NewMock()
	mock.Set(mustTime(t, "2025-03-10T09:00:00Z"))
	return NewSubscriptionService(repo, "test-secret", mock), mock
}

func TestStartTrialOnce(t *testing.T) {
	svc, mock := subscriptionFixture(t)
	ctx := context.Background()

	sub, err := svc.StartTrial(ctx)
	require.NoError(t, err)
	require.NotNil(t, sub.TrialStarted)
	assert.Equal(t, sub.TrialStarted.Add(models.TrialDuration), *sub.TrialEnd)

	// A second call must not move the trial window.
	mock.Add(48 * time.Hour)
	again, err := svc.StartTrial(ctx)
	require.NoError(t, err)
	assert.Equal(t, *sub.TrialStarted, *again.TrialStarted)
	assert.Equal(t, *sub.TrialEnd, *again.TrialEnd)
}

func TestTrialStatusCountsDown(t *testing.T) {
	svc, mock := subscriptionFixture(t)
	ctx := context.Background()

	_, err := svc.StartTrial(ctx)
	require.NoError(t, err)

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Premium)
	assert.True(t, status.TrialActive)
	assert.Equal(t, 14, status.TrialDaysLeft)

	mock.Add(10*24*time.Hour + time.Hour)
	status, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.TrialActive)
	assert.Equal(t, 4, status.TrialDaysLeft)

	mock.Add(5 * 24 * time.Hour)
	status, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.TrialActive)
	assert.False(t, status.Premium)
}

func TestPurchaseGrantsPremium(t *testing.T) {
	svc, _ := subscriptionFixture(t)
	ctx := context.Background()

	sub, err := svc.Purchase(ctx, models.PlanMonthly)
	require.NoError(t, err)
	assert.NotEmpty(t, sub.License)

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Premium)
	assert.Equal(t, models.PlanMonthly, status.Plan)
	assert.False(t, status.TrialActive)
}

func TestPurchaseUnknownPlan(t *testing.T) {
	svc, _ := subscriptionFixture(t)

	_, err := svc.Purchase(context.Background(), "lifetime")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "plan", verr.Field)
}

func TestLicenseExpires(t *testing.T) {
	svc, mock := subscriptionFixture(t)
	ctx := context.Background()

	_, err := svc.Purchase(ctx, models.PlanMonthly)
	require.NoError(t, err)

	// Just inside the 30-day window the license still verifies.
	mock.Add(30*24*time.Hour - time.Minute)
	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Premium)

	mock.Add(2 * time.Minute)
	status, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Premium)
}

func TestTamperedLicenseRejected(t *testing.T) {
	store := storage.NewMemory()
	repo := repository.NewSubscriptionRepository(store)
	mock := clock.NewMock()
	mock.Set(mustTime(t, "2025-03-10T09:00:00Z"))
	ctx := context.Background()

	issuer := NewSubscriptionService(repo, "issuer-secret", mock)
	_, err := issuer.Purchase(ctx, models.PlanAnnual)
	require.NoError(t, err)

	// Same store, different secret: the stored token must not verify.
	verifier := NewSubscriptionService(repo, "other-secret", mock)
	status, err := verifier.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Premium)
}
