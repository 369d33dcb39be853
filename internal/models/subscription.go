package models

import "time"

// TrialDuration is how long the free premium trial lasts.
const TrialDuration = 14 * 24 * time.Hour

// Plan identifiers for the simulated checkout.
const (
	PlanMonthly = "premium_monthly"
	PlanAnnual  = "premium_annual"
)

// Subscription is the persisted premium/trial state. License carries the
// signed token issued by the simulated checkout.
type Subscription struct {
	TrialStarted *time.Time `json:"trialStarted,omitempty"`
	TrialEnd     *time.Time `json:"trialEnd,omitempty"`
	Plan         string     `json:"plan,omitempty"`
	License      string     `json:"license,omitempty"`
}

// SubscriptionStatus is the view returned to callers.
type SubscriptionStatus struct {
	Premium       bool   `json:"premium"`
	Plan          string `json:"plan,omitempty"`
	TrialActive   bool   `json:"trialActive"`
	TrialDaysLeft int    `json:"trialDaysLeft"`
}
