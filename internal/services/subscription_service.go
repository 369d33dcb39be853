package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/models"
	"github.com/clemarais/moodjournal/internal/repository"
)

// ErrInvalidLicense is returned when a license token fails verification.
var ErrInvalidLicense = errors.New("invalid license token")

// licenseClaims are embedded in the signed premium license.
type licenseClaims struct {
	Plan string `json:"plan"`
	jwt.RegisteredClaims
}

// SubscriptionService manages the free trial and the simulated premium
// checkout. Licenses are signed JWTs so a restored backup cannot forge
// premium state.
type SubscriptionService struct {
	repo   *repository.SubscriptionRepository
	secret []byte
	clock  clock.Clock
}

func NewSubscriptionService(repo *repository.SubscriptionRepository, secret string, clk clock.Clock) *SubscriptionService {
	return &SubscriptionService{repo: repo, secret: []byte(secret), clock: clk}
}

// StartTrial begins the free trial if one has not started yet. Calling it
// again is a no-op so reinstalls cannot restart the clock.
func (s *SubscriptionService) StartTrial(ctx context.Context) (models.Subscription, error) {
	sub, err := s.repo.Get(ctx)
	if err != nil {
		return models.Subscription{}, err
	}
	if sub.TrialStarted != nil {
		return sub, nil
	}

	now := s.clock.Now()
	end := now.Add(models.TrialDuration)
	sub.TrialStarted = &now
	sub.TrialEnd = &end
	if err := s.repo.Save(ctx, sub); err != nil {
		return models.Subscription{}, err
	}
	logrus.WithField("trialEnd", end).Info("Trial started")
	return sub, nil
}

// Purchase simulates a successful checkout for the given plan and stores
// the signed license.
func (s *SubscriptionService) Purchase(ctx context.Context, plan string) (models.Subscription, error) {
	if plan != models.PlanMonthly && plan != models.PlanAnnual {
		return models.Subscription{}, &models.ValidationError{Field: "plan", Reason: "unknown plan"}
	}

	sub, err := s.repo.Get(ctx)
	if err != nil {
		return models.Subscription{}, err
	}

	period := 30 * 24 * time.Hour
	if plan == models.PlanAnnual {
		period = 365 * 24 * time.Hour
	}
	now := s.clock.Now()
	claims := licenseClaims{
		Plan: plan,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(period)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("failed to sign license: %w", err)
	}

	sub.Plan = plan
	sub.License = token
	if err := s.repo.Save(ctx, sub); err != nil {
		return models.Subscription{}, err
	}
	logrus.WithField("plan", plan).Info("Premium activated")
	return sub, nil
}

// Status reports the current premium/trial state.
func (s *SubscriptionService) Status(ctx context.Context) (models.SubscriptionStatus, error) {
	sub, err := s.repo.Get(ctx)
	if err != nil {
		return models.SubscriptionStatus{}, err
	}

	now := s.clock.Now()
	status := models.SubscriptionStatus{}

	if sub.License != "" {
		plan, err := s.verifyLicense(sub.License, now)
		if err == nil {
			status.Premium = true
			status.Plan = plan
		} else {
			logrus.WithError(err).Warn("Stored license rejected")
		}
	}

	if sub.TrialEnd != nil && now.Before(*sub.TrialEnd) {
		status.TrialActive = true
		status.TrialDaysLeft = int(math.Ceil(sub.TrialEnd.Sub(now).Hours() / 24))
		if !status.Premium {
			status.Premium = true
		}
	}
	return status, nil
}

// IsPremium is the gate used by premium-only endpoints.
func (s *SubscriptionService) IsPremium(ctx context.Context) (bool, error) {
	status, err := s.Status(ctx)
	if err != nil {
		return false, err
	}
	return status.Premium, nil
}

func (s *SubscriptionService) verifyLicense(token string, now time.Time) (string, error) {
	claims := &licenseClaims{}
	// Claims validation is done by hand against the injected clock so tests
	// can advance time past the license expiry.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLicense, err)
	}
	if !parsed.Valid {
		return "", ErrInvalidLicense
	}
	if !claims.VerifyExpiresAt(now, true) {
		return "", fmt.Errorf("%w: license expired", ErrInvalidLicense)
	}
	return claims.Plan, nil
}
