package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/clemarais/moodjournal/internal/services"
)

// RequirePremium gates an endpoint behind an active trial or a valid
// premium license.
func RequirePremium(subscriptionService *services.SubscriptionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			premium, err := subscriptionService.IsPremium(r.Context())
			if err != nil {
				logrus.WithError(err).Error("Failed to check premium state")
				http.Error(w, "Failed to check subscription", http.StatusInternalServerError)
				return
			}
			if !premium {
				logrus.WithField("path", r.URL.Path).Info("Premium feature blocked")
				http.Error(w, "Premium feature: start a trial or purchase a plan", http.StatusPaymentRequired)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
