package adapthttp

import (
	"io"
	"net/http"

	"classbook/internal/domain"
)

const maxWebhookBytes = 64 << 10

type checkoutRequest struct {
	PackageType string `json:"packageType" validate:"required,oneof=standard premium"`
}

type confirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var req checkoutRequest
	if err := s.bind(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	pkg, secret, err := s.payments.Checkout(r.Context(), p.UserID, domain.PackageType(req.PackageType))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"package": pkg, "clientSecret": secret})
}

func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	items, err := s.payments.ListPackages(r.Context(), p.UserID, intQuery(r, "limit", 50))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handlePaymentWebhook acknowledges every correctly signed event. Failures
// after verification are logged by the service and picked up by the sweeper.
func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		s.fail(w, r, domain.ErrInvalidSignature)
		return
	}
	if err := s.payments.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"received": true})
}

func (s *Server) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	var req confirmPaymentRequest
	if err := s.bind(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	pkg, err := s.payments.ConfirmPayment(r.Context(), p.UserID, req.PaymentIntentID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "package": pkg})
}
