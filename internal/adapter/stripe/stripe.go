// Package stripe implements domain.PaymentProvider on top of Stripe
// PaymentIntents and signed webhooks.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"classbook/internal/domain"

	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Config holds the Stripe credentials.
type Config struct {
	SecretKey     string
	WebhookSecret string
	// APIURL overrides the Stripe API base URL. Empty means production.
	APIURL string
	// Tolerance is the accepted age of a webhook signature.
	Tolerance time.Duration
}

// Client is a domain.PaymentProvider backed by Stripe.
type Client struct {
	api           *client.API
	webhookSecret string
	tolerance     time.Duration
}

// New creates a Stripe client.
func New(cfg Config) *Client {
	var backends *stripeapi.Backends
	if cfg.APIURL != "" {
		backend := stripeapi.GetBackendWithConfig(stripeapi.APIBackend, &stripeapi.BackendConfig{
			URL:               stripeapi.String(cfg.APIURL),
			MaxNetworkRetries: stripeapi.Int64(0),
		})
		backends = &stripeapi.Backends{API: backend, Connect: backend, Uploads: backend}
	}
	tolerance := cfg.Tolerance
	if tolerance == 0 {
		tolerance = webhook.DefaultTolerance
	}
	return &Client{
		api:           client.New(cfg.SecretKey, backends),
		webhookSecret: cfg.WebhookSecret,
		tolerance:     tolerance,
	}
}

// CreateIntent opens a PaymentIntent for the package price. The user and
// package type travel as metadata so the dashboard can trace a charge back.
func (c *Client) CreateIntent(ctx context.Context, p domain.CreateIntentParams) (*domain.PaymentIntent, error) {
	params := &stripeapi.PaymentIntentParams{
		Amount:   stripeapi.Int64(p.AmountCents),
		Currency: stripeapi.String(strings.ToLower(p.Currency)),
		AutomaticPaymentMethods: &stripeapi.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripeapi.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("user_id", p.UserID)
	params.AddMetadata("package_type", string(p.PackageType))

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, domain.External(fmt.Errorf("create payment intent: %w", err))
	}
	return toIntent(pi), nil
}

// GetIntent fetches the current state of a PaymentIntent.
func (c *Client) GetIntent(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	params := &stripeapi.PaymentIntentParams{}
	params.Context = ctx
	pi, err := c.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, domain.External(fmt.Errorf("get payment intent %s: %w", id, err))
	}
	return toIntent(pi), nil
}

// ParseWebhook verifies the Stripe-Signature header and extracts the
// payment intent from payment_intent events. Other event types come back
// as PaymentEventIgnored.
func (c *Client) ParseWebhook(payload []byte, signature string) (*domain.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                c.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	out := &domain.PaymentEvent{ID: event.ID, Type: domain.PaymentEventIgnored}
	switch t := domain.PaymentEventType(event.Type); t {
	case domain.PaymentEventSucceeded, domain.PaymentEventFailed:
		out.Type = t
	default:
		return out, nil
	}

	if event.Data == nil {
		return nil, fmt.Errorf("%w: event %s has no data", domain.ErrMalformedEvent, event.ID)
	}
	var pi stripeapi.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("%w: decode payment intent: %v", domain.ErrMalformedEvent, err)
	}
	if pi.ID == "" {
		return nil, fmt.Errorf("%w: event %s has no payment intent id", domain.ErrMalformedEvent, event.ID)
	}
	out.PaymentIntentID = pi.ID
	return out, nil
}

func toIntent(pi *stripeapi.PaymentIntent) *domain.PaymentIntent {
	return &domain.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       intentStatus(pi),
		AmountCents:  pi.Amount,
	}
}

// intentStatus reduces Stripe's lifecycle to the three outcomes settlement
// understands. A declined charge drops back to requires_payment_method with
// LastPaymentError set.
func intentStatus(pi *stripeapi.PaymentIntent) domain.IntentStatus {
	switch pi.Status {
	case stripeapi.PaymentIntentStatusSucceeded:
		return domain.IntentSucceeded
	case stripeapi.PaymentIntentStatusCanceled:
		return domain.IntentFailed
	case stripeapi.PaymentIntentStatusRequiresPaymentMethod:
		if pi.LastPaymentError != nil {
			return domain.IntentFailed
		}
	}
	return domain.IntentProcessing
}
