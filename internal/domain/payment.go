package domain

import "context"

// IntentStatus is the provider-side state of a payment intent, reduced to
// what reconciliation cares about.
type IntentStatus string

const (
	IntentSucceeded  IntentStatus = "succeeded"
	IntentFailed     IntentStatus = "failed"
	IntentProcessing IntentStatus = "processing"
)

// PaymentIntent is a charge attempt at the payment provider.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       IntentStatus
	AmountCents  int64
}

// PaymentEventType classifies a verified webhook event.
type PaymentEventType string

const (
	PaymentEventSucceeded PaymentEventType = "payment_intent.succeeded"
	PaymentEventFailed    PaymentEventType = "payment_intent.payment_failed"
	PaymentEventIgnored   PaymentEventType = "ignored"
)

// PaymentEvent is a webhook event whose signature has been verified.
type PaymentEvent struct {
	ID              string
	Type            PaymentEventType
	PaymentIntentID string
}

// CreateIntentParams describes the charge for one package checkout.
type CreateIntentParams struct {
	AmountCents int64
	Currency    string
	UserID      string
	PackageType PackageType
}

// PaymentProvider is the port to the external payment service.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, p CreateIntentParams) (*PaymentIntent, error)
	GetIntent(ctx context.Context, id string) (*PaymentIntent, error)
	// ParseWebhook verifies the signature and decodes the event.
	// ErrInvalidSignature when verification fails.
	ParseWebhook(payload []byte, signature string) (*PaymentEvent, error)
}
