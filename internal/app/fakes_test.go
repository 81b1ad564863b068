package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"classbook/internal/adapter/memory"
	"classbook/internal/domain"
)

type mockProvider struct {
	createIntentFn func(ctx context.Context, p domain.CreateIntentParams) (*domain.PaymentIntent, error)
	getIntentFn    func(ctx context.Context, id string) (*domain.PaymentIntent, error)
	parseWebhookFn func(payload []byte, signature string) (*domain.PaymentEvent, error)
}

func (m *mockProvider) CreateIntent(ctx context.Context, p domain.CreateIntentParams) (*domain.PaymentIntent, error) {
	if m.createIntentFn != nil {
		return m.createIntentFn(ctx, p)
	}
	return &domain.PaymentIntent{ID: "pi_test", ClientSecret: "pi_test_secret", Status: domain.IntentProcessing, AmountCents: p.AmountCents}, nil
}

func (m *mockProvider) GetIntent(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	if m.getIntentFn != nil {
		return m.getIntentFn(ctx, id)
	}
	return &domain.PaymentIntent{ID: id, Status: domain.IntentSucceeded}, nil
}

func (m *mockProvider) ParseWebhook(payload []byte, signature string) (*domain.PaymentEvent, error) {
	if m.parseWebhookFn != nil {
		return m.parseWebhookFn(payload, signature)
	}
	return nil, domain.ErrInvalidSignature
}

type publishedEvent struct {
	key     string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{key: key, payload: payload})
	return p.err
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.key)
	}
	return out
}

func seedUser(t *testing.T, store domain.Store, id string, minutes int) {
	t.Helper()
	err := store.RunInTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		return tx.Users().Create(ctx, &domain.User{
			ID:               id,
			Email:            id + "@example.com",
			Role:             domain.RoleUser,
			RemainingMinutes: minutes,
			CreatedAt:        time.Now().UTC(),
		})
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func seedClass(t *testing.T, store domain.Store, c domain.Class) {
	t.Helper()
	if c.Attendees == nil {
		c.Attendees = []string{}
	}
	err := store.RunInTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		return tx.Classes().Create(ctx, &c)
	})
	if err != nil {
		t.Fatalf("seed class: %v", err)
	}
}

func balanceOf(t *testing.T, store domain.Store, id string) int {
	t.Helper()
	u, err := NewAccountService(store).Profile(context.Background(), id)
	if err != nil {
		t.Fatalf("profile %s: %v", id, err)
	}
	return u.RemainingMinutes
}

func newStore() *memory.DB {
	return memory.New()
}
