package adapthttp_test

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	adapthttp "classbook/internal/adapter/http"
	"classbook/internal/adapter/memory"
	"classbook/internal/adapter/stripe"
	"classbook/internal/app"
	"classbook/internal/domain"

	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// Mock payment provider (function-fields pattern)
// ---------------------------------------------------------------------------

type mockProvider struct {
	createIntentFn func(ctx context.Context, p domain.CreateIntentParams) (*domain.PaymentIntent, error)
	getIntentFn    func(ctx context.Context, id string) (*domain.PaymentIntent, error)
	parseWebhookFn func(payload []byte, signature string) (*domain.PaymentEvent, error)
}

func (m *mockProvider) CreateIntent(ctx context.Context, p domain.CreateIntentParams) (*domain.PaymentIntent, error) {
	if m.createIntentFn != nil {
		return m.createIntentFn(ctx, p)
	}
	return &domain.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret", Status: domain.IntentProcessing}, nil
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
	if signature != "good" {
		return nil, domain.ErrInvalidSignature
	}
	return &domain.PaymentEvent{ID: "evt_1", Type: domain.PaymentEventSucceeded, PaymentIntentID: "pi_1"}, nil
}

// ---------------------------------------------------------------------------
// Test-server helper
// ---------------------------------------------------------------------------

type testEnv struct {
	ts    *httptest.Server
	store *memory.DB
	auth  *app.AuthService
}

func newTestServer(t *testing.T, provider domain.PaymentProvider) *testEnv {
	t.Helper()
	log := zap.NewNop()
	store := memory.New()
	ledger := app.NewLedger(log)
	authSvc := app.NewAuthService(store, "handler-test-secret", time.Hour)

	svc := adapthttp.Services{
		Auth:     authSvc,
		Accounts: app.NewAccountService(store),
		Bookings: app.NewBookingService(store, ledger, nil, log),
		Classes:  app.NewClassService(store, log),
	}
	if provider != nil {
		svc.Payments = app.NewPaymentService(store, provider, ledger, nil, log, "usd")
	}
	ts := httptest.NewServer(adapthttp.New(svc, log, adapthttp.Options{}).Handler())
	t.Cleanup(ts.Close)
	return &testEnv{ts: ts, store: store, auth: authSvc}
}

// user creates an account with the given role and balance and returns its
// id and access token.
func (e *testEnv) user(t *testing.T, email string, role domain.Role, minutes int) (string, string) {
	t.Helper()
	u := &domain.User{ID: email, Email: email, Role: role, RemainingMinutes: minutes, CreatedAt: time.Now().UTC()}
	err := e.store.RunInTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		return tx.Users().Create(ctx, u)
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := e.auth.IssueToken(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return u.ID, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return m
}

func createClass(t *testing.T, e *testEnv, token string, capacity int) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/classes", token, map[string]any{
		"title": "Spin", "date": "2024-01-01", "startTime": "10:00", "endTime": "11:00", "maxCapacity": capacity,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create class: expected 201, got %d", resp.StatusCode)
	}
	return decodeBody(t, resp)["id"].(string)
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t, nil)

	resp := e.do(t, http.MethodGet, "/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("expected no-store, got %q", cc)
	}
}

func TestHealthEndpoint_NotReady(t *testing.T) {
	log := zap.NewNop()
	store := memory.New()
	srv := adapthttp.New(adapthttp.Services{Auth: app.NewAuthService(store, "secret", time.Hour)}, log, adapthttp.Options{
		Ready: func(ctx context.Context) error { return errors.New("db down") },
	})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestServer(t, nil)
	resp := e.do(t, http.MethodGet, "/metrics", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	e := newTestServer(t, &mockProvider{})

	tests := []struct {
		name  string
		path  string
		token string
	}{
		{name: "no token", path: "/api/me"},
		{name: "garbage token", path: "/api/me", token: "nope"},
		{name: "bookings", path: "/api/bookings"},
		{name: "packages", path: "/api/packages"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := e.do(t, http.MethodGet, tt.path, tt.token, nil)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", resp.StatusCode)
			}
		})
	}
}

func TestRegisterLoginAndMe(t *testing.T) {
	e := newTestServer(t, nil)

	resp := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "ana@example.com", "password": "password123", "name": "Ana",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "ana@example.com", "password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "ana@example.com", "password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	token, _ := decodeBody(t, resp)["token"].(string)
	if token == "" {
		t.Fatal("expected a token")
	}

	resp = e.do(t, http.MethodGet, "/api/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["email"] != "ana@example.com" || body["remainingMinutes"] != float64(0) {
		t.Errorf("unexpected profile: %v", body)
	}
	if _, ok := body["passwordHash"]; ok {
		t.Error("password hash must not be serialised")
	}
}

func TestRegisterValidation(t *testing.T) {
	e := newTestServer(t, nil)

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{name: "bad email", payload: map[string]any{"email": "not-an-email", "password": "password123"}},
		{name: "short password", payload: map[string]any{"email": "a@example.com", "password": "short"}},
		{name: "admin role", payload: map[string]any{"email": "a@example.com", "password": "password123", "role": "admin"}},
		{name: "unknown field", payload: map[string]any{"email": "a@example.com", "password": "password123", "plan": "gold"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := e.do(t, http.MethodPost, "/api/auth/register", "", tt.payload)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestSetup(t *testing.T) {
	e := newTestServer(t, nil)
	payload := map[string]any{"email": "admin@example.com", "password": "password123"}

	if resp := e.do(t, http.MethodPost, "/api/auth/setup", "", payload); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first setup: expected 201, got %d", resp.StatusCode)
	}
	if resp := e.do(t, http.MethodPost, "/api/auth/setup", "", payload); resp.StatusCode != http.StatusConflict {
		t.Fatalf("second setup: expected 409, got %d", resp.StatusCode)
	}
}

func TestAuthConfig(t *testing.T) {
	e := newTestServer(t, nil)
	resp := e.do(t, http.MethodGet, "/api/auth/config", "", nil)
	body := decodeBody(t, resp)
	if body["sso_enabled"] != false || body["payments_enabled"] != false {
		t.Errorf("unexpected config: %v", body)
	}
	if resp := e.do(t, http.MethodGet, "/api/auth/sso/login", "", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected sso login 404 when disabled, got %d", resp.StatusCode)
	}
}

func TestClassRoutes(t *testing.T) {
	e := newTestServer(t, nil)
	_, trainer := e.user(t, "trainer@example.com", domain.RoleTrainer, 0)
	_, other := e.user(t, "other@example.com", domain.RoleTrainer, 0)
	_, member := e.user(t, "member@example.com", domain.RoleUser, 0)

	id := createClass(t, e, trainer, 10)

	resp := e.do(t, http.MethodPost, "/api/classes", member, map[string]any{
		"title": "Spin", "date": "2024-01-01", "startTime": "10:00", "endTime": "11:00", "maxCapacity": 5,
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("member create: expected 403, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPost, "/api/classes", trainer, map[string]any{
		"title": "Spin", "date": "2024-01-01", "startTime": "10:00", "endTime": "09:00", "maxCapacity": 5,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad range: expected 400, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPost, "/api/classes", trainer, map[string]any{
		"title": "Spin", "date": "2024-01-01", "startTime": "10:00", "endTime": "11:00", "maxCapacity": 5, "isRecurringClass": true,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("recurring without frequency: expected 400, got %d", resp.StatusCode)
	}

	update := map[string]any{"title": "Spin 2", "date": "2024-01-02", "startTime": "10:00", "endTime": "11:30", "maxCapacity": 8}
	if resp := e.do(t, http.MethodPut, "/api/classes/"+id, other, update); resp.StatusCode != http.StatusForbidden {
		t.Errorf("other trainer update: expected 403, got %d", resp.StatusCode)
	}
	resp = e.do(t, http.MethodPut, "/api/classes/"+id, trainer, update)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["title"] != "Spin 2" {
		t.Errorf("unexpected update body: %v", body)
	}

	if resp := e.do(t, http.MethodGet, "/api/classes/"+id, member, nil); resp.StatusCode != http.StatusOK {
		t.Errorf("get: expected 200, got %d", resp.StatusCode)
	}
	if resp := e.do(t, http.MethodGet, "/api/classes/missing", member, nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("get missing: expected 404, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodGet, "/api/classes", member, nil)
	items, _ := decodeBody(t, resp)["items"].([]any)
	if len(items) != 1 {
		t.Errorf("expected 1 class, got %d", len(items))
	}
}

func TestCreateBooking(t *testing.T) {
	e := newTestServer(t, nil)
	_, trainer := e.user(t, "trainer@example.com", domain.RoleTrainer, 0)
	_, rich := e.user(t, "rich@example.com", domain.RoleUser, 600)
	_, poor := e.user(t, "poor@example.com", domain.RoleUser, 30)
	_, late := e.user(t, "late@example.com", domain.RoleUser, 600)

	classID := createClass(t, e, trainer, 1)

	tests := []struct {
		name       string
		token      string
		payload    map[string]any
		wantStatus int
	}{
		{name: "missing class id", token: rich, payload: map[string]any{}, wantStatus: http.StatusBadRequest},
		{name: "unknown class", token: rich, payload: map[string]any{"classId": "missing"}, wantStatus: http.StatusNotFound},
		{name: "insufficient minutes", token: poor, payload: map[string]any{"classId": classID}, wantStatus: http.StatusBadRequest},
		{name: "booked", token: rich, payload: map[string]any{"classId": classID}, wantStatus: http.StatusCreated},
		{name: "already booked", token: rich, payload: map[string]any{"classId": classID}, wantStatus: http.StatusBadRequest},
		{name: "class full", token: late, payload: map[string]any{"classId": classID}, wantStatus: http.StatusBadRequest},
	}
	// order matters: each case builds on the previous state
	for _, tt := range tests {
		resp := e.do(t, http.MethodPost, "/api/bookings", tt.token, tt.payload)
		if resp.StatusCode != tt.wantStatus {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.wantStatus, resp.StatusCode)
		}
	}

	resp := e.do(t, http.MethodGet, "/api/me", rich, nil)
	if body := decodeBody(t, resp); body["remainingMinutes"] != float64(540) {
		t.Errorf("expected 540 minutes left, got %v", body["remainingMinutes"])
	}

	resp = e.do(t, http.MethodGet, "/api/bookings", rich, nil)
	items, _ := decodeBody(t, resp)["items"].([]any)
	if len(items) != 1 {
		t.Errorf("expected 1 booking, got %d", len(items))
	}

	resp = e.do(t, http.MethodGet, "/api/me/ledger", rich, nil)
	entries, _ := decodeBody(t, resp)["items"].([]any)
	if len(entries) != 1 {
		t.Errorf("expected 1 ledger entry, got %d", len(entries))
	}
}

func TestPaymentRoutesDisabledWithoutProvider(t *testing.T) {
	e := newTestServer(t, nil)
	_, token := e.user(t, "u@example.com", domain.RoleUser, 0)

	if resp := e.do(t, http.MethodPost, "/api/packages/checkout", token, map[string]any{"packageType": "standard"}); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if resp := e.do(t, http.MethodPost, "/api/payments/webhook", "", map[string]any{}); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCheckoutWebhookAndConfirm(t *testing.T) {
	e := newTestServer(t, &mockProvider{})
	_, token := e.user(t, "buyer@example.com", domain.RoleUser, 0)

	resp := e.do(t, http.MethodPost, "/api/packages/checkout", token, map[string]any{"packageType": "gold"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown package: expected 400, got %d", resp.StatusCode)
	}

	resp = e.do(t, http.MethodPost, "/api/packages/checkout", token, map[string]any{"packageType": "standard"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["clientSecret"] != "pi_1_secret" {
		t.Errorf("unexpected client secret: %v", body["clientSecret"])
	}

	// forged webhook
	req, _ := http.NewRequest(http.MethodPost, e.ts.URL+"/api/payments/webhook", bytes.NewBufferString(`{}`))
	req.Header.Set("Stripe-Signature", "forged")
	forged, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("webhook request: %v", err)
	}
	defer forged.Body.Close() //nolint:errcheck
	if forged.StatusCode != http.StatusBadRequest {
		t.Fatalf("forged webhook: expected 400, got %d", forged.StatusCode)
	}

	// genuine webhook delivered twice
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodPost, e.ts.URL+"/api/payments/webhook", bytes.NewBufferString(`{}`))
		req.Header.Set("Stripe-Signature", "good")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("webhook request: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("webhook: expected 200, got %d", resp.StatusCode)
		}
		if b := decodeBody(t, resp); b["received"] != true {
			t.Errorf("expected received=true, got %v", b)
		}
		_ = resp.Body.Close()
	}

	resp = e.do(t, http.MethodPost, "/api/payments/confirm", token, map[string]any{"payment_intent_id": "pi_1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d", resp.StatusCode)
	}
	if b := decodeBody(t, resp); b["success"] != true {
		t.Errorf("expected success=true, got %v", b)
	}

	resp = e.do(t, http.MethodGet, "/api/me", token, nil)
	if b := decodeBody(t, resp); b["remainingMinutes"] != float64(300) {
		t.Errorf("expected 300 minutes, got %v", b["remainingMinutes"])
	}

	resp = e.do(t, http.MethodGet, "/api/packages", token, nil)
	items, _ := decodeBody(t, resp)["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 package, got %d", len(items))
	}
	if pkg := items[0].(map[string]any); pkg["status"] != "paid" {
		t.Errorf("expected paid package, got %v", pkg["status"])
	}
}

func TestConfirmPayment_NotSucceeded(t *testing.T) {
	provider := &mockProvider{
		getIntentFn: func(ctx context.Context, id string) (*domain.PaymentIntent, error) {
			return &domain.PaymentIntent{ID: id, Status: domain.IntentProcessing}, nil
		},
	}
	e := newTestServer(t, provider)
	_, token := e.user(t, "buyer@example.com", domain.RoleUser, 0)

	if resp := e.do(t, http.MethodPost, "/api/packages/checkout", token, map[string]any{"packageType": "premium"}); resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: expected 201, got %d", resp.StatusCode)
	}
	if resp := e.do(t, http.MethodPost, "/api/payments/confirm", token, map[string]any{"payment_intent_id": "pi_1"}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if resp := e.do(t, http.MethodPost, "/api/payments/confirm", token, map[string]any{}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing intent id: expected 400, got %d", resp.StatusCode)
	}
}

func TestCheckout_ProviderFailureIsServerError(t *testing.T) {
	provider := &mockProvider{
		createIntentFn: func(ctx context.Context, p domain.CreateIntentParams) (*domain.PaymentIntent, error) {
			return nil, domain.External(errors.New("stripe unavailable"))
		},
	}
	e := newTestServer(t, provider)
	_, token := e.user(t, "buyer@example.com", domain.RoleUser, 0)

	resp := e.do(t, http.MethodPost, "/api/packages/checkout", token, map[string]any{"packageType": "standard"})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["error"] != "Internal Server Error" {
		t.Errorf("expected generic error message, got %v", body["error"])
	}
}

func TestRegisteredTrainerManagesClasses(t *testing.T) {
	e := newTestServer(t, nil)

	register := func(email, role string) string {
		t.Helper()
		payload := map[string]any{"email": email, "password": "password123"}
		if role != "" {
			payload["role"] = role
		}
		resp := e.do(t, http.MethodPost, "/api/auth/register", "", payload)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("register %s: expected 201, got %d", email, resp.StatusCode)
		}
		token, _ := decodeBody(t, resp)["token"].(string)
		return token
	}
	trainer := register("coach@example.com", "trainer")
	member := register("member@example.com", "")

	createClass(t, e, trainer, 12)

	resp := e.do(t, http.MethodPost, "/api/classes", member, map[string]any{
		"title": "Yoga", "date": "2024-01-01", "startTime": "10:00", "endTime": "11:00", "maxCapacity": 5,
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("member create: expected 403, got %d", resp.StatusCode)
	}
}

func TestStripeWebhook_SignedEventWithoutIntentIsAcknowledged(t *testing.T) {
	const secret = "whsec_handler_test"
	e := newTestServer(t, stripe.New(stripe.Config{SecretKey: "sk_test", WebhookSecret: secret}))

	payload := []byte(`{"id":"evt_1","object":"event","type":"payment_intent.succeeded","data":{"object":{"object":"payment_intent","status":"succeeded"}}}`)
	now := time.Now()
	signature := fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(webhook.ComputeSignature(now, payload, secret)))

	tests := []struct {
		name       string
		signature  string
		wantStatus int
	}{
		{name: "valid signature", signature: signature, wantStatus: http.StatusOK},
		{name: "bad signature", signature: "t=1,v1=00", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, e.ts.URL+"/api/payments/webhook", bytes.NewReader(payload))
			req.Header.Set("Stripe-Signature", tt.signature)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("webhook request: %v", err)
			}
			defer resp.Body.Close() //nolint:errcheck
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if tt.wantStatus == http.StatusOK {
				if body := decodeBody(t, resp); body["received"] != true {
					t.Errorf("expected received=true, got %v", body)
				}
			}
		})
	}
}
