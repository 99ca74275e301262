package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-auth-nosql/internal/config"
	"github.com/go-auth-nosql/internal/domain"
	"github.com/go-auth-nosql/internal/infrastructure/memory"
	"github.com/go-auth-nosql/internal/pkg/ticket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []domain.EmailMessage
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg domain.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type recordingDeliveries struct {
	mu    sync.Mutex
	items []domain.Delivery
}

func (d *recordingDeliveries) Put(_ context.Context, v *domain.Delivery) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, *v)
	return nil
}

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		EmailsEnable:             true,
		ServerURL:                "https://app.example.com",
		ConfirmationResetTimeout: 5 * time.Minute,
		AllowedOrigins:           []string{"*"},
		RateLimitRPS:             100,
		RateLimitBurst:           100,
	}
}

type fixture struct {
	handler    http.Handler
	accounts   *memory.AccountStore
	mailer     *recordingMailer
	deliveries *recordingDeliveries
}

func newFixture(t *testing.T, cfg *config.Config) *fixture {
	t.Helper()
	f := &fixture{
		accounts:   memory.NewAccountStore(cfg.ConfirmationResetTimeout),
		mailer:     &recordingMailer{},
		deliveries: &recordingDeliveries{},
	}
	require.NoError(t, f.accounts.Put(context.Background(), &domain.Account{
		AccountID: "1",
		Email:     "a@x.com",
		User:      domain.AccountUser{ID: "1"},
	}))
	require.NoError(t, f.accounts.Put(context.Background(), &domain.Account{
		AccountID: "2",
		Email:     "active@x.com",
		Active:    true,
		User:      domain.AccountUser{ID: "2"},
	}))
	f.handler = NewRouter(cfg, &Deps{
		AccountRepo:  f.accounts,
		DeliveryRepo: f.deliveries,
		Mailer:       f.mailer,
		Tickets:      ticket.NewGenerator(),
		Now:          func() time.Time { return now },
	})
	return f
}

func (f *fixture) resend(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/resend-confirmation", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestResendConfirmation_PendingAccount(t *testing.T) {
	f := newFixture(t, testConfig())

	rec := f.resend(`{"email":"a@x.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"jwt_token":null,"jwt_expires_in":null,"user":{"id":"1","display_name":null,"email":"a@x.com"}}`,
		rec.Body.String())

	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, "activate-account", msg.Template)
	assert.Equal(t, "a@x.com", msg.Locals["display_name"])
	assert.Equal(t, msg.Headers["x-ticket"], msg.Locals["ticket"])
	assert.Equal(t, now.Add(60*time.Minute), msg.Locals["ticket_expires_at"])

	acc, err := f.accounts.Select(context.Background(), domain.AccountLookup{AccountID: strPtr("1")})
	require.NoError(t, err)
	assert.Equal(t, now.Unix(), acc.ConfirmationResetTimeout)

	require.Len(t, f.deliveries.items, 1)
	assert.Equal(t, "1", f.deliveries.items[0].AccountID)
}

func TestResendConfirmation_ActiveAccount(t *testing.T) {
	f := newFixture(t, testConfig())

	rec := f.resend(`{"email":"active@x.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.mailer.sent)
	acc, err := f.accounts.Select(context.Background(), domain.AccountLookup{AccountID: strPtr("2")})
	require.NoError(t, err)
	assert.Zero(t, acc.ConfirmationResetTimeout)
}

func TestResendConfirmation_UnknownAccount(t *testing.T) {
	f := newFixture(t, testConfig())

	rec := f.resend(`{"email":"ghost@x.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.mailer.sent)
}

func TestResendConfirmation_EmailsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.EmailsEnable = false
	f := newFixture(t, cfg)

	rec := f.resend(`{"email":"a@x.com"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, f.mailer.sent)
	acc, err := f.accounts.Select(context.Background(), domain.AccountLookup{AccountID: strPtr("1")})
	require.NoError(t, err)
	assert.Zero(t, acc.ConfirmationResetTimeout)
}

func TestResendConfirmation_AutoActivate(t *testing.T) {
	cfg := testConfig()
	cfg.AutoActivateNewUsers = true
	f := newFixture(t, cfg)

	rec := f.resend(`{"email":"a@x.com"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, f.mailer.sent)
}

func TestResendConfirmation_DeliveryFailureKeepsWindow(t *testing.T) {
	f := newFixture(t, testConfig())
	f.mailer.err = errors.New("smtp down")

	rec := f.resend(`{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// The failed attempt must not consume the resend window.
	f.mailer.err = nil
	rec = f.resend(`{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResendConfirmation_SecondResendThrottled(t *testing.T) {
	f := newFixture(t, testConfig())

	require.Equal(t, http.StatusOK, f.resend(`{"account_id":"1"}`).Code)
	for i := 0; i < 3; i++ {
		rec := f.resend(`{"account_id":"1"}`)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, domain.ErrThrottled.Error(), body["error"])
	}

	assert.Len(t, f.mailer.sent, 1)
	assert.Len(t, f.deliveries.items, 1)
	acc, err := f.accounts.Select(context.Background(), domain.AccountLookup{AccountID: strPtr("1")})
	require.NoError(t, err)
	assert.Equal(t, now.Unix(), acc.ConfirmationResetTimeout)
}

func TestResendConfirmation_AutoActivateCheckedBeforeBody(t *testing.T) {
	cfg := testConfig()
	cfg.AutoActivateNewUsers = true
	f := newFixture(t, cfg)

	for _, body := range []string{`{not json`, `{"email":"nope"}`} {
		rec := f.resend(body)

		assert.Equal(t, http.StatusInternalServerError, rec.Code, body)
		assert.Contains(t, rec.Body.String(), "AUTO_ACTIVATE_NEW_USERS", body)
	}
	assert.Empty(t, f.mailer.sent)
}

func TestResendConfirmation_SpoofedForwardedForIsRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	f := newFixture(t, cfg)

	codes := make([]int, 0, 3)
	for _, xff := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/resend-confirmation", bytes.NewBufferString(`{"email":"ghost@x.com"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusBadRequest, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestHealthCheck_Ready(t *testing.T) {
	f := newFixture(t, testConfig())
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health-check/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func strPtr(s string) *string { return &s }
