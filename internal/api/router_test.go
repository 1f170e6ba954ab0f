package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"loan-engine/internal/config"
	"loan-engine/internal/domain/client"
	"loan-engine/internal/domain/client/clienttest"
	"loan-engine/internal/domain/loan"
	"loan-engine/internal/domain/loan/loantest"
	"loan-engine/internal/domain/request"
	"loan-engine/internal/domain/request/requesttest"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	loans    *loantest.MockLoanService
	clients  *clienttest.MockClientService
	requests *requesttest.MockRequestService
}

func newTestRouter(t *testing.T, auth config.AuthConfig) (http.Handler, testServices) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Server: config.ServerConfig{
			Auth:        auth,
			RateLimit:   config.RateLimitConfig{Enabled: false},
			Idempotency: config.IdempotencyConfig{Enabled: true, TTL: time.Hour},
		},
		Metrics: config.MetricsConfig{Path: "/metrics"},
	}
	svcs := testServices{
		loans:    new(loantest.MockLoanService),
		clients:  new(clienttest.MockClientService),
		requests: new(requesttest.MockRequestService),
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := SetupRouter(ctx, Services{Loans: svcs.loans, Clients: svcs.clients, Requests: svcs.requests}, nil, cfg, logger)
	return router, svcs
}

func TestSetupRouter(t *testing.T) {
	router, svcs := newTestRouter(t, config.AuthConfig{Enabled: false})

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "http_requests_total")
	})

	t.Run("client routes", func(t *testing.T) {
		svcs.clients.On("ListClients", mock.Anything, true).Return([]*client.Client{}, nil).Once()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/clients", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("loan routes", func(t *testing.T) {
		l, err := loan.NewLoan(uuid.New(), decimal.NewFromInt(100), decimal.NewFromInt(5), loan.FrequencyWeekly, time.Now())
		require.NoError(t, err)
		svcs.loans.On("GetLoan", mock.Anything, l.ID).Return(l, nil).Once()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/loans/"+l.ID.String(), nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("payments without redis skip idempotency", func(t *testing.T) {
		l, err := loan.NewLoan(uuid.New(), decimal.NewFromInt(100), decimal.NewFromInt(5), loan.FrequencyWeekly, time.Now())
		require.NoError(t, err)
		res := &loan.PaymentResult{Payment: &loan.PaymentEvent{ID: uuid.New(), LoanID: l.ID}, Loan: l}
		svcs.loans.On("MakePayment", mock.Anything, mock.Anything).Return(res, nil).Twice()

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/loans/"+l.ID.String()+"/payments", strings.NewReader(`{"amountTotal":"10"}`))
			req.Header.Set("Idempotency-Key", "same")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusCreated, rec.Code)
		}
	})

	t.Run("request routes", func(t *testing.T) {
		svcs.requests.On("ListRequests", mock.Anything, (*request.Status)(nil)).Return([]*request.LoanRequest{}, nil).Once()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/loan-requests", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	svcs.loans.AssertExpectations(t)
	svcs.clients.AssertExpectations(t)
	svcs.requests.AssertExpectations(t)
}

func TestSetupRouterRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t, config.AuthConfig{Enabled: true, JWTSecret: "secret", TokenTTL: time.Hour})

	for _, path := range []string{"/clients", "/loans", "/loan-requests"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"username":"ops"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
}
