package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/quantgoal/walletd/internal/feed"
	"github.com/quantgoal/walletd/internal/services/wallet"
	filestore "github.com/quantgoal/walletd/internal/store/file"
)

var errTest = errors.New("feed down")

func decFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}

	return d
}

type stubFeed struct {
	records []feed.Record
	err     error
}

func (f *stubFeed) Fetch(context.Context) ([]feed.Record, error) {
	return f.records, f.err
}

func newTestRouter(t *testing.T, fd feed.Feed) http.Handler {
	t.Helper()

	st, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if fd == nil {
		fd = &stubFeed{}
	}

	svc, err := wallet.New(context.Background(), st, fd)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return NewRouter(svc)
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHandlers_BalanceAndSpendFlow(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)

	rec := do(t, router, http.MethodGet, "/wallet/balance", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("balance: want 200, got %d", rec.Code)
	}

	var balResp map[string]string

	err := json.Unmarshal(rec.Body.Bytes(), &balResp)
	if err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if balResp["balance"] != "1000.00" {
		t.Fatalf("seed balance: want 1000.00, got %s", balResp["balance"])
	}

	rec = do(t, router, http.MethodPost, "/wallet/spend", `{"amount":"250.50","description":"hedge premium"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("spend: want 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/wallet/balance", "")
	_ = json.Unmarshal(rec.Body.Bytes(), &balResp)
	if balResp["balance"] != "749.50" {
		t.Fatalf("after spend: want 749.50, got %s", balResp["balance"])
	}

	rec = do(t, router, http.MethodGet, "/wallet/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("transactions: want 200, got %d", rec.Code)
	}

	var txs []transactionResponse

	err = json.Unmarshal(rec.Body.Bytes(), &txs)
	if err != nil {
		t.Fatalf("decode transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Desc != "hedge premium" || txs[0].Amount != "-250.5" {
		t.Fatalf("transactions: %+v", txs)
	}
}

func TestHandlers_SpendValidation(t *testing.T) {
	t.Parallel()

	type tc struct {
		name string
		body string
		want int
	}

	tests := []tc{
		{name: "overdraft", body: `{"amount":"1500","description":"too much"}`, want: http.StatusConflict},
		{name: "zero_amount", body: `{"amount":"0","description":"zero"}`, want: http.StatusBadRequest},
		{name: "negative_amount", body: `{"amount":"-5","description":"neg"}`, want: http.StatusBadRequest},
		{name: "bad_amount", body: `{"amount":"abc","description":"nan"}`, want: http.StatusBadRequest},
		{name: "missing_description", body: `{"amount":"10","description":""}`, want: http.StatusBadRequest},
		{name: "empty_body", body: "", want: http.StatusBadRequest},
		{name: "invalid_json", body: `{"amount":`, want: http.StatusBadRequest},
		{name: "unknown_field", body: `{"amount":"10","description":"x","extra":1}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(t, nil)

			rec := do(t, router, http.MethodPost, "/wallet/spend", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("want %d, got %d (%s)", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandlers_EarnAndReset(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)

	rec := do(t, router, http.MethodPost, "/wallet/earn", `{"amount":"99.99","description":"top up"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("earn: want 200, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodPost, "/wallet/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: want 200, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/wallet/balance", "")

	var balResp map[string]string

	_ = json.Unmarshal(rec.Body.Bytes(), &balResp)
	if balResp["balance"] != "1000.00" {
		t.Fatalf("after reset: want 1000.00, got %s", balResp["balance"])
	}

	rec = do(t, router, http.MethodGet, "/wallet/transactions", "")

	var txs []transactionResponse

	_ = json.Unmarshal(rec.Body.Bytes(), &txs)
	if len(txs) != 0 {
		t.Fatalf("after reset: log not empty: %+v", txs)
	}
}

func TestHandlers_Reconcile(t *testing.T) {
	t.Parallel()

	fd := &stubFeed{records: []feed.Record{
		{ID: "b1", Status: feed.StatusWon, Stake: decFromString(t, "100"), Odds: "2.0"},
	}}
	router := newTestRouter(t, fd)

	rec := do(t, router, http.MethodPost, "/wallet/reconcile", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reconcile: want 200, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/wallet/balance", "")

	var balResp map[string]string

	_ = json.Unmarshal(rec.Body.Bytes(), &balResp)
	if balResp["balance"] != "1200.00" {
		t.Fatalf("after reconcile: want 1200.00, got %s", balResp["balance"])
	}
}

func TestHandlers_ReconcileFeedDown(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &stubFeed{err: errTest})

	rec := do(t, router, http.MethodPost, "/wallet/reconcile", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("reconcile with dead feed: want 502, got %d", rec.Code)
	}
}

func TestHandlers_Healthz(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)

	rec := do(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: want 200, got %d", rec.Code)
	}
}
