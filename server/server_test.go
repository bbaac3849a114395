package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/tradejournal/app"
	"github.com/rustyeddy/tradejournal/ledger"
	"github.com/rustyeddy/tradejournal/mentor"
	"github.com/rustyeddy/tradejournal/storage"
	"github.com/rustyeddy/tradejournal/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type echoGen struct{}

func (echoGen) Generate(_ context.Context, prompt string) (string, error) {
	return "Your losers are larger than your winners.", nil
}

func newServer(t *testing.T, store storage.Store) *Server {
	t.Helper()
	a, err := app.New(context.Background(), app.Options{
		Store:          store,
		Generator:      echoGen{},
		InitialBalance: 10000,
		Logger:         zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return New(a, zaptest.NewLogger(t))
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

const eurusdWin = `{"date":"2024-06-03","assetClass":"Forex","symbol":"eurusd","direction":"Long","entryPrice":1.1000,"exitPrice":"1.1050","quantity":1,"status":"Closed"}`

func TestHealth(t *testing.T) {
	t.Parallel()

	w := do(t, newServer(t, storage.NewMemory()), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestTradeLifecycle(t *testing.T) {
	t.Parallel()

	s := newServer(t, storage.NewMemory())

	w := do(t, s, http.MethodPost, "/api/trades", eurusdWin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	tr := body["trade"].(map[string]any)
	id := tr["id"].(string)
	assert.Equal(t, "EURUSD", tr["symbol"])
	assert.InDelta(t, 500.0, tr["pnl"].(float64), 1e-6)
	assert.InDelta(t, 10500.0, body["account"].(map[string]any)["currentBalance"].(float64), 1e-6)
	assert.NotContains(t, body, "warning")

	w = do(t, s, http.MethodGet, "/api/trades", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["trades"], 1)

	w = do(t, s, http.MethodGet, "/api/trades/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode(t, w)["id"])

	w = do(t, s, http.MethodDelete, "/api/trades/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, true, body["deleted"])
	assert.Equal(t, 10000.0, body["account"].(map[string]any)["currentBalance"])

	w = do(t, s, http.MethodDelete, "/api/trades/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["deleted"])

	w = do(t, s, http.MethodGet, "/api/trades/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/api/trades/not-a-trade", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "id", decode(t, w)["field"])
}

func TestAddTradeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"bad_number", `{"date":"2024-06-03","assetClass":"Forex","symbol":"x","direction":"Long","entryPrice":"one","quantity":1}`, "entryPrice"},
		{"missing_symbol", `{"date":"2024-06-03","assetClass":"Forex","direction":"Long","entryPrice":1,"quantity":1}`, "symbol"},
		{"bad_asset", `{"date":"2024-06-03","assetClass":"Bonds","symbol":"x","direction":"Long","entryPrice":1,"quantity":1}`, "assetClass"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := do(t, newServer(t, storage.NewMemory()), http.MethodPost, "/api/trades", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.field, decode(t, w)["field"])
		})
	}

	w := do(t, newServer(t, storage.NewMemory()), http.MethodPost, "/api/trades", `{"date":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type failingStore struct{ storage.Store }

func (failingStore) Save(context.Context, ledger.Snapshot) error {
	return &storage.StorageError{Op: "save", Err: io.ErrShortWrite}
}

func TestAddTradeSaveFailureWarns(t *testing.T) {
	t.Parallel()

	s := newServer(t, failingStore{storage.NewMemory()})
	w := do(t, s, http.MethodPost, "/api/trades", eurusdWin)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, decode(t, w)["warning"], "journal not saved")

	w = do(t, s, http.MethodGet, "/api/trades", "")
	assert.Len(t, decode(t, w)["trades"], 1)
}

func TestAccount(t *testing.T) {
	t.Parallel()

	s := newServer(t, storage.NewMemory())

	w := do(t, s, http.MethodPut, "/api/account", `{"initialBalance":2500}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/api/account", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 2500.0, body["initialBalance"])
	assert.Equal(t, 2500.0, body["currentBalance"])

	w = do(t, s, http.MethodPut, "/api/account", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "initialBalance", decode(t, w)["field"])
}

func TestStatsAndEquity(t *testing.T) {
	t.Parallel()

	s := newServer(t, storage.NewMemory())

	w := do(t, s, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 0.0, body["winRate"])
	assert.Equal(t, 0.0, body["profitFactor"])
	assert.Equal(t, "0.00", body["profitFactorLabel"])

	do(t, s, http.MethodPost, "/api/trades", eurusdWin)
	do(t, s, http.MethodPost, "/api/trades", `{"date":"2024-06-01","assetClass":"Stocks","symbol":"aapl","direction":"Long","entryPrice":100,"exitPrice":100,"quantity":5}`)

	w = do(t, s, http.MethodGet, "/api/stats", "")
	body = decode(t, w)
	assert.Equal(t, 2.0, body["totalTrades"])
	assert.Equal(t, 1.0, body["losses"])
	assert.Nil(t, body["profitFactor"])
	assert.Equal(t, "∞", body["profitFactorLabel"])
	assert.Equal(t, false, body["profitFactorFinite"])

	w = do(t, s, http.MethodGet, "/api/equity", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	points := body["points"].([]any)
	require.Len(t, points, 3)
	assert.Equal(t, "start", points[0].(map[string]any)["label"])
	// the zero pnl trade is dated first
	assert.Equal(t, 0.0, points[1].(map[string]any)["pnl"])
	assert.InDelta(t, 5.0, body["returnPct"].(float64), 1e-6)
}

func TestMentorEndpoints(t *testing.T) {
	t.Parallel()

	s := newServer(t, storage.NewMemory())

	w := do(t, s, http.MethodPost, "/api/mentor", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, mentor.MessageNotEnoughTrades, decode(t, w)["message"])

	for i := 0; i < 3; i++ {
		do(t, s, http.MethodPost, "/api/trades", eurusdWin)
	}

	w = do(t, s, http.MethodPost, "/api/mentor", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Your losers are larger than your winners.", decode(t, w)["analysis"])

	w = do(t, s, http.MethodGet, "/api/mentor", "")
	assert.Equal(t, "Your losers are larger than your winners.", decode(t, w)["analysis"])

	w = do(t, s, http.MethodDelete, "/api/mentor", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodGet, "/api/mentor", "")
	assert.Equal(t, map[string]any{"loading": false}, decode(t, w))
}

func TestCalcEndpoints(t *testing.T) {
	t.Parallel()

	s := newServer(t, storage.NewMemory())

	w := do(t, s, http.MethodPost, "/api/calc/pips", `{"pair":"USDJPY","entry":150.00,"exit":150.25,"lots":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 25.0, body["pips"])
	assert.Equal(t, 450.0, body["profit"])

	w = do(t, s, http.MethodPost, "/api/calc/options", `{"type":"put","contracts":2,"entryPremium":1.10,"exitPremium":2.35}`)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, "Put", body["type"])
	assert.Equal(t, 250.0, body["pnl"])

	w = do(t, s, http.MethodPost, "/api/calc/options", `{"type":"strangle"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/api/calc/size", `{"equity":10000,"riskPct":0.01,"entryPrice":1.2,"stopPrice":1.2,"pipLocation":-4}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	t.Parallel()

	s := newServer(t, storage.NewMemory())
	do(t, s, http.MethodPost, "/api/trades", eurusdWin)

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"csv", "text/csv", "EURUSD"},
		{"equity.csv", "text/csv", "T1,10500.00,500.00"},
		{"org", "text/plain", "* JOURNAL:"},
		{"yaml", "application/yaml", "symbol: EURUSD"},
		{"json", "application/json", `"profitFactorLabel": "1.00"`},
	}

	for _, tt := range tests {
		w := do(t, s, http.MethodGet, "/api/export/"+tt.format, "")
		require.Equal(t, http.StatusOK, w.Code, tt.format)
		assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
		assert.Contains(t, w.Body.String(), tt.contains)
	}

	w := do(t, s, http.MethodGet, "/api/export/pdf", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFilteredTradesAndStats(t *testing.T) {
	t.Parallel()

	s := newServer(t, storage.NewMemory())
	do(t, s, http.MethodPost, "/api/trades", eurusdWin)
	do(t, s, http.MethodPost, "/api/trades", `{"date":"2024-07-10","assetClass":"Stocks","symbol":"aapl","direction":"Long","entryPrice":100,"exitPrice":90,"quantity":5}`)

	w := do(t, s, http.MethodGet, "/api/trades?symbol=AAPL", "")
	require.Equal(t, http.StatusOK, w.Code)
	trades := decode(t, w)["trades"].([]any)
	require.Len(t, trades, 1)
	assert.Equal(t, "AAPL", trades[0].(map[string]any)["symbol"])

	w = do(t, s, http.MethodGet, "/api/stats?from=2024-06-01&to=2024-06-30", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 1.0, body["totalTrades"])
	assert.Equal(t, 100.0, body["winRate"])

	w = do(t, s, http.MethodGet, "/api/stats?from=june", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTradeWithImportedID(t *testing.T) {
	t.Parallel()

	store := storage.NewMemory()
	legacy := trade.New("1712345678901", trade.Draft{
		Date: "2024-04-05", AssetClass: trade.Forex, Symbol: "GBPUSD", Direction: trade.Long,
		EntryPrice: 1.26, ExitPrice: 1.27, Quantity: 1, Status: trade.Closed,
	})
	require.NoError(t, store.Save(context.Background(), ledger.Snapshot{
		Trades:  []trade.Trade{legacy},
		Account: ledger.AccountState{InitialBalance: 10000},
	}))
	s := newServer(t, store)

	w := do(t, s, http.MethodGet, "/api/trades/1712345678901", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GBPUSD", decode(t, w)["symbol"])
}
