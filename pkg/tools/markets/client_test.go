package markets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/scout/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.MarketsConfig{
		BaseURL:      server.URL,
		APIKey:       "test-key",
		CacheTTLSecs: 60,
	})
	return client, server
}

func TestClientGet(t *testing.T) {
	var gotAuth, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"symbol":"AAPL","price":187.32}`))
	})

	params := url.Values{}
	params.Set("symbol", "AAPL")

	body, err := client.Get(context.Background(), "/v1/quote", params)
	require.NoError(t, err)

	assert.Contains(t, string(body), `"price":187.32`)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "symbol=AAPL", gotQuery)
}

func TestClientGetCachesResponses(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"ok":true}`))
	})

	params := url.Values{}
	params.Set("symbol", "AAPL")

	for i := 0; i < 3; i++ {
		_, err := client.Get(context.Background(), "/v1/quote", params)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), hits.Load(), "repeated identical requests should hit the cache")
}

func TestClientGetDistinctParamsNotCachedTogether(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{}`))
	})

	for _, symbol := range []string{"AAPL", "MSFT"} {
		params := url.Values{}
		params.Set("symbol", symbol)
		_, err := client.Get(context.Background(), "/v1/quote", params)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(2), hits.Load())
}

func TestClientGetErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "symbol not found", http.StatusNotFound)
	})

	_, err := client.Get(context.Background(), "/v1/quote", url.Values{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "symbol not found")
}

func TestClientGetErrorsNotCached(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	})

	_, err := client.Get(context.Background(), "/v1/quote", url.Values{})
	require.Error(t, err)

	body, err := client.Get(context.Background(), "/v1/quote", url.Values{})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"ok":true`)
}

func TestResponseCacheExpiry(t *testing.T) {
	cache := newResponseCache(time.Minute)
	now := time.Now()
	cache.now = func() time.Time { return now }

	cache.put("key", []byte("value"))

	got, ok := cache.get("key")
	require.True(t, ok)
	assert.Equal(t, "value", string(got))

	now = now.Add(2 * time.Minute)
	_, ok = cache.get("key")
	assert.False(t, ok, "entries past their TTL should not be served")
}

func args(body string) []byte {
	return []byte("<arguments>" + body + "</arguments>")
}

func TestQuoteTool(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/quote", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"symbol":"AAPL","price":187.32}`))
	})

	tool := NewQuoteTool(client)
	result, metadata, err := tool.Execute(context.Background(), args("<symbol>aapl</symbol>"))
	require.NoError(t, err)

	assert.Contains(t, result, `"price":187.32`)
	assert.Equal(t, "AAPL", metadata["symbol"])
}

func TestQuoteToolMissingSymbol(t *testing.T) {
	tool := NewQuoteTool(NewClient(config.MarketsConfig{BaseURL: "http://example.invalid"}))
	_, _, err := tool.Execute(context.Background(), args(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol")
}

func TestHistoryTool(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/history", r.URL.Path)
		assert.Equal(t, "MSFT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "3mo", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Write([]byte(`{"candles":[]}`))
	})

	tool := NewHistoryTool(client)
	result, metadata, err := tool.Execute(context.Background(),
		args("<symbol>MSFT</symbol><range>3mo</range>"))
	require.NoError(t, err)

	assert.Contains(t, result, "candles")
	assert.Equal(t, "3mo", metadata["range"])
	assert.Equal(t, "1d", metadata["interval"], "interval should default to 1d")
}

func TestHistoryToolValidation(t *testing.T) {
	tool := NewHistoryTool(NewClient(config.MarketsConfig{BaseURL: "http://example.invalid"}))

	tests := []struct {
		name    string
		argsXML string
		wantErr string
	}{
		{"missing symbol", "<range>1mo</range>", "symbol"},
		{"bad range", "<symbol>AAPL</symbol><range>2w</range>", "invalid range"},
		{"bad interval", "<symbol>AAPL</symbol><interval>30s</interval>", "invalid interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tool.Execute(context.Background(), args(tt.argsXML))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "BTC-USD", normalizeSymbol("  btc-usd "))
	assert.Equal(t, "", normalizeSymbol("   "))
	assert.False(t, strings.ContainsAny(normalizeSymbol(" spy "), " "))
}
