package markets

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/quantfold/scout/pkg/agent/tools"
)

var validRanges = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true,
	"6mo": true, "1y": true, "5y": true, "max": true,
}

var validIntervals = map[string]bool{
	"1m": true, "5m": true, "15m": true, "1h": true,
	"1d": true, "1wk": true, "1mo": true,
}

// HistoryTool fetches historical candles for a symbol.
type HistoryTool struct {
	client *Client
}

// NewHistoryTool creates a new HistoryTool backed by the given client.
func NewHistoryTool(client *Client) *HistoryTool {
	return &HistoryTool{
		client: client,
	}
}

// Name returns the tool name.
func (t *HistoryTool) Name() string {
	return "market_history"
}

// Description returns the tool description.
func (t *HistoryTool) Description() string {
	return "Fetch historical price candles for a symbol over a range. Returns the raw JSON candle series from the market data API."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *HistoryTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"symbol": map[string]interface{}{
				"type":        "string",
				"description": "Ticker symbol (e.g. AAPL, BTC-USD)",
			},
			"range": map[string]interface{}{
				"type":        "string",
				"description": "Lookback range: 1d, 5d, 1mo, 3mo, 6mo, 1y, 5y, max (default 1mo)",
			},
			"interval": map[string]interface{}{
				"type":        "string",
				"description": "Candle interval: 1m, 5m, 15m, 1h, 1d, 1wk, 1mo (default 1d)",
			},
		},
		[]string{"symbol"},
	)
}

// Execute fetches the candle series and returns the response body.
func (t *HistoryTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName  xml.Name `xml:"arguments"`
		Symbol   string   `xml:"symbol"`
		Range    string   `xml:"range"`
		Interval string   `xml:"interval"`
	}

	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	symbol := normalizeSymbol(input.Symbol)
	if symbol == "" {
		return "", nil, fmt.Errorf("missing required parameter: symbol")
	}

	rangeParam := input.Range
	if rangeParam == "" {
		rangeParam = "1mo"
	}
	if !validRanges[rangeParam] {
		return "", nil, fmt.Errorf("invalid range: %q", rangeParam)
	}

	interval := input.Interval
	if interval == "" {
		interval = "1d"
	}
	if !validIntervals[interval] {
		return "", nil, fmt.Errorf("invalid interval: %q", interval)
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("range", rangeParam)
	params.Set("interval", interval)

	body, err := t.client.Get(ctx, "/v1/history", params)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch history: %w", err)
	}

	metadata := map[string]interface{}{
		"symbol":   symbol,
		"range":    rangeParam,
		"interval": interval,
	}

	return string(body), metadata, nil
}
