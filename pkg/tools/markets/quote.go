package markets

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/quantfold/scout/pkg/agent/tools"
)

// QuoteTool fetches the latest quote for a symbol.
type QuoteTool struct {
	client *Client
}

// NewQuoteTool creates a new QuoteTool backed by the given client.
func NewQuoteTool(client *Client) *QuoteTool {
	return &QuoteTool{
		client: client,
	}
}

// Name returns the tool name.
func (t *QuoteTool) Name() string {
	return "market_quote"
}

// Description returns the tool description.
func (t *QuoteTool) Description() string {
	return "Fetch the latest market quote for a symbol. Returns the raw JSON quote from the market data API."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *QuoteTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"symbol": map[string]interface{}{
				"type":        "string",
				"description": "Ticker symbol to quote (e.g. AAPL, BTC-USD)",
			},
		},
		[]string{"symbol"},
	)
}

// Execute fetches the quote and returns the response body.
func (t *QuoteTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	var input struct {
		XMLName xml.Name `xml:"arguments"`
		Symbol  string   `xml:"symbol"`
	}

	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", nil, fmt.Errorf("invalid arguments: %w", err)
	}

	symbol := normalizeSymbol(input.Symbol)
	if symbol == "" {
		return "", nil, fmt.Errorf("missing required parameter: symbol")
	}

	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := t.client.Get(ctx, "/v1/quote", params)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch quote: %w", err)
	}

	metadata := map[string]interface{}{
		"symbol": symbol,
	}

	return string(body), metadata, nil
}

// normalizeSymbol trims whitespace and upper-cases a ticker so cache keys
// are stable across equivalent spellings.
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
