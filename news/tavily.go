package news

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// TavilyClient is a minimal client for the Tavily search API.
type TavilyClient struct {
	APIKey  string
	BaseURL string
	Topic   string

	httpClient *http.Client
}

// TavilyOption configures a TavilyClient.
type TavilyOption func(*TavilyClient)

// WithTavilyBaseURL sets the API endpoint. Used by tests.
func WithTavilyBaseURL(baseURL string) TavilyOption {
	return func(c *TavilyClient) {
		c.BaseURL = baseURL
	}
}

// WithTavilyHTTPClient sets a custom HTTP client.
func WithTavilyHTTPClient(hc *http.Client) TavilyOption {
	return func(c *TavilyClient) {
		c.httpClient = hc
	}
}

// NewTavilyClient creates a Tavily client. If apiKey is empty it reads
// TAVILY_API_KEY from the environment; an empty key yields an error so
// callers can degrade to an empty result set.
func NewTavilyClient(apiKey string, opts ...TavilyOption) (*TavilyClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("TAVILY_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY not set")
	}

	c := &TavilyClient{
		APIKey:     apiKey,
		BaseURL:    "https://api.tavily.com/search",
		Topic:      "news",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TavilyResult is a single search hit.
type TavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type tavilyResponse struct {
	Results []TavilyResult `json:"results"`
}

// Search runs a query and returns up to maxResults hits.
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) ([]TavilyResult, error) {
	reqBody := map[string]any{
		"query":       query,
		"api_key":     c.APIKey,
		"topic":       c.Topic,
		"max_results": maxResults,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily api status: %d", resp.StatusCode)
	}

	var result tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Results, nil
}
