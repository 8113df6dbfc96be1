package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Article is a single article as returned by the NewsAPI "everything"
// endpoint.
type Article struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

type newsAPIResponse struct {
	Status   string    `json:"status"`
	Message  string    `json:"message"`
	Articles []Article `json:"articles"`
}

// NewsAPIClient is a minimal client for newsapi.org.
type NewsAPIClient struct {
	APIKey  string
	BaseURL string

	httpClient *http.Client
}

// NewsAPIOption configures a NewsAPIClient.
type NewsAPIOption func(*NewsAPIClient)

// WithNewsAPIBaseURL sets the API endpoint. Used by tests.
func WithNewsAPIBaseURL(baseURL string) NewsAPIOption {
	return func(c *NewsAPIClient) {
		c.BaseURL = baseURL
	}
}

// NewNewsAPIClient creates a NewsAPI client. If apiKey is empty it reads
// NEWS_API_KEY from the environment.
func NewNewsAPIClient(apiKey string, opts ...NewsAPIOption) (*NewsAPIClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("NEWS_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("NEWS_API_KEY not set")
	}

	c := &NewsAPIClient{
		APIKey:     apiKey,
		BaseURL:    "https://newsapi.org/v2/everything",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Everything queries the "everything" endpoint, newest first, English only.
// domains restricts results to the given source domains when non-empty.
func (c *NewsAPIClient) Everything(ctx context.Context, query string, domains []string, pageSize int) ([]Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", fmt.Sprintf("%d", pageSize))
	if len(domains) > 0 {
		params.Set("domains", strings.Join(domains, ","))
	}

	reqURL := fmt.Sprintf("%s?%s", c.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Status != "ok" {
		if result.Message != "" {
			return nil, fmt.Errorf("newsapi error: %s", result.Message)
		}
		return nil, fmt.Errorf("newsapi returned status: %d", resp.StatusCode)
	}
	return result.Articles, nil
}
