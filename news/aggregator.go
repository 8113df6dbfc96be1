// Package news aggregates articles from multiple search backends (Tavily web
// search and the NewsAPI article index) and exposes the results as agent
// tools. A missing API key disables the corresponding backend: its searches
// return empty result sets instead of errors.
package news

import (
	"context"
	"fmt"
	"time"

	"github.com/kataras/golog"

	"github.com/smallnest/newsagent/config"
)

// Category names accepted by Aggregate.
const (
	CategoryGeneral  = "general"
	CategoryTech     = "tech"
	CategoryBusiness = "business"
)

// Aggregator fans a query out to the configured news backends.
type Aggregator struct {
	tavily  *TavilyClient
	newsapi *NewsAPIClient

	maxResults      int
	techDomains     []string
	businessDomains []string
}

// NewAggregator builds an Aggregator from configuration. Backends whose API
// keys are absent are left nil and skipped during searches.
func NewAggregator(cfg config.NewsConfig) *Aggregator {
	a := &Aggregator{
		maxResults:      cfg.MaxResults,
		techDomains:     cfg.TechDomains,
		businessDomains: cfg.BusinessDomains,
	}
	if a.maxResults <= 0 {
		a.maxResults = 10
	}

	if tavily, err := NewTavilyClient(""); err == nil {
		a.tavily = tavily
	} else {
		golog.Warnf("tavily backend disabled: %v", err)
	}
	if napi, err := NewNewsAPIClient(""); err == nil {
		a.newsapi = napi
	} else {
		golog.Warnf("newsapi backend disabled: %v", err)
	}
	return a
}

// NewAggregatorWithClients wires explicit clients. Used by tests and by
// callers that manage their own credentials.
func NewAggregatorWithClients(tavily *TavilyClient, newsapi *NewsAPIClient, cfg config.NewsConfig) *Aggregator {
	a := NewAggregatorWithoutBackends(cfg)
	a.tavily = tavily
	a.newsapi = newsapi
	return a
}

// NewAggregatorWithoutBackends builds an Aggregator with every backend
// disabled.
func NewAggregatorWithoutBackends(cfg config.NewsConfig) *Aggregator {
	a := &Aggregator{
		maxResults:      cfg.MaxResults,
		techDomains:     cfg.TechDomains,
		businessDomains: cfg.BusinessDomains,
	}
	if a.maxResults <= 0 {
		a.maxResults = 10
	}
	return a
}

// SearchTavily searches general web news via Tavily.
func (a *Aggregator) SearchTavily(ctx context.Context, query string, maxResults int) []TavilyResult {
	if a.tavily == nil {
		return nil
	}
	results, err := a.tavily.Search(ctx, fmt.Sprintf("latest news about %s", query), maxResults)
	if err != nil {
		golog.Errorf("tavily search failed: %v", err)
		return nil
	}
	return results
}

// SearchNewsAPI searches general articles via NewsAPI.
func (a *Aggregator) SearchNewsAPI(ctx context.Context, query string, maxResults int) []Article {
	if a.newsapi == nil {
		return nil
	}
	articles, err := a.newsapi.Everything(ctx, query, nil, maxResults)
	if err != nil {
		golog.Errorf("newsapi search failed: %v", err)
		return nil
	}
	return articles
}

// SearchTechNews searches technology articles from the configured tech
// domains.
func (a *Aggregator) SearchTechNews(ctx context.Context, query string) []Article {
	if a.newsapi == nil {
		return nil
	}
	articles, err := a.newsapi.Everything(ctx, query, a.techDomains, a.maxResults)
	if err != nil {
		golog.Errorf("tech news search failed: %v", err)
		return nil
	}
	return articles
}

// SearchBusinessNews searches business articles from the configured financial
// domains.
func (a *Aggregator) SearchBusinessNews(ctx context.Context, query string) []Article {
	if a.newsapi == nil {
		return nil
	}
	articles, err := a.newsapi.Everything(ctx, query, a.businessDomains, a.maxResults)
	if err != nil {
		golog.Errorf("business news search failed: %v", err)
		return nil
	}
	return articles
}

// SearchLinkedIn searches professional insights on LinkedIn via Tavily.
func (a *Aggregator) SearchLinkedIn(ctx context.Context, query string) []TavilyResult {
	if a.tavily == nil {
		return nil
	}
	results, err := a.tavily.Search(ctx, fmt.Sprintf("site:linkedin.com %s news insights", query), 5)
	if err != nil {
		golog.Errorf("linkedin search failed: %v", err)
		return nil
	}
	return results
}

// SearchMedium searches in-depth articles on Medium via Tavily.
func (a *Aggregator) SearchMedium(ctx context.Context, query string) []TavilyResult {
	if a.tavily == nil {
		return nil
	}
	results, err := a.tavily.Search(ctx, fmt.Sprintf("site:medium.com %s", query), 5)
	if err != nil {
		golog.Errorf("medium search failed: %v", err)
		return nil
	}
	return results
}

// GeneralResults groups the general-news backends.
type GeneralResults struct {
	Tavily  []TavilyResult
	NewsAPI []Article
}

// TechResults groups tech sources, LinkedIn insights and Medium articles.
type TechResults struct {
	TechSources []Article
	LinkedIn    []TavilyResult
	Medium      []TavilyResult
}

// BusinessResults groups the financial-domain sources.
type BusinessResults struct {
	FinancialSources []Article
}

// AggregateResult is the merged output of a fan-out search.
type AggregateResult struct {
	Query         string
	Timestamp     time.Time
	General       *GeneralResults
	Technology    *TechResults
	Business      *BusinessResults
	TotalArticles int
}

// Aggregate runs the backends for the requested categories sequentially and
// merges the results. A nil or empty category list means all categories.
// TotalArticles always equals the sum of the per-bucket lengths.
func (a *Aggregator) Aggregate(ctx context.Context, query string, categories []string) *AggregateResult {
	if len(categories) == 0 {
		categories = []string{CategoryGeneral, CategoryTech, CategoryBusiness}
	}

	result := &AggregateResult{
		Query:     query,
		Timestamp: time.Now(),
	}

	for _, cat := range categories {
		switch cat {
		case CategoryGeneral:
			g := &GeneralResults{
				Tavily:  a.SearchTavily(ctx, query, a.maxResults),
				NewsAPI: a.SearchNewsAPI(ctx, query, a.maxResults),
			}
			result.General = g
			result.TotalArticles += len(g.Tavily) + len(g.NewsAPI)

		case CategoryTech:
			t := &TechResults{
				TechSources: a.SearchTechNews(ctx, query),
				LinkedIn:    a.SearchLinkedIn(ctx, query),
				Medium:      a.SearchMedium(ctx, query),
			}
			result.Technology = t
			result.TotalArticles += len(t.TechSources) + len(t.LinkedIn) + len(t.Medium)

		case CategoryBusiness:
			b := &BusinessResults{
				FinancialSources: a.SearchBusinessNews(ctx, query),
			}
			result.Business = b
			result.TotalArticles += len(b.FinancialSources)
		}
	}

	return result
}
