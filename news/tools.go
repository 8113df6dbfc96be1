package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/tools"
)

// Tools returns the news-search tools backed by the aggregator, in the order
// they are offered to the LLM.
func Tools(agg *Aggregator) []tools.Tool {
	return []tools.Tool{
		&GeneralNewsTool{agg: agg},
		&TechnologyNewsTool{agg: agg},
		&BusinessNewsTool{agg: agg},
		&ComprehensiveNewsTool{agg: agg},
	}
}

// GeneralNewsTool searches for general news articles about a topic.
type GeneralNewsTool struct {
	agg *Aggregator
}

var _ tools.Tool = (*GeneralNewsTool)(nil)

func (t *GeneralNewsTool) Name() string {
	return "search_general_news"
}

func (t *GeneralNewsTool) Description() string {
	return "Search for general news articles about a specific topic. " +
		"Input should be the topic or keywords to search for. " +
		"Returns formatted news articles with titles, descriptions, and sources."
}

func (t *GeneralNewsTool) Call(ctx context.Context, input string) (string, error) {
	results := t.agg.Aggregate(ctx, input, []string{CategoryGeneral})
	if results.General == nil || results.TotalArticles == 0 {
		return fmt.Sprintf("No general news found for '%s'", input), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# 📰 General News about '%s'\n\n", input)
	writeTavilySection(&sb, "## 🔍 Web Search Results", results.General.Tavily, 5)
	writeArticleSection(&sb, "## 📰 News API Results", results.General.NewsAPI, 5)
	return sb.String(), nil
}

// TechnologyNewsTool searches tech sources, LinkedIn and Medium.
type TechnologyNewsTool struct {
	agg *Aggregator
}

var _ tools.Tool = (*TechnologyNewsTool)(nil)

func (t *TechnologyNewsTool) Name() string {
	return "search_technology_news"
}

func (t *TechnologyNewsTool) Description() string {
	return "Search for technology news and articles from tech sources, LinkedIn, and Medium. " +
		"Input should be the technology topic to search for."
}

func (t *TechnologyNewsTool) Call(ctx context.Context, input string) (string, error) {
	results := t.agg.Aggregate(ctx, input, []string{CategoryTech})
	if results.Technology == nil || results.TotalArticles == 0 {
		return fmt.Sprintf("No technology news found for '%s'", input), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# 💻 Technology News about '%s'\n\n", input)
	writeArticleSection(&sb, "## 🔧 Tech Sources", results.Technology.TechSources, 5)
	writeTavilySection(&sb, "## 💼 LinkedIn Insights", results.Technology.LinkedIn, 3)
	writeTavilySection(&sb, "## 📝 Medium Articles", results.Technology.Medium, 3)
	return sb.String(), nil
}

// BusinessNewsTool searches business and financial news.
type BusinessNewsTool struct {
	agg *Aggregator
}

var _ tools.Tool = (*BusinessNewsTool)(nil)

func (t *BusinessNewsTool) Name() string {
	return "search_business_news"
}

func (t *BusinessNewsTool) Description() string {
	return "Search for business and financial news from reputable financial sources. " +
		"Input should be the business topic to search for."
}

func (t *BusinessNewsTool) Call(ctx context.Context, input string) (string, error) {
	results := t.agg.Aggregate(ctx, input, []string{CategoryBusiness})
	if results.Business == nil || results.TotalArticles == 0 {
		return fmt.Sprintf("No business news found for '%s'", input), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# 💼 Business News about '%s'\n\n", input)
	writeArticleSection(&sb, "## 📈 Financial Sources", results.Business.FinancialSources, 5)
	return sb.String(), nil
}

// ComprehensiveNewsTool searches all categories at once.
type ComprehensiveNewsTool struct {
	agg *Aggregator
}

var _ tools.Tool = (*ComprehensiveNewsTool)(nil)

func (t *ComprehensiveNewsTool) Name() string {
	return "search_comprehensive_news"
}

func (t *ComprehensiveNewsTool) Description() string {
	return "Search for comprehensive news coverage across all categories (general, tech, business). " +
		"Input should be the topic to search for across all news categories."
}

func (t *ComprehensiveNewsTool) Call(ctx context.Context, input string) (string, error) {
	results := t.agg.Aggregate(ctx, input, []string{CategoryGeneral, CategoryTech, CategoryBusiness})

	var sb strings.Builder
	fmt.Fprintf(&sb, "# 📰 Comprehensive News Coverage: '%s'\n\n", input)
	fmt.Fprintf(&sb, "**Total Articles Found:** %d\n", results.TotalArticles)
	fmt.Fprintf(&sb, "**Search Time:** %s\n\n", results.Timestamp.Format("2006-01-02T15:04:05"))

	if results.General != nil && len(results.General.Tavily)+len(results.General.NewsAPI) > 0 {
		sb.WriteString("## 🌐 General News\n\n")
		writeTavilySection(&sb, "### 🔍 Web Search Results", results.General.Tavily, 3)
		writeArticleSection(&sb, "### 📰 News API Results", results.General.NewsAPI, 3)
	}
	if results.Technology != nil && len(results.Technology.TechSources) > 0 {
		sb.WriteString("## 💻 Technology News\n\n")
		writeArticleSection(&sb, "", results.Technology.TechSources, 3)
	}
	if results.Business != nil && len(results.Business.FinancialSources) > 0 {
		sb.WriteString("## 💼 Business News\n\n")
		writeArticleSection(&sb, "", results.Business.FinancialSources, 3)
	}

	return sb.String(), nil
}

// writeTavilySection renders up to limit Tavily results under the given
// heading. Content snippets are truncated to keep tool output compact.
func writeTavilySection(sb *strings.Builder, heading string, results []TavilyResult, limit int) {
	if len(results) == 0 {
		return
	}
	if heading != "" {
		sb.WriteString(heading + "\n\n")
	}
	for i, r := range results {
		if i >= limit {
			break
		}
		title := r.Title
		if title == "" {
			title = "No title"
		}
		content := r.Content
		if content == "" {
			content = "No content available"
		}
		fmt.Fprintf(sb, "### %d. %s\n\n", i+1, title)
		fmt.Fprintf(sb, "%s\n\n", truncate(content, 200))
		if r.URL != "" {
			fmt.Fprintf(sb, "**Source:** [%s](%s)\n\n", r.URL, r.URL)
		}
		sb.WriteString("---\n\n")
	}
}

// writeArticleSection renders up to limit NewsAPI articles under the given
// heading.
func writeArticleSection(sb *strings.Builder, heading string, articles []Article, limit int) {
	if len(articles) == 0 {
		return
	}
	if heading != "" {
		sb.WriteString(heading + "\n\n")
	}
	for i, a := range articles {
		if i >= limit {
			break
		}
		title := a.Title
		if title == "" {
			title = "No title"
		}
		description := a.Description
		if description == "" {
			description = "No description"
		}
		source := a.Source.Name
		if source == "" {
			source = "Unknown"
		}
		fmt.Fprintf(sb, "### %d. %s\n\n", i+1, title)
		fmt.Fprintf(sb, "%s\n\n", description)
		fmt.Fprintf(sb, "**Source:** %s\n", source)
		if a.PublishedAt != "" {
			fmt.Fprintf(sb, "**Published:** %s\n", a.PublishedAt)
		}
		if a.URL != "" {
			fmt.Fprintf(sb, "**Link:** [%s](%s)\n\n", a.URL, a.URL)
		}
		sb.WriteString("---\n\n")
	}
}

// truncate shortens s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
