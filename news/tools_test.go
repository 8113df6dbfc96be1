package news

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/newsagent/config"
)

func TestToolNames(t *testing.T) {
	agg := NewAggregatorWithoutBackends(config.Default().News)

	var names []string
	for _, tool := range Tools(agg) {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{
		"search_general_news",
		"search_technology_news",
		"search_business_news",
		"search_comprehensive_news",
	}, names)
}

func TestToolsReportNoResultsWithoutBackends(t *testing.T) {
	agg := NewAggregatorWithoutBackends(config.Default().News)
	ctx := context.Background()

	for _, tc := range []struct {
		tool string
		want string
	}{
		{"search_general_news", "No general news found for 'AI'"},
		{"search_technology_news", "No technology news found for 'AI'"},
		{"search_business_news", "No business news found for 'AI'"},
	} {
		for _, tool := range Tools(agg) {
			if tool.Name() != tc.tool {
				continue
			}
			out, err := tool.Call(ctx, "AI")
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		}
	}
}

func TestGeneralNewsToolFormatting(t *testing.T) {
	agg := testAggregator(t, sampleTavilyResults(), sampleArticles())

	tool := Tools(agg)[0]
	out, err := tool.Call(context.Background(), "AI")
	require.NoError(t, err)

	assert.Contains(t, out, "# 📰 General News about 'AI'")
	assert.Contains(t, out, "## 🔍 Web Search Results")
	assert.Contains(t, out, "## 📰 News API Results")
	assert.Contains(t, out, "AI breakthrough")
	assert.Contains(t, out, "[https://example.com/a](https://example.com/a)")
}

func TestTechnologyNewsToolFormatting(t *testing.T) {
	agg := testAggregator(t, sampleTavilyResults(), sampleArticles())

	tool := Tools(agg)[1]
	out, err := tool.Call(context.Background(), "chips")
	require.NoError(t, err)

	assert.Contains(t, out, "# 💻 Technology News about 'chips'")
	assert.Contains(t, out, "## 🔧 Tech Sources")
	assert.Contains(t, out, "## 💼 LinkedIn Insights")
	assert.Contains(t, out, "## 📝 Medium Articles")
	assert.Contains(t, out, "TechCrunch")
}

func TestComprehensiveToolReportsTotal(t *testing.T) {
	agg := testAggregator(t, sampleTavilyResults(), sampleArticles())

	result := agg.Aggregate(context.Background(), "AI", nil)

	tool := Tools(agg)[3]
	out, err := tool.Call(context.Background(), "AI")
	require.NoError(t, err)

	assert.Contains(t, out, "# 📰 Comprehensive News Coverage: 'AI'")
	assert.Contains(t, out, fmt.Sprintf("**Total Articles Found:** %d", result.TotalArticles))
	assert.Contains(t, out, "**Search Time:**")
	assert.Contains(t, out, "## 🌐 General News")
	assert.Contains(t, out, "## 💻 Technology News")
	assert.Contains(t, out, "## 💼 Business News")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 200))

	long := strings.Repeat("é", 300)
	got := truncate(long, 200)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, 203, len([]rune(got)))
}
