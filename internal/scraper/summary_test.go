package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wikiPage(title, heading string, paragraphs ...string) string {
	var b strings.Builder
	b.WriteString("<html><head><title>" + title + "</title>")
	b.WriteString(`<meta property="og:description" content="A country in Western Europe &amp; more">`)
	b.WriteString("</head><body><div id=\"content\">")
	if heading != "" {
		b.WriteString(`<h1 id="firstHeading">` + heading + "</h1>")
	}
	b.WriteString(`<div id="bodyContent"><div class="mw-parser-output">`)
	for _, p := range paragraphs {
		b.WriteString("<p>" + p + "</p>")
	}
	b.WriteString("</div></div></div></body></html>")
	return b.String()
}

func TestSummarize(t *testing.T) {
	para := "France is a country whose capital is Paris. The city of Paris lies on the Seine, " +
		"and Paris has been a major centre of finance, diplomacy, commerce, culture, fashion and gastronomy for centuries. "
	html := wikiPage("France - Wikipedia", "France <i>(country)</i>",
		strings.Repeat(para, 4), strings.Repeat(para, 4), strings.Repeat(para, 4))

	summary, err := NewSummarizer().Summarize(html, "https://en.wikipedia.org/wiki/France", "paris")
	require.NoError(t, err)

	assert.Equal(t, "France (country)", summary.Title)
	assert.NotEmpty(t, summary.Excerpt)
	assert.LessOrEqual(t, len([]rune(summary.Excerpt)), MaxExcerptLen+3)
	assert.Greater(t, summary.ArticleMatches, 0)
}

func TestSummarizeFallsBackToTitleTag(t *testing.T) {
	html := wikiPage("Lyon - Wikipedia", "", strings.Repeat("Lyon is a city in France. ", 40))

	summary, err := NewSummarizer().Summarize(html, "https://en.wikipedia.org/wiki/Lyon", "Lyon")
	require.NoError(t, err)
	assert.Equal(t, "Lyon - Wikipedia", summary.Title)
}

func TestSummarizeInvalidURL(t *testing.T) {
	html := wikiPage("Lyon - Wikipedia", "Lyon")

	summary, err := NewSummarizer().Summarize(html, "://bad", "Lyon")
	require.Error(t, err)
	assert.Equal(t, "Lyon", summary.Title)
}

func TestFindMetaTag(t *testing.T) {
	html := `<html><head>
		<meta name="description" content=" plain description ">
		<meta property="og:description" content="open graph">
	</head><body></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, "plain description", FindMetaTag(doc, "", MetaDesc))
	assert.Equal(t, "open graph", FindMetaTag(doc, OGDescription, ""))
	assert.Equal(t, "plain description", FindMetaTag(doc, OGDescription, MetaDesc))
	assert.Equal(t, "", FindMetaTag(doc, "og:title", "title"))
}
