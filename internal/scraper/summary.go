package scraper

import (
	"fmt"
	stdhtml "html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"

	"wordreel/internal/models"
)

// Summarizer extracts informational metadata from the rendered page
type Summarizer struct {
	sanitizer *bluemonday.Policy
}

func NewSummarizer() *Summarizer {
	return &Summarizer{
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Summarize returns the page title, a short excerpt and how often word
// appears in the article body. The returned summary is usable even when err is set.
func (s *Summarizer) Summarize(html, pageURL, word string) (models.PageSummary, error) {
	var summary models.PageSummary

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return summary, fmt.Errorf("failed to parse html: %w", err)
	}

	summary.Title = s.extractTitle(doc)

	u, err := url.Parse(pageURL)
	if err != nil {
		return summary, fmt.Errorf("invalid page url: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		summary.Excerpt = s.fallbackExcerpt(doc)
		return summary, fmt.Errorf("readability failed: %w", err)
	}

	if summary.Title == "" {
		summary.Title = s.clean(article.Title)
	}
	summary.Excerpt = Truncate(s.clean(article.Excerpt), MaxExcerptLen)
	if summary.Excerpt == "" {
		summary.Excerpt = s.fallbackExcerpt(doc)
	}
	summary.ArticleMatches = CountMatches(article.TextContent, word)

	return summary, nil
}

// extractTitle prefers the visible heading over the <title> tag
func (s *Summarizer) extractTitle(doc *goquery.Document) string {
	if title := s.clean(doc.Find(TitleSelectors).First().Text()); title != "" {
		return title
	}
	return s.clean(doc.Find("title").First().Text())
}

func (s *Summarizer) fallbackExcerpt(doc *goquery.Document) string {
	desc := FindMetaTag(doc, OGDescription, MetaDesc)
	if desc == "" {
		return ""
	}
	return Truncate(s.clean(desc), MaxExcerptLen)
}

func (s *Summarizer) clean(text string) string {
	// StrictPolicy escapes entities, undo that for plain text output
	return CleanWhitespace(stdhtml.UnescapeString(s.sanitizer.Sanitize(text)))
}

// FindMetaTag searches for a meta tag with the given property or name
func FindMetaTag(doc *goquery.Document, property, name string) string {
	var value string

	doc.Find("meta").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		content, ok := sel.Attr("content")
		if !ok {
			return true
		}
		if prop, exists := sel.Attr("property"); exists && property != "" && prop == property {
			value = strings.TrimSpace(content)
		} else if n, exists := sel.Attr("name"); exists && name != "" && n == name {
			value = strings.TrimSpace(content)
		}
		return value == ""
	})

	return value
}
