package knowledge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const fetchLimit = 1 << 20 // 1 MB per page

// fetchPageText downloads a web hit and extracts its readable body text.
// Returns the fallback snippet when fetching or extraction fails, so the
// web fallback never depends on a page being parseable.
func fetchPageText(ctx context.Context, urlStr, fallbackSnippet string) string {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return fallbackSnippet
	}
	req.Header.Set("User-Agent", "fitvoice/1.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fallbackSnippet
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fallbackSnippet
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, fetchLimit))
	if err != nil {
		return fallbackSnippet
	}

	// Readability first; it handles article pages well.
	if parsed, perr := url.Parse(urlStr); perr == nil {
		article, aerr := readability.FromReader(strings.NewReader(string(body)), parsed)
		if aerr == nil && len(article.TextContent) >= 200 {
			return truncateText(collapseWhitespace(article.TextContent), 2000)
		}
	}

	// Fall back to stripping boilerplate ourselves.
	text := extractReadableText(string(body))
	if len(text) < 200 {
		return fallbackSnippet
	}
	return truncateText(text, 2000)
}

// extractReadableText extracts visible text content from HTML, removing
// headers, navs, footers and common ad/promo containers.
func extractReadableText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		re := regexp.MustCompile(`<[^>]+>`)
		return collapseWhitespace(re.ReplaceAllString(html, " "))
	}

	doc.Find("header, nav, footer, aside, script, style, noscript, svg, menu, form").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	junkPatterns := []string{"nav", "menu", "header", "footer", "sidebar", "banner", "cookie", "ad", "promo", "share", "modal", "popup"}
	for _, pattern := range junkPatterns {
		doc.Find(fmt.Sprintf("[class*=%q], [id*=%q]", pattern, pattern)).Each(func(_ int, s *goquery.Selection) {
			s.Remove()
		})
	}

	var parts []string
	doc.Find("article, main, section, p").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if len(t) > 40 {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return collapseWhitespace(doc.Text())
	}
	return collapseWhitespace(strings.Join(parts, " "))
}

var whitespacePattern = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}
