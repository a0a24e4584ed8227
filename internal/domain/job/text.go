package job

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText renders a rich-text field (editor HTML) as single-spaced text.
// Block elements become line breaks so lists stay readable in a terminal.
func PlainText(html string) string {
	html = strings.TrimSpace(html)
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, li, h1, h2, h3, h4, div").Each(func(_ int, s *goquery.Selection) {
		if s.Is("li") {
			s.PrependHtml("- ")
		}
		s.AppendHtml("\n")
	})

	lines := strings.Split(doc.Text(), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.Join(strings.Fields(l), " ")
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

// Summary is the one-line preview used in listings.
func Summary(html string, max int) string {
	s := strings.ReplaceAll(PlainText(html), "\n", " ")
	if max <= 0 || len([]rune(s)) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max])) + "…"
}
