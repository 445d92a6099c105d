// Package htmlparser extracts titles, visible text, keywords, and
// links from HTML documents.
package htmlparser

import (
	"bytes"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/cametumbling/crawlindex/internal/crawler"
)

const maxKeywords = 10

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Parser extracts structured content from HTML bodies.
type Parser struct{}

// New returns a ready-to-use Parser. It holds no state: extraction is a
// pure function of the body and page URL.
func New() *Parser {
	return &Parser{}
}

// Parse implements crawler.Parser.
func (p *Parser) Parse(body []byte, pageURL string) (crawler.ParseOutcome, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return crawler.ParseOutcome{}, err
	}

	var title string
	var text strings.Builder
	var links []string
	titleSet := false

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if !titleSet {
					title = collectText(n)
					titleSet = true
				}
				return
			case "a":
				for _, attr := range n.Attr {
					if attr.Key == "href" {
						links = append(links, attr.Val)
						break
					}
				}
			}
		}
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
			text.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return crawler.ParseOutcome{
		Title:    strings.TrimSpace(title),
		Text:     collapseWhitespace(text.String()),
		Keywords: extractKeywords(text.String()),
		Links:    links,
	}, nil
}

// collectText concatenates the text-node descendants of n, skipping
// script/style/noscript subtrees.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type keywordCount struct {
	word  string
	count int
	first int
}

// extractKeywords returns the ten most frequent tokens of length ≥3,
// lowercased and alphanumeric-only, excluding stopWords. Ties are
// broken by first-occurrence order.
func extractKeywords(text string) []string {
	lower := strings.ToLower(text)
	tokens := tokenPattern.FindAllString(lower, -1)

	counts := make(map[string]*keywordCount)
	order := 0
	for _, tok := range tokens {
		if len(tok) < 3 || stopWords[tok] {
			continue
		}
		kc, ok := counts[tok]
		if !ok {
			kc = &keywordCount{word: tok, first: order}
			counts[tok] = kc
			order++
		}
		kc.count++
	}

	list := make([]keywordCount, 0, len(counts))
	for _, kc := range counts {
		list = append(list, *kc)
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].first < list[j].first
	})

	if len(list) > maxKeywords {
		list = list[:maxKeywords]
	}

	out := make([]string, len(list))
	for i, kc := range list {
		out[i] = kc.word
	}
	return out
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "her": true,
	"was": true, "one": true, "our": true, "out": true, "day": true,
	"get": true, "has": true, "him": true, "his": true, "how": true,
	"man": true, "new": true, "now": true, "old": true, "see": true,
	"two": true, "way": true, "who": true, "boy": true, "did": true,
	"its": true, "let": true, "put": true, "say": true, "she": true,
	"too": true, "use": true, "with": true, "that": true, "this": true,
	"have": true, "from": true, "they": true, "will": true, "would": true,
	"there": true, "their": true, "what": true, "about": true, "which": true,
	"when": true, "make": true, "like": true, "time": true, "just": true,
	"into": true, "than": true, "then": true, "them": true, "these": true,
	"some": true, "could": true, "other": true, "after": true, "also": true,
	"were": true, "been": true, "more": true, "such": true, "only": true,
	"your": true, "here": true,
}
