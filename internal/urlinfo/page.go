package urlinfo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// browserUA makes servers treat us like a regular browser; some sites
// return stripped-down pages to unknown clients.
const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// maxPageBytes caps how much of a page we parse.
const maxPageBytes = 2 << 20

func (a *Analyzer) webPageSummary(ctx context.Context, rawURL string) Summary {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Summary{URL: rawURL, Title: rawURL, Summary: fmt.Sprintf("Error fetching page: %v", err)}
	}
	req.Header.Set("User-Agent", browserUA)

	resp, err := a.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return Summary{URL: rawURL, Title: rawURL, Summary: "Request timed out."}
		}
		return Summary{URL: rawURL, Title: rawURL, Summary: fmt.Sprintf("Error fetching page: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Summary{URL: rawURL, Title: rawURL, Summary: fmt.Sprintf("Error fetching page: HTTP %d", resp.StatusCode)}
	}

	root, err := html.Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return Summary{URL: rawURL, Title: rawURL, Summary: fmt.Sprintf("Error parsing page: %v", err)}
	}

	title := pageTitle(root)
	if title == "" {
		title = "Untitled Page"
	}

	summary := pageDescription(root)
	if summary == "" {
		summary = "No description available."
	}

	return Summary{URL: rawURL, Title: title, Summary: summary}
}

// pageTitle returns the <title> text, falling back to the first <h1>.
func pageTitle(root *html.Node) string {
	if n := findFirst(root, func(n *html.Node) bool { return isElem(n, "title") }); n != nil {
		if title := strings.TrimSpace(nodeText(n)); title != "" {
			return title
		}
	}
	if n := findFirst(root, func(n *html.Node) bool { return isElem(n, "h1") }); n != nil {
		return strings.TrimSpace(nodeText(n))
	}
	return ""
}

// pageDescription prefers the meta description, then og:description,
// then the first paragraph longer than 50 characters.
func pageDescription(root *html.Node) string {
	meta := findFirst(root, func(n *html.Node) bool {
		return isElem(n, "meta") && attrVal(n, "name") == "description"
	})
	if meta == nil {
		meta = findFirst(root, func(n *html.Node) bool {
			return isElem(n, "meta") && attrVal(n, "property") == "og:description"
		})
	}
	if meta != nil {
		if content := strings.TrimSpace(attrVal(meta, "content")); content != "" {
			return content
		}
	}

	p := findFirst(root, func(n *html.Node) bool {
		return isElem(n, "p") && len(strings.TrimSpace(nodeText(n))) > 50
	})
	if p != nil {
		return clip(strings.TrimSpace(nodeText(p)), 500)
	}
	return ""
}

func isElem(n *html.Node, name string) bool {
	return n.Type == html.ElementNode && n.Data == name
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// findFirst returns the first node in document order matching pred.
func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// nodeText concatenates all text beneath n.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}
