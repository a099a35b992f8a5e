// Package urlinfo summarizes lists of URLs into a markdown report.
//
// It recognizes Google Docs and Drive links (resolved through the Drive
// source when credentials are available) and fetches regular web pages
// directly, pulling a title and short description from each.
package urlinfo

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/hurttlocker/chatsift/internal/connect"
)

// Summary describes one analyzed URL.
type Summary struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// driveLookup resolves Drive file metadata. Satisfied by *connect.DriveProvider.
type driveLookup interface {
	FileInfo(ctx context.Context, accessToken, fileID string) (connect.Document, error)
}

// Analyzer fetches titles and summaries for URLs.
type Analyzer struct {
	client      *http.Client
	drive       driveLookup
	accessToken string
}

// NewAnalyzer returns an analyzer with a 10 second fetch timeout.
// Google links use the GOOGLE_ACCESS_TOKEN env var when set.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		drive:       &connect.DriveProvider{},
		accessToken: os.Getenv("GOOGLE_ACCESS_TOKEN"),
	}
}

// ReadList reads URLs from r, one per line. Blank lines and lines
// starting with # are skipped.
func ReadList(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading URL list: %w", err)
	}
	return urls, nil
}

// Analyze fetches a title and summary for one URL. It never fails:
// unreachable pages and missing credentials produce explanatory
// summaries instead of errors.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) Summary {
	rawURL = strings.TrimSpace(rawURL)
	switch {
	case isGoogleDocURL(rawURL):
		return a.googleDocSummary(ctx, rawURL)
	case isGoogleDriveURL(rawURL):
		return a.driveFileSummary(ctx, rawURL)
	default:
		return a.webPageSummary(ctx, rawURL)
	}
}

func isGoogleDocURL(u string) bool {
	return strings.Contains(u, "docs.google.com/document")
}

func isGoogleDriveURL(u string) bool {
	return strings.Contains(u, "drive.google.com")
}

var docIDPattern = regexp.MustCompile(`/document/d/([a-zA-Z0-9-_]+)`)

// driveIDPatterns cover the common Drive URL shapes. Order matters:
// the bare /d/ form also matches /file/d/ URLs.
var driveIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/file/d/([a-zA-Z0-9-_]+)`),
	regexp.MustCompile(`id=([a-zA-Z0-9-_]+)`),
	regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`),
}

func extractDocID(u string) string {
	if m := docIDPattern.FindStringSubmatch(u); m != nil {
		return m[1]
	}
	return ""
}

func extractDriveID(u string) string {
	for _, p := range driveIDPatterns {
		if m := p.FindStringSubmatch(u); m != nil {
			return m[1]
		}
	}
	return ""
}

func (a *Analyzer) googleDocSummary(ctx context.Context, rawURL string) Summary {
	docID := extractDocID(rawURL)
	if docID == "" {
		return Summary{
			URL:     rawURL,
			Title:   "Unknown Google Doc",
			Summary: "Could not extract document ID from URL.",
		}
	}
	if a.accessToken == "" {
		return Summary{
			URL:     rawURL,
			Title:   "Google Doc",
			Summary: "Google access not configured (set GOOGLE_ACCESS_TOKEN to resolve this link).",
		}
	}

	doc, err := a.drive.FileInfo(ctx, a.accessToken, docID)
	if err != nil {
		return Summary{
			URL:     rawURL,
			Title:   "Google Doc",
			Summary: fmt.Sprintf("Error accessing document: %v", err),
		}
	}

	content := strings.TrimSpace(doc.Content)
	summary := clip(strings.Join(strings.Fields(content), " "), 500)
	if summary == "" {
		summary = "Empty document."
	}
	return Summary{URL: rawURL, Title: doc.Name, Summary: summary}
}

func (a *Analyzer) driveFileSummary(ctx context.Context, rawURL string) Summary {
	fileID := extractDriveID(rawURL)
	if fileID == "" {
		return Summary{
			URL:     rawURL,
			Title:   "Unknown Drive File",
			Summary: "Could not extract file ID from URL.",
		}
	}
	if a.accessToken == "" {
		return Summary{
			URL:     rawURL,
			Title:   "Google Drive File",
			Summary: "Google access not configured (set GOOGLE_ACCESS_TOKEN to resolve this link).",
		}
	}

	doc, err := a.drive.FileInfo(ctx, a.accessToken, fileID)
	if err != nil {
		return Summary{
			URL:     rawURL,
			Title:   "Google Drive File",
			Summary: fmt.Sprintf("Error accessing file: %v", err),
		}
	}

	title := doc.Name
	if title == "" {
		title = "Untitled"
	}
	return Summary{URL: rawURL, Title: title, Summary: doc.Kind() + " file"}
}

// WriteReport writes a markdown report of the analyzed URLs.
func WriteReport(w io.Writer, summaries []Summary) error {
	var b strings.Builder
	b.WriteString("# URL Summary Report\n\n")
	fmt.Fprintf(&b, "*Generated: %s*\n\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Total URLs analyzed:** %d\n\n", len(summaries))
	b.WriteString("---\n\n")

	for i, s := range summaries {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, s.Title)
		fmt.Fprintf(&b, "**URL:** %s\n\n", s.URL)
		fmt.Fprintf(&b, "**Summary:** %s\n\n", s.Summary)
		b.WriteString("---\n\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// clip truncates s to max runes, appending "..." when content was cut.
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
