package urlinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"
)

func testAnalyzer() *Analyzer {
	return &Analyzer{client: &http.Client{Timeout: 5 * time.Second}}
}

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestWebPageMetaDescription(t *testing.T) {
	server := serve(t, `<html><head>
		<title>My Page</title>
		<meta name="description" content="A concise description.">
	</head><body><p>ignored paragraph that is definitely long enough to qualify</p></body></html>`)

	s := testAnalyzer().Analyze(context.Background(), server.URL)
	if s.Title != "My Page" {
		t.Errorf("Title = %q, want My Page", s.Title)
	}
	if s.Summary != "A concise description." {
		t.Errorf("Summary = %q, want meta description", s.Summary)
	}
}

func TestWebPageOGDescription(t *testing.T) {
	server := serve(t, `<html><head>
		<title>OG Page</title>
		<meta property="og:description" content="Social description.">
	</head><body></body></html>`)

	s := testAnalyzer().Analyze(context.Background(), server.URL)
	if s.Summary != "Social description." {
		t.Errorf("Summary = %q, want og:description", s.Summary)
	}
}

func TestWebPageParagraphFallback(t *testing.T) {
	long := strings.Repeat("Interesting content sentence. ", 25)
	server := serve(t, `<html><head><title>T</title></head><body>
		<p>short</p>
		<p>`+long+`</p>
	</body></html>`)

	s := testAnalyzer().Analyze(context.Background(), server.URL)
	if !strings.HasPrefix(s.Summary, "Interesting content sentence.") {
		t.Errorf("Summary = %q, want first long paragraph", s.Summary)
	}
	if !strings.HasSuffix(s.Summary, "...") {
		t.Errorf("Summary not truncated: %d chars", len(s.Summary))
	}
	if len([]rune(s.Summary)) != 503 {
		t.Errorf("summary length = %d runes, want 503", len([]rune(s.Summary)))
	}
}

func TestWebPageTitleFallbackH1(t *testing.T) {
	server := serve(t, `<html><body><h1>Heading Title</h1></body></html>`)

	s := testAnalyzer().Analyze(context.Background(), server.URL)
	if s.Title != "Heading Title" {
		t.Errorf("Title = %q, want Heading Title", s.Title)
	}
}

func TestWebPageBare(t *testing.T) {
	server := serve(t, `<html><body><p>tiny</p></body></html>`)

	s := testAnalyzer().Analyze(context.Background(), server.URL)
	if s.Title != "Untitled Page" {
		t.Errorf("Title = %q, want Untitled Page", s.Title)
	}
	if s.Summary != "No description available." {
		t.Errorf("Summary = %q, want No description available.", s.Summary)
	}
}

func TestWebPageHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	s := testAnalyzer().Analyze(context.Background(), server.URL)
	if s.Title != server.URL {
		t.Errorf("Title = %q, want the URL itself", s.Title)
	}
	if !strings.Contains(s.Summary, "HTTP 404") {
		t.Errorf("Summary = %q, want HTTP 404", s.Summary)
	}
}

func TestWebPageUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	s := testAnalyzer().Analyze(context.Background(), server.URL)
	if !strings.Contains(s.Summary, "Error fetching page") && s.Summary != "Request timed out." {
		t.Errorf("Summary = %q, want fetch error", s.Summary)
	}
}

func TestWebPageSendsBrowserUA(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`<html><head><title>x</title></head></html>`))
	}))
	defer server.Close()

	testAnalyzer().Analyze(context.Background(), server.URL)
	if !strings.Contains(gotUA, "Mozilla/5.0") {
		t.Errorf("User-Agent = %q, want browser UA", gotUA)
	}
}

func TestPageDescriptionEmptyMetaSkipsOG(t *testing.T) {
	// A present-but-empty meta description blocks the og:description
	// lookup; the search moves straight to paragraphs.
	doc := `<html><head>
		<meta name="description" content="">
		<meta property="og:description" content="og text">
	</head><body><p>` + strings.Repeat("body text ", 10) + `</p></body></html>`

	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	got := pageDescription(root)
	if strings.Contains(got, "og text") {
		t.Errorf("pageDescription = %q, should not fall back to og:description", got)
	}
	if !strings.HasPrefix(got, "body text") {
		t.Errorf("pageDescription = %q, want paragraph fallback", got)
	}
}
