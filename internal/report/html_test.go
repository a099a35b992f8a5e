package report

import (
	"strings"
	"testing"

	"github.com/hurttlocker/chatsift/internal/refine"
)

func TestFormatActionsHTML(t *testing.T) {
	actions := []refine.Action{
		{IsAction: true, Action: "Ship <b>now</b>", Priority: "high", Status: "assigned", Responsible: "Ana", Date: "15/01/2024", Time: "10:00", Sender: "Ana", Content: "ship it"},
		{IsAction: true, Action: "Review budget", Date: "02/01/2024", Time: "09:00"},
		{IsAction: true, Action: "Broken", Error: "chunk failed", Date: "02/01/2024"},
	}

	out, err := FormatActionsHTML(actions)
	if err != nil {
		t.Fatalf("FormatActionsHTML() error: %v", err)
	}
	if !strings.Contains(out, "<title>Action Items - AI Analysis</title>") {
		t.Errorf("missing page title:\n%s", out)
	}
	if !strings.Contains(out, "Total: 2 actions") {
		t.Errorf("failed items should not count:\n%s", out)
	}
	if !strings.Contains(out, `action-card priority-high`) {
		t.Errorf("missing priority class:\n%s", out)
	}
	if !strings.Contains(out, `badge status-assigned`) {
		t.Errorf("missing status badge class:\n%s", out)
	}
	// Model output is untrusted.
	if strings.Contains(out, "<b>now</b>") {
		t.Errorf("action text not escaped:\n%s", out)
	}
	if !strings.Contains(out, "Ship &lt;b&gt;now&lt;/b&gt;") {
		t.Errorf("expected escaped action text:\n%s", out)
	}
	if strings.Index(out, "02/01/2024") > strings.Index(out, "15/01/2024") {
		t.Errorf("dates not chronological:\n%s", out)
	}
}

func TestFormatActionsHTML_Empty(t *testing.T) {
	out, err := FormatActionsHTML(nil)
	if err != nil {
		t.Fatalf("FormatActionsHTML() error: %v", err)
	}
	if !strings.Contains(out, "No action items found in this chat.") {
		t.Errorf("missing empty message:\n%s", out)
	}
	if !strings.Contains(out, "Total: 0 actions") {
		t.Errorf("missing zero count:\n%s", out)
	}
}

func TestFormatLinksHTML(t *testing.T) {
	links := []refine.Link{
		{URL: "https://example.com/doc", Description: "Design doc", SharedBy: "Ana", Date: "15/01/2024", Time: "10:00", FullMessage: "here is the doc https://example.com/doc", Title: "Q1 Design", Summary: "Plans for the first quarter."},
		{URL: "https://example.com/x", Date: "15/01/2024", Time: "11:00", Context: "shared after standup"},
	}

	out, err := FormatLinksHTML(links)
	if err != nil {
		t.Fatalf("FormatLinksHTML() error: %v", err)
	}
	if !strings.Contains(out, `<a href="https://example.com/doc" target="_blank" class="link-url">`) {
		t.Errorf("missing clickable link:\n%s", out)
	}
	if !strings.Contains(out, "📄 Content: Q1 Design") {
		t.Errorf("missing page info box:\n%s", out)
	}
	if !strings.Contains(out, "Plans for the first quarter.") {
		t.Errorf("missing page summary:\n%s", out)
	}
	// Second link has no fetched page info, so exactly one box.
	if strings.Count(out, "📄 Content:") != 1 {
		t.Errorf("expected one content box:\n%s", out)
	}
	// Context stands in for the full message when absent.
	if !strings.Contains(out, "shared after standup") {
		t.Errorf("missing context fallback:\n%s", out)
	}
}

func TestFormatQuestionsHTML(t *testing.T) {
	questions := []refine.Question{
		{Question: "When is the deadline?", AskedBy: "Ana", Answered: true, Answer: "Friday EOD", Date: "15/01/2024"},
		{Question: "Who owns the migration?", Date: "15/01/2024"},
	}

	out, err := FormatQuestionsHTML(questions)
	if err != nil {
		t.Fatalf("FormatQuestionsHTML() error: %v", err)
	}
	if !strings.Contains(out, `question-card answered`) {
		t.Errorf("missing answered class:\n%s", out)
	}
	if !strings.Contains(out, `question-card unanswered`) {
		t.Errorf("missing unanswered class:\n%s", out)
	}
	if !strings.Contains(out, "Friday EOD") {
		t.Errorf("missing answer box content:\n%s", out)
	}
	if strings.Count(out, "answer-box") != 1 {
		t.Errorf("expected one answer box:\n%s", out)
	}
}

func TestFormatCheckInsHTML(t *testing.T) {
	checkins := []refine.CheckIn{
		{Person: "Ana", Date: "15/01/2024", Time: "09:00", Score: "8/10", Comments: "feeling good"},
		{Person: "Ana", Date: "16/01/2024", Time: "09:02", Score: "6/10"},
		{Person: "Ben", Date: "15/01/2024", Time: "09:05", Score: "4"},
	}

	out, err := FormatCheckInsHTML(checkins)
	if err != nil {
		t.Fatalf("FormatCheckInsHTML() error: %v", err)
	}
	if !strings.Contains(out, "Mood Trends Over Time") {
		t.Errorf("missing page title:\n%s", out)
	}
	// Chart data serializes into the script block.
	if !strings.Contains(out, `"raw_score":"8/10"`) {
		t.Errorf("missing raw score in chart data:\n%s", out)
	}
	if !strings.Contains(out, `"score":4`) {
		t.Errorf("bare numeric score should parse:\n%s", out)
	}
	if !strings.Contains(out, `"date":"15/01"`) {
		t.Errorf("display dates should drop the year:\n%s", out)
	}
	if !strings.Contains(out, `"comments":"No comments"`) {
		t.Errorf("missing comments default:\n%s", out)
	}
	// First person gets the first palette color.
	if !strings.Contains(out, "#5B8FF9") {
		t.Errorf("missing palette color:\n%s", out)
	}
	if !strings.Contains(out, "#9966CC") {
		t.Errorf("second person should get second color:\n%s", out)
	}
}

func TestFormatCheckInsHTML_YearBoundaryAxisOrder(t *testing.T) {
	checkins := []refine.CheckIn{
		{Person: "Ana", Date: "02/01/2025", Time: "09:00", Score: "7/10"},
		{Person: "Ana", Date: "30/12/2024", Time: "09:05", Score: "8/10"},
	}

	out, err := FormatCheckInsHTML(checkins)
	if err != nil {
		t.Fatalf("FormatCheckInsHTML() error: %v", err)
	}

	// Axis labels drop the year but must still order on the full date,
	// so late December precedes early January.
	if !strings.Contains(out, `["30/12","02/01"]`) {
		t.Errorf("axis dates should stay chronological across the year boundary:\n%s", out)
	}
}

func TestDisplayDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"15/01/2024", "15/01"},
		{"15/01", "15/01"},
		{"2024-01-15", "2024-01-15"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := displayDate(tt.in); got != tt.want {
			t.Errorf("displayDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMarkdownHTML(t *testing.T) {
	out, err := FormatMarkdownHTML("Deadlines - AI Analysis", "# Report\n\n- item <script>")
	if err != nil {
		t.Fatalf("FormatMarkdownHTML() error: %v", err)
	}
	if !strings.Contains(out, "<title>Deadlines - AI Analysis</title>") {
		t.Errorf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "<pre># Report") {
		t.Errorf("missing markdown body:\n%s", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("markdown not escaped:\n%s", out)
	}
}
