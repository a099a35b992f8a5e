package report

import (
	"strings"
	"testing"

	"github.com/hurttlocker/chatsift/internal/refine"
)

func TestFormatActions_GroupsAndDefaults(t *testing.T) {
	actions := []refine.Action{
		{IsAction: true, Action: "Ship the draft", Responsible: "Ana", Deadline: "Friday", Status: "assigned", Priority: "high", Date: "15/01/2024", Time: "10:00", Sender: "Ana", Content: "please ship the draft by Friday"},
		{IsAction: true, Action: "Review budget", Date: "02/01/2024", Time: "09:00", Content: "we need to review the budget"},
		{IsAction: false, Action: "Not really", Date: "02/01/2024"},
		{IsAction: true, Action: "From failed chunk", Error: "chunk failed", Date: "02/01/2024"},
	}

	out := FormatActions(actions)
	if !strings.Contains(out, "# Action Items (AI-Analyzed)") {
		t.Errorf("missing title:\n%s", out)
	}
	// Rejected and failed items do not count.
	if !strings.Contains(out, "*Total actions found: 2*") {
		t.Errorf("expected 2 counted actions:\n%s", out)
	}
	if !strings.Contains(out, "### 🔴 📋 Ship the draft") {
		t.Errorf("missing high/assigned heading:\n%s", out)
	}
	if !strings.Contains(out, "- **Deadline**: Friday") {
		t.Errorf("missing deadline line:\n%s", out)
	}
	if !strings.Contains(out, "### 🟡 💬 Review budget") {
		t.Errorf("defaults should be medium/mentioned:\n%s", out)
	}
	if !strings.Contains(out, "- **Who**: unspecified") {
		t.Errorf("missing responsible default:\n%s", out)
	}
	if !strings.Contains(out, "- **Original**: _please ship the draft by Friday..._") {
		t.Errorf("missing original line:\n%s", out)
	}
	if strings.Contains(out, "Not really") || strings.Contains(out, "From failed chunk") {
		t.Errorf("rejected items leaked into output:\n%s", out)
	}
	if strings.Index(out, "## 02/01/2024") > strings.Index(out, "## 15/01/2024") {
		t.Errorf("dates not chronological:\n%s", out)
	}
}

func TestFormatActions_Empty(t *testing.T) {
	out := FormatActions(nil)
	if !strings.Contains(out, "*Total actions found: 0*") {
		t.Errorf("missing zero count:\n%s", out)
	}
	if !strings.Contains(out, "_No action items found in this chat._") {
		t.Errorf("missing empty message:\n%s", out)
	}
}

func TestFormatActions_SkipsEmptyDescriptions(t *testing.T) {
	actions := []refine.Action{
		{IsAction: true, Action: "   ", Date: "15/01/2024"},
		{IsAction: true, Action: "No action described", Date: "15/01/2024"},
	}

	out := FormatActions(actions)
	// Counted but not rendered.
	if !strings.Contains(out, "*Total actions found: 2*") {
		t.Errorf("skipped items should still count:\n%s", out)
	}
	if strings.Contains(out, "###") {
		t.Errorf("no headings expected for empty descriptions:\n%s", out)
	}
}

func TestFormatLinks(t *testing.T) {
	links := []refine.Link{
		{URL: "https://example.com/doc", Description: "Design doc", SharedBy: "Ana", Date: "15/01/2024", Time: "10:00", Context: "shared during standup"},
		{URL: "https://example.com/x", Date: "15/01/2024", Time: "11:00"},
	}

	out := FormatLinks(links)
	if !strings.Contains(out, "# URLs & Links (AI-Analyzed)") {
		t.Errorf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "*Total links found: 2*") {
		t.Errorf("missing count:\n%s", out)
	}
	if !strings.Contains(out, "### 🔗 Design doc") {
		t.Errorf("missing described link:\n%s", out)
	}
	if !strings.Contains(out, "### 🔗 No description") {
		t.Errorf("missing description default:\n%s", out)
	}
	if !strings.Contains(out, "- **Shared by**: Unknown at 11:00") {
		t.Errorf("missing sharer default:\n%s", out)
	}
	if !strings.Contains(out, "- **Context**: No context available") {
		t.Errorf("missing context default:\n%s", out)
	}
}

func TestFormatDecisions_NumberedWithConfidence(t *testing.T) {
	decisions := []refine.Decision{
		{Decision: "Go with option B", Confidence: "high", Participants: []string{"Ana", "Ben"}, Date: "15/01/2024", Time: "10:00"},
		{Decision: "Postpone launch"},
	}

	out := FormatDecisions(decisions)
	if !strings.Contains(out, "# Decisions Made (AI-Analyzed)") {
		t.Errorf("missing title:\n%s", out)
	}
	// High confidence gets the green marker, unlike priorities.
	if !strings.Contains(out, "## 1. 🟢 Go with option B") {
		t.Errorf("missing first decision heading:\n%s", out)
	}
	if !strings.Contains(out, "## 2. 🟡 Postpone launch") {
		t.Errorf("confidence should default to medium:\n%s", out)
	}
	if !strings.Contains(out, "- **Participants**: Ana, Ben") {
		t.Errorf("missing participants:\n%s", out)
	}
	if !strings.Contains(out, "- **Date**: Unknown at \n") {
		t.Errorf("missing date default:\n%s", out)
	}
}

func TestFormatQuestions(t *testing.T) {
	questions := []refine.Question{
		{Question: "When is the deadline?", AskedBy: "Ana", Category: "logistics", Answered: true, Answer: "Friday EOD", Date: "15/01/2024"},
		{Question: "Who owns the migration?", Date: "15/01/2024"},
		{Question: "  ", Date: "15/01/2024"},
	}

	out := FormatQuestions(questions)
	if !strings.Contains(out, "*Total questions found: 3*") {
		t.Errorf("missing count:\n%s", out)
	}
	if !strings.Contains(out, "### ✅ When is the deadline?") {
		t.Errorf("missing answered heading:\n%s", out)
	}
	if !strings.Contains(out, "- **Answer**: Friday EOD") {
		t.Errorf("missing answer line:\n%s", out)
	}
	if !strings.Contains(out, "### ❓ Who owns the migration?") {
		t.Errorf("missing unanswered heading:\n%s", out)
	}
	if !strings.Contains(out, "- **Status**: Unanswered") {
		t.Errorf("missing unanswered status:\n%s", out)
	}
	if !strings.Contains(out, "- **Category**: general") {
		t.Errorf("missing category default:\n%s", out)
	}
}

func TestFormatCheckIns(t *testing.T) {
	checkins := []refine.CheckIn{
		{Person: "Ana", Date: "15/01/2024", Time: "09:00", Score: "8/10", Comments: "feeling good"},
		{Person: "Ben", Date: "15/01/2024", Time: "09:05", Score: "5/10"},
		{Person: "Cam", Date: "15/01/2024", Time: "09:10", Score: "3/10", Comments: "rough night"},
		{Person: "Dee", Date: "15/01/2024", Time: "09:15", Score: "great"},
	}

	out := FormatCheckIns(checkins)
	if !strings.Contains(out, "# Daily Check-ins (AI-Analyzed)") {
		t.Errorf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "### 😊 Ana - 8/10") {
		t.Errorf("missing happy check-in:\n%s", out)
	}
	if !strings.Contains(out, "### 😐 Ben - 5/10") {
		t.Errorf("missing neutral check-in:\n%s", out)
	}
	if !strings.Contains(out, "### 😔 Cam - 3/10") {
		t.Errorf("missing low check-in:\n%s", out)
	}
	if !strings.Contains(out, "### 📊 Dee - great") {
		t.Errorf("non-numeric score should get chart marker:\n%s", out)
	}
	if !strings.Contains(out, "- **Comments**: No comments") {
		t.Errorf("missing comments default:\n%s", out)
	}
}

func TestFormatGeneric(t *testing.T) {
	items := []refine.Item{
		{"topic": "birthday", "url": "https://example.com/?a=1&b=2"},
	}

	out := FormatGeneric(items, "celebrations")
	if !strings.Contains(out, "# Celebrations (AI-Analyzed)") {
		t.Errorf("missing title-cased heading:\n%s", out)
	}
	if !strings.Contains(out, "## Item 1") {
		t.Errorf("missing item heading:\n%s", out)
	}
	if !strings.Contains(out, "```json") {
		t.Errorf("missing fenced block:\n%s", out)
	}
	if !strings.Contains(out, `"topic": "birthday"`) {
		t.Errorf("missing item payload:\n%s", out)
	}
	if strings.Contains(out, `&`) {
		t.Errorf("URL should not be HTML-escaped:\n%s", out)
	}
}

func TestMoodEmoji(t *testing.T) {
	tests := []struct {
		score string
		want  string
	}{
		{"8/10", "😊"},
		{"10/10", "😊"},
		{"5/10", "😐"},
		{"7", "😐"},
		{"4/10", "😔"},
		{"0/10", "😔"},
		{"", "📊"},
		{"great", "📊"},
	}
	for _, tt := range tests {
		if got := moodEmoji(tt.score); got != tt.want {
			t.Errorf("moodEmoji(%q) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
