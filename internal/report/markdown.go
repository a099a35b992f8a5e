package report

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/hurttlocker/chatsift/internal/refine"
)

// FormatActions renders refined action items as markdown grouped by
// date. Items the model rejected (is_action false) and failed chunks
// are dropped before counting.
func FormatActions(actions []refine.Action) string {
	real := make([]refine.Action, 0, len(actions))
	for _, a := range actions {
		if a.IsAction && a.Error == "" {
			real = append(real, a)
		}
	}

	var b strings.Builder
	b.WriteString("# Action Items (AI-Analyzed)\n\n")
	fmt.Fprintf(&b, "*Total actions found: %d*\n\n", len(real))
	b.WriteString("---\n\n")

	if len(real) == 0 {
		b.WriteString("_No action items found in this chat._\n")
		return b.String()
	}

	dates, byDate := groupByDate(real, func(a refine.Action) string { return a.Date })
	for _, date := range dates {
		fmt.Fprintf(&b, "## %s\n\n", date)
		for _, a := range byDate[date] {
			action := strings.TrimSpace(a.Action)
			if action == "" || action == "No action described" {
				continue
			}
			status := cmp.Or(a.Status, "mentioned")
			priority := cmp.Or(a.Priority, "medium")

			fmt.Fprintf(&b, "### %s %s %s\n\n", priorityEmoji(priority), statusEmoji(status), action)
			fmt.Fprintf(&b, "- **Who**: %s\n", cmp.Or(a.Responsible, "unspecified"))
			if a.Deadline != "" {
				fmt.Fprintf(&b, "- **Deadline**: %s\n", a.Deadline)
			}
			fmt.Fprintf(&b, "- **Status**: %s\n", status)
			fmt.Fprintf(&b, "- **Priority**: %s\n", priority)
			fmt.Fprintf(&b, "- **Mentioned by**: %s at %s\n", cmp.Or(a.Sender, "Unknown"), a.Time)
			fmt.Fprintf(&b, "- **Original**: _%s..._\n\n", clip(a.Content, 200))
		}
	}
	return b.String()
}

// FormatLinks renders refined links as markdown grouped by date.
func FormatLinks(links []refine.Link) string {
	var b strings.Builder
	b.WriteString("# URLs & Links (AI-Analyzed)\n\n")
	fmt.Fprintf(&b, "*Total links found: %d*\n\n", len(links))
	b.WriteString("---\n\n")

	dates, byDate := groupByDate(links, func(l refine.Link) string { return l.Date })
	for _, date := range dates {
		fmt.Fprintf(&b, "## %s\n\n", date)
		for _, l := range byDate[date] {
			fmt.Fprintf(&b, "### 🔗 %s\n\n", cmp.Or(l.Description, "No description"))
			fmt.Fprintf(&b, "- **URL**: %s\n", l.URL)
			fmt.Fprintf(&b, "- **Shared by**: %s at %s\n", cmp.Or(l.SharedBy, "Unknown"), l.Time)
			fmt.Fprintf(&b, "- **Context**: %s\n\n", cmp.Or(l.Context, "No context available"))
		}
	}
	return b.String()
}

// FormatDecisions renders refined decisions as a numbered markdown
// list, most confident marker first on each heading.
func FormatDecisions(decisions []refine.Decision) string {
	var b strings.Builder
	b.WriteString("# Decisions Made (AI-Analyzed)\n\n")
	fmt.Fprintf(&b, "*Total decisions found: %d*\n\n", len(decisions))
	b.WriteString("---\n\n")

	for i, d := range decisions {
		confidence := cmp.Or(d.Confidence, "medium")
		fmt.Fprintf(&b, "## %d. %s %s\n\n", i+1, confidenceEmoji(confidence), cmp.Or(d.Decision, "No decision described"))
		fmt.Fprintf(&b, "- **Confidence**: %s\n", confidence)
		fmt.Fprintf(&b, "- **Participants**: %s\n", strings.Join(d.Participants, ", "))
		fmt.Fprintf(&b, "- **Date**: %s at %s\n\n", cmp.Or(d.Date, "Unknown"), d.Time)
	}
	return b.String()
}

// FormatQuestions renders refined questions as markdown grouped by
// date, answered ones carrying their answer.
func FormatQuestions(questions []refine.Question) string {
	var b strings.Builder
	b.WriteString("# Questions (AI-Analyzed)\n\n")
	fmt.Fprintf(&b, "*Total questions found: %d*\n\n", len(questions))
	b.WriteString("---\n\n")

	dates, byDate := groupByDate(questions, func(q refine.Question) string { return q.Date })
	for _, date := range dates {
		fmt.Fprintf(&b, "## %s\n\n", date)
		for _, q := range byDate[date] {
			question := strings.TrimSpace(q.Question)
			if question == "" {
				continue
			}
			marker := "❓"
			if q.Answered {
				marker = "✅"
			}
			fmt.Fprintf(&b, "### %s %s\n\n", marker, question)
			fmt.Fprintf(&b, "- **Asked by**: %s\n", cmp.Or(q.AskedBy, "Unknown"))
			fmt.Fprintf(&b, "- **Category**: %s\n", cmp.Or(q.Category, "general"))
			if q.Answered {
				b.WriteString("- **Status**: Answered\n")
				if q.Answer != "" {
					fmt.Fprintf(&b, "- **Answer**: %s\n", q.Answer)
				}
			} else {
				b.WriteString("- **Status**: Unanswered\n")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatCheckIns renders refined check-ins as markdown grouped by
// date with a mood marker derived from the score.
func FormatCheckIns(checkins []refine.CheckIn) string {
	var b strings.Builder
	b.WriteString("# Daily Check-ins (AI-Analyzed)\n\n")
	fmt.Fprintf(&b, "*Total check-ins found: %d*\n\n", len(checkins))
	b.WriteString("---\n\n")

	dates, byDate := groupByDate(checkins, func(c refine.CheckIn) string { return c.Date })
	for _, date := range dates {
		fmt.Fprintf(&b, "## %s\n\n", date)
		for _, c := range byDate[date] {
			fmt.Fprintf(&b, "### %s %s - %s\n\n", moodEmoji(c.Score), cmp.Or(c.Person, "Unknown"), cmp.Or(c.Score, "N/A"))
			fmt.Fprintf(&b, "- **Time**: %s\n", cmp.Or(c.Time, "Unknown"))
			fmt.Fprintf(&b, "- **Mood**: %s\n", cmp.Or(c.Score, "N/A"))
			fmt.Fprintf(&b, "- **Comments**: %s\n\n", cmp.Or(c.Comments, "No comments"))
		}
	}
	return b.String()
}

// FormatGeneric renders refined items of any category as fenced JSON
// blocks, one per item.
func FormatGeneric(items []refine.Item, category string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (AI-Analyzed)\n\n", titleCase(category))
	fmt.Fprintf(&b, "*Total items found: %d*\n\n", len(items))
	b.WriteString("---\n\n")

	for i, item := range items {
		fmt.Fprintf(&b, "## Item %d\n\n", i+1)
		b.WriteString("```json\n")
		data, err := marshalIndent(item)
		if err != nil {
			data = []byte("{}")
		}
		b.Write(data)
		b.WriteString("\n```\n\n")
	}
	return b.String()
}

func priorityEmoji(priority string) string {
	switch strings.ToLower(priority) {
	case "high":
		return "🔴"
	case "medium":
		return "🟡"
	case "low":
		return "🟢"
	default:
		return "⚪"
	}
}

func statusEmoji(status string) string {
	switch strings.ToLower(status) {
	case "completed":
		return "✅"
	case "in-progress":
		return "🔄"
	case "assigned":
		return "📋"
	case "mentioned":
		return "💬"
	default:
		return "❓"
	}
}

// confidenceEmoji runs opposite to priorityEmoji: high confidence is
// the green one.
func confidenceEmoji(confidence string) string {
	switch strings.ToLower(confidence) {
	case "high":
		return "🟢"
	case "medium":
		return "🟡"
	case "low":
		return "🔴"
	default:
		return "⚪"
	}
}

// moodEmoji picks a face from the numeric part of a score like
// "8/10". Scores that do not start with a number get a neutral chart
// marker.
func moodEmoji(score string) string {
	head, _, _ := strings.Cut(score, "/")
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return "📊"
	}
	switch {
	case n >= 8:
		return "😊"
	case n >= 5:
		return "😐"
	default:
		return "😔"
	}
}
