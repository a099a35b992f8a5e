// Package report renders extraction results for people. Candidate
// reports cover the raw pattern-matching output; the Format functions
// render refined items as markdown, and their HTML counterparts build
// standalone pages.
//
// All date grouping sorts chronologically with transcript.DateKey, so
// unparseable dates land at the end instead of wherever string order
// puts them.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/hurttlocker/chatsift/internal/extract"
	"github.com/hurttlocker/chatsift/internal/transcript"
)

// CandidatesJSON renders candidates as indented JSON, URLs unescaped.
func CandidatesJSON(candidates []extract.Candidate) (string, error) {
	data, err := marshalIndent(candidates)
	if err != nil {
		return "", fmt.Errorf("encoding candidates: %w", err)
	}
	return string(data), nil
}

// CandidatesTable renders candidates as an aligned text table with
// content clipped to one line.
func CandidatesTable(candidates []extract.Candidate) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTIME\tSENDER\tCONTENT")
	for _, c := range candidates {
		oneLine := strings.ReplaceAll(c.Content, "\n", " ")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Date, c.Time, c.Sender, clipEllipsis(oneLine, 80))
	}
	w.Flush()
	return buf.String()
}

// CandidatesMarkdown renders candidates as markdown grouped by date.
// URL candidates get their context windows; decisions print in full;
// everything else renders as a compact list.
func CandidatesMarkdown(candidates []extract.Candidate, category string) string {
	switch category {
	case "urls":
		return urlCandidatesMarkdown(candidates)
	case "actions":
		return listCandidatesMarkdown(candidates, "Action Items from Chat", "Total potential actions found")
	case "decisions":
		return decisionCandidatesMarkdown(candidates)
	case "meetings":
		return listCandidatesMarkdown(candidates, "Meetings from Chat", "Total meeting references found")
	default:
		return listCandidatesMarkdown(candidates, titleCase(category)+" from Chat", "Total items found")
	}
}

func listCandidatesMarkdown(candidates []extract.Candidate, title, countLabel string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "*%s: %d*\n\n---\n\n", countLabel, len(candidates))

	dates, byDate := groupByDate(candidates, func(c extract.Candidate) string { return c.Date })
	for _, date := range dates {
		fmt.Fprintf(&b, "## %s\n\n", date)
		for _, c := range byDate[date] {
			fmt.Fprintf(&b, "- **%s** - %s: %s\n", c.Time, c.Sender, clipEllipsis(c.Content, 200))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func decisionCandidatesMarkdown(candidates []extract.Candidate) string {
	var b strings.Builder
	b.WriteString("# Decisions from Chat\n\n")
	fmt.Fprintf(&b, "*Total decisions found: %d*\n\n---\n\n", len(candidates))

	dates, byDate := groupByDate(candidates, func(c extract.Candidate) string { return c.Date })
	for _, date := range dates {
		fmt.Fprintf(&b, "## %s\n\n", date)
		for _, c := range byDate[date] {
			fmt.Fprintf(&b, "### %s - %s\n", c.Time, c.Sender)
			fmt.Fprintf(&b, "%s\n\n", c.Content)
		}
	}
	return b.String()
}

func urlCandidatesMarkdown(candidates []extract.Candidate) string {
	var b strings.Builder
	b.WriteString("# URLs from Chat\n\n")
	fmt.Fprintf(&b, "*Total URLs found: %d*\n\n---\n\n", len(candidates))

	dates, byDate := groupByDate(candidates, func(c extract.Candidate) string { return c.Date })
	for _, date := range dates {
		fmt.Fprintf(&b, "## %s\n\n", date)
		for _, c := range byDate[date] {
			fmt.Fprintf(&b, "### %s - %s\n", c.Time, c.Sender)
			fmt.Fprintf(&b, "**URL:** [%s](%s)\n\n", c.URL, c.URL)

			if len(c.ContextBefore) > 0 {
				b.WriteString("**Context (messages before):**\n")
				for _, ctx := range c.ContextBefore {
					fmt.Fprintf(&b, "- *%s - %s:* %s\n", ctx.Time, ctx.Sender, ctx.Content)
				}
				b.WriteString("\n")
			}

			b.WriteString("**Message:**\n")
			fmt.Fprintf(&b, "> %s\n\n", clipEllipsis(c.FullMessage, 500))

			if len(c.ContextAfter) > 0 {
				b.WriteString("**Context (messages after):**\n")
				for _, ctx := range c.ContextAfter {
					fmt.Fprintf(&b, "- *%s - %s:* %s\n", ctx.Time, ctx.Sender, ctx.Content)
				}
				b.WriteString("\n")
			}

			b.WriteString("---\n\n")
		}
	}
	return b.String()
}

// groupByDate buckets items by their date string, substituting
// "Unknown Date" for blanks. Dates come back chronologically sorted
// with equal keys ordered by string.
func groupByDate[T any](items []T, date func(T) string) ([]string, map[string][]T) {
	byDate := make(map[string][]T)
	for _, it := range items {
		d := date(it)
		if d == "" {
			d = "Unknown Date"
		}
		byDate[d] = append(byDate[d], it)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		ti, tj := transcript.DateKey(dates[i]), transcript.DateKey(dates[j])
		if ti.Equal(tj) {
			return dates[i] < dates[j]
		}
		return ti.Before(tj)
	})
	return dates, byDate
}

// clip cuts s to max runes.
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// clipEllipsis cuts s to max runes, appending an ellipsis only when
// something was cut.
func clipEllipsis(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// marshalIndent is json.MarshalIndent without HTML escaping, so URLs
// stay readable in reports.
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
