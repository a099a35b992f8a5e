package report

import (
	"bytes"
	"cmp"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"

	"github.com/hurttlocker/chatsift/internal/refine"
	"github.com/hurttlocker/chatsift/internal/transcript"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

type actionsPage struct {
	Total  int
	Groups []actionGroup
}

type actionGroup struct {
	Date  string
	Cards []actionCard
}

type actionCard struct {
	PriorityClass string
	PriorityEmoji string
	StatusEmoji   string
	StatusClass   string
	Action        string
	Responsible   string
	Deadline      string
	Priority      string
	Status        string
	Sender        string
	Time          string
	Content       string
}

// FormatActionsHTML renders refined action items as a standalone HTML
// page with priority-tinted cards grouped by date.
func FormatActionsHTML(actions []refine.Action) (string, error) {
	real := make([]refine.Action, 0, len(actions))
	for _, a := range actions {
		if a.IsAction && a.Error == "" {
			real = append(real, a)
		}
	}

	page := actionsPage{Total: len(real)}
	dates, byDate := groupByDate(real, func(a refine.Action) string { return a.Date })
	for _, date := range dates {
		group := actionGroup{Date: date}
		for _, a := range byDate[date] {
			action := strings.TrimSpace(a.Action)
			if action == "" || action == "No action described" {
				continue
			}
			status := cmp.Or(a.Status, "mentioned")
			priority := cmp.Or(a.Priority, "medium")
			group.Cards = append(group.Cards, actionCard{
				PriorityClass: strings.ToLower(priority),
				PriorityEmoji: priorityEmoji(priority),
				StatusEmoji:   statusEmoji(status),
				StatusClass:   strings.ToLower(status),
				Action:        action,
				Responsible:   cmp.Or(a.Responsible, "unspecified"),
				Deadline:      cmp.Or(a.Deadline, "No deadline"),
				Priority:      priority,
				Status:        status,
				Sender:        cmp.Or(a.Sender, "Unknown"),
				Time:          a.Time,
				Content:       clip(a.Content, 200),
			})
		}
		page.Groups = append(page.Groups, group)
	}
	return renderPage("actions.html.tmpl", page)
}

type linksPage struct {
	Total  int
	Groups []linkGroup
}

type linkGroup struct {
	Date  string
	Cards []linkCard
}

type linkCard struct {
	URL         string
	Description string
	SharedBy    string
	Time        string
	Original    string
	HasPage     bool
	PageTitle   string
	PageSummary string
}

// FormatLinksHTML renders refined links as a standalone HTML page
// with clickable cards. Links that carry fetched page info get a
// content summary box.
func FormatLinksHTML(links []refine.Link) (string, error) {
	page := linksPage{Total: len(links)}
	dates, byDate := groupByDate(links, func(l refine.Link) string { return l.Date })
	for _, date := range dates {
		group := linkGroup{Date: date}
		for _, l := range byDate[date] {
			card := linkCard{
				URL:         l.URL,
				Description: cmp.Or(l.Description, "No description"),
				SharedBy:    cmp.Or(l.SharedBy, "Unknown"),
				Time:        l.Time,
				Original:    clip(cmp.Or(l.FullMessage, l.Context, "No context available"), 200),
			}
			if l.Title != "" || l.Summary != "" {
				card.HasPage = true
				card.PageTitle = cmp.Or(l.Title, "Unknown")
				card.PageSummary = cmp.Or(l.Summary, "No summary available")
			}
			group.Cards = append(group.Cards, card)
		}
		page.Groups = append(page.Groups, group)
	}
	return renderPage("links.html.tmpl", page)
}

type questionsPage struct {
	Total  int
	Groups []questionGroup
}

type questionGroup struct {
	Date  string
	Cards []questionCard
}

type questionCard struct {
	Marker    string
	CardClass string
	Question  string
	AskedBy   string
	Category  string
	Status    string
	Answer    string
}

// FormatQuestionsHTML renders refined questions as a standalone HTML
// page, answered and unanswered cards tinted differently.
func FormatQuestionsHTML(questions []refine.Question) (string, error) {
	page := questionsPage{Total: len(questions)}
	dates, byDate := groupByDate(questions, func(q refine.Question) string { return q.Date })
	for _, date := range dates {
		group := questionGroup{Date: date}
		for _, q := range byDate[date] {
			question := strings.TrimSpace(q.Question)
			if question == "" {
				continue
			}
			card := questionCard{
				Marker:    "❓",
				CardClass: "unanswered",
				Question:  question,
				AskedBy:   cmp.Or(q.AskedBy, "Unknown"),
				Category:  cmp.Or(q.Category, "general"),
				Status:    "Unanswered",
			}
			if q.Answered {
				card.Marker = "✅"
				card.CardClass = "answered"
				card.Status = "Answered"
				card.Answer = q.Answer
			}
			group.Cards = append(group.Cards, card)
		}
		page.Groups = append(page.Groups, group)
	}
	return renderPage("questions.html.tmpl", page)
}

type checkinsPage struct {
	Data   map[string][]chartPoint
	Dates  []string
	Colors map[string]string
}

type chartPoint struct {
	Date     string `json:"date"`
	FullDate string `json:"full_date"`
	Score    int    `json:"score"`
	Time     string `json:"time"`
	Comments string `json:"comments"`
	RawScore string `json:"raw_score"`
}

var chartPalette = []string{"#5B8FF9", "#9966CC", "#FF6B6B", "#4ECDC4", "#FFD93D"}

// FormatCheckInsHTML renders refined check-ins as a standalone HTML
// page with an SVG mood chart, one line per person. Colors cycle
// through a fixed palette in order of first appearance.
func FormatCheckInsHTML(checkins []refine.CheckIn) (string, error) {
	var order []string
	byPerson := make(map[string][]refine.CheckIn)
	for _, c := range checkins {
		person := cmp.Or(c.Person, "Unknown")
		if _, ok := byPerson[person]; !ok {
			order = append(order, person)
		}
		byPerson[person] = append(byPerson[person], c)
	}

	colors := make(map[string]string, len(order))
	for i, person := range order {
		colors[person] = chartPalette[i%len(chartPalette)]
	}

	data := make(map[string][]chartPoint, len(order))
	seen := make(map[string]bool)
	var fullDates []string
	for _, person := range order {
		items := byPerson[person]
		sort.SliceStable(items, func(i, j int) bool {
			return transcript.DateKey(items[i].Date).Before(transcript.DateKey(items[j].Date))
		})
		points := make([]chartPoint, 0, len(items))
		for _, c := range items {
			if !seen[c.Date] {
				seen[c.Date] = true
				fullDates = append(fullDates, c.Date)
			}
			points = append(points, chartPoint{
				Date:     displayDate(c.Date),
				FullDate: c.Date,
				Score:    numericScore(c.Score),
				Time:     c.Time,
				Comments: cmp.Or(c.Comments, "No comments"),
				RawScore: cmp.Or(c.Score, "0/10"),
			})
		}
		data[person] = points
	}

	// Order the axis on full dates, then shorten to DD/MM labels so a
	// December-to-January transcript stays chronological.
	sort.Slice(fullDates, func(i, j int) bool {
		ti, tj := transcript.DateKey(fullDates[i]), transcript.DateKey(fullDates[j])
		if ti.Equal(tj) {
			return fullDates[i] < fullDates[j]
		}
		return ti.Before(tj)
	})
	dates := make([]string, 0, len(fullDates))
	labelSeen := make(map[string]bool, len(fullDates))
	for _, fd := range fullDates {
		label := displayDate(fd)
		if !labelSeen[label] {
			labelSeen[label] = true
			dates = append(dates, label)
		}
	}

	return renderPage("checkins.html.tmpl", checkinsPage{Data: data, Dates: dates, Colors: colors})
}

type genericPage struct {
	Title    string
	Markdown string
}

// FormatMarkdownHTML wraps already-rendered markdown in the standard
// page shell. Categories without a dedicated HTML layout go through
// this.
func FormatMarkdownHTML(title, markdown string) (string, error) {
	return renderPage("generic.html.tmpl", genericPage{Title: title, Markdown: markdown})
}

func renderPage(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// displayDate shortens DD/MM/YYYY to DD/MM for chart axis labels.
func displayDate(date string) string {
	parts := strings.Split(date, "/")
	if len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return date
}

func numericScore(score string) int {
	head, _, _ := strings.Cut(score, "/")
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0
	}
	return n
}
