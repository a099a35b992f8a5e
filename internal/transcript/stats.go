package transcript

import "strings"

// Stats holds aggregate counts for one parsed transcript.
type Stats struct {
	Messages       int            `json:"messages"`
	Senders        int            `json:"senders"`
	SystemMessages int            `json:"system_messages"`
	MultiLine      int            `json:"multi_line_messages"`
	FirstDate      string         `json:"first_date,omitempty"`
	LastDate       string         `json:"last_date,omitempty"`
	ActiveDays     int            `json:"active_days"`
	BySender       map[string]int `json:"by_sender"`
	ByDate         map[string]int `json:"by_date"`
}

// Summarize computes transcript statistics. The date range covers only
// dates that parse; unknown dates still count toward per-date totals.
func Summarize(messages []Message) Stats {
	stats := Stats{
		BySender: make(map[string]int),
		ByDate:   make(map[string]int),
	}

	for _, m := range messages {
		stats.Messages++
		if m.Sender == SystemSender {
			stats.SystemMessages++
		}
		if strings.Contains(m.Content, "\n") {
			stats.MultiLine++
		}
		stats.BySender[m.Sender]++
		stats.ByDate[m.Date]++

		if DateKey(m.Date).Equal(farFuture) {
			continue
		}
		if stats.FirstDate == "" || DateKey(m.Date).Before(DateKey(stats.FirstDate)) {
			stats.FirstDate = m.Date
		}
		if stats.LastDate == "" || DateKey(m.Date).After(DateKey(stats.LastDate)) {
			stats.LastDate = m.Date
		}
	}

	stats.Senders = len(stats.BySender)
	stats.ActiveDays = len(stats.ByDate)
	return stats
}
