package transcript

import "time"

// FilterDays keeps messages dated within days of the most recent
// message date, inclusive. Messages whose dates do not parse as
// DD/MM/YYYY are kept as-is, and do not move the window. days <= 0
// disables filtering.
func FilterDays(messages []Message, days int) []Message {
	if days <= 0 || len(messages) == 0 {
		return messages
	}

	var newest time.Time
	found := false
	for _, m := range messages {
		t, err := time.Parse("02/01/2006", m.Date)
		if err != nil {
			continue
		}
		if !found || t.After(newest) {
			newest = t
			found = true
		}
	}
	if !found {
		return messages
	}

	cutoff := newest.AddDate(0, 0, -days)
	kept := make([]Message, 0, len(messages))
	for _, m := range messages {
		t, err := time.Parse("02/01/2006", m.Date)
		if err != nil || !t.Before(cutoff) {
			kept = append(kept, m)
		}
	}
	return kept
}
