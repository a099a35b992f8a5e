package transcript

import "time"

// farFuture is the sort key for dates that fail to parse. Unknown dates
// land after every real one.
var farFuture = time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)

// DateKey converts a transcript date string into a sortable time.
// DD/MM/YYYY is tried first, then ISO YYYY-MM-DD. It never fails:
// unparseable input maps to a far-future sentinel.
func DateKey(s string) time.Time {
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return farFuture
}
