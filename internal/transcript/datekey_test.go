package transcript

import (
	"sort"
	"testing"
)

func TestDateKey_SlashFormat(t *testing.T) {
	key := DateKey("01/02/2024")
	if key.Year() != 2024 || key.Month() != 2 || key.Day() != 1 {
		t.Errorf("Expected 2024-02-01, got %v", key)
	}
}

func TestDateKey_ISOFormat(t *testing.T) {
	key := DateKey("2024-03-01")
	if key.Year() != 2024 || key.Month() != 3 || key.Day() != 1 {
		t.Errorf("Expected 2024-03-01, got %v", key)
	}
}

func TestDateKey_UnparseableSortsLast(t *testing.T) {
	dates := []string{"garbage", "01/02/2024", "2024-03-01", "Unknown Date"}
	sort.Slice(dates, func(i, j int) bool {
		return DateKey(dates[i]).Before(DateKey(dates[j]))
	})

	if dates[0] != "01/02/2024" {
		t.Errorf("Expected 01/02/2024 first, got %q", dates[0])
	}
	if dates[1] != "2024-03-01" {
		t.Errorf("Expected 2024-03-01 second, got %q", dates[1])
	}
	// The two unparseable strings share the sentinel and stay at the end.
	for _, d := range dates[2:] {
		if !DateKey(d).Equal(farFuture) {
			t.Errorf("Expected sentinel for %q, got %v", d, DateKey(d))
		}
	}
}

func TestDateKey_NeverPanics(t *testing.T) {
	for _, s := range []string{"", "31/31/9999", "not a date", "12/2024"} {
		_ = DateKey(s)
	}
}
