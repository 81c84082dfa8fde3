package contrib

import (
	"testing"
	"time"
)

func TestToISODate_DoesNotShiftDay(t *testing.T) {
	// Any hour of a UTC timestamp must stay on its own calendar day.
	for _, hour := range []int{0, 12, 23} {
		ts := time.Date(2024, time.March, 15, hour, 59, 59, 0, time.UTC)
		if got := ToISODate(ts); got != "2024-03-15" {
			t.Errorf("ToISODate(hour=%d) = %q, want 2024-03-15", hour, got)
		}
	}
}

func TestParseISODate_AcceptsTimestampPrefix(t *testing.T) {
	got, err := ParseISODate("2024-02-29T18:30:00Z")
	if err != nil {
		t.Fatalf("ParseISODate() error = %v", err)
	}
	if ToISODate(got) != "2024-02-29" {
		t.Errorf("ParseISODate() = %v, want 2024-02-29", got)
	}
}

func TestParseISODate_Malformed(t *testing.T) {
	for _, bad := range []string{"", "not-a-date", "2024-13-01", "2024-02-30"} {
		if _, err := ParseISODate(bad); err == nil {
			t.Errorf("ParseISODate(%q) expected error, got nil", bad)
		}
	}
}

func TestEnsureRangeOrder_SwapsReversed(t *testing.T) {
	s1, e1, err := EnsureRangeOrder("2024-01-05", "2024-01-01")
	if err != nil {
		t.Fatalf("EnsureRangeOrder() error = %v", err)
	}
	s2, e2, err := EnsureRangeOrder("2024-01-01", "2024-01-05")
	if err != nil {
		t.Fatalf("EnsureRangeOrder() error = %v", err)
	}
	if s1 != s2 || e1 != e2 {
		t.Errorf("EnsureRangeOrder is order-dependent: (%q,%q) vs (%q,%q)", s1, e1, s2, e2)
	}
	if s1 != "2024-01-01" || e1 != "2024-01-05" {
		t.Errorf("EnsureRangeOrder() = (%q, %q), want (2024-01-01, 2024-01-05)", s1, e1)
	}
}

func TestGenerateRange_Completeness(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2024-01-01", "2024-01-01", 1},
		{"2024-01-01", "2024-12-31", 366}, // leap year
		{"2023-01-01", "2023-12-31", 365},
		{"2023-12-20", "2024-01-10", 22}, // year boundary
		{"2024-02-28", "2024-03-01", 3},  // leap day crossing
	}
	for _, tt := range tests {
		dates, err := GenerateRange(tt.start, tt.end)
		if err != nil {
			t.Fatalf("GenerateRange(%s, %s) error = %v", tt.start, tt.end, err)
		}
		if len(dates) != tt.want {
			t.Errorf("GenerateRange(%s, %s) length = %d, want %d", tt.start, tt.end, len(dates), tt.want)
		}

		days, err := DaysBetween(tt.start, tt.end)
		if err != nil {
			t.Fatalf("DaysBetween(%s, %s) error = %v", tt.start, tt.end, err)
		}
		if len(dates) != days+1 {
			t.Errorf("length %d != DaysBetween+1 = %d", len(dates), days+1)
		}

		seen := make(map[string]bool, len(dates))
		for i, d := range dates {
			if seen[d] {
				t.Errorf("GenerateRange(%s, %s) duplicate date %s", tt.start, tt.end, d)
			}
			seen[d] = true
			if i > 0 && dates[i-1] >= d {
				t.Errorf("GenerateRange(%s, %s) not strictly ascending at %d: %s >= %s", tt.start, tt.end, i, dates[i-1], d)
			}
		}
	}
}

func TestYearBounds(t *testing.T) {
	start, end := YearBounds(2024)
	if start != "2024-01-01" || end != "2024-12-31" {
		t.Errorf("YearBounds(2024) = (%q, %q)", start, end)
	}
}
