package timezone_test

import (
	"testing"
	"time"

	"hotelier/shared/timezone"
)

func TestNow(t *testing.T) {
	now := timezone.Now()

	if now.IsZero() {
		t.Error("expected Now to return a non-zero time")
	}

	if now.Location() != timezone.GetLocation() {
		t.Errorf("expected Now to use the application location %v, got %v", timezone.GetLocation(), now.Location())
	}
}

func TestParseAndFormat(t *testing.T) {
	parsed, err := timezone.Parse("2006-01-02", "2025-01-15")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	if parsed.Year() != 2025 || parsed.Month() != time.January || parsed.Day() != 15 {
		t.Errorf("unexpected parsed date: %v", parsed)
	}

	if got := timezone.Format(parsed, "2006-01-02"); got != "2025-01-15" {
		t.Errorf("expected formatted date 2025-01-15, got %s", got)
	}
}

func TestToAppTime(t *testing.T) {
	utc := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	converted := timezone.ToAppTime(utc)

	if !converted.Equal(utc) {
		t.Errorf("conversion must not change the instant: %v vs %v", converted, utc)
	}
}
