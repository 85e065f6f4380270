package services

import (
	"testing"
	"time"
)

func TestParseDateOnly(t *testing.T) {
	got, err := ParseDateOnly("2025-01-02")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	for _, bad := range []string{"", "02/01/2025", "2025-1-2", "2025-01-02T10:00:00Z", "not-a-date"} {
		if _, err := ParseDateOnly(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestAgeOn(t *testing.T) {
	birth := time.Date(2014, time.June, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		on   time.Time
		want int
	}{
		{time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC), 10}, // day before birthday
		{time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), 11}, // birthday
		{time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), 11},
		{time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), 10},
		{time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC), 0}, // never negative
	}
	for _, tc := range cases {
		if got := AgeOn(birth, tc.on); got != tc.want {
			t.Errorf("AgeOn(%v): got %d, want %d", tc.on.Format(DateOnly), got, tc.want)
		}
	}
}

func TestNormEmail(t *testing.T) {
	if e, ok := NormEmail("  Parent@Example.COM "); !ok || e != "parent@example.com" {
		t.Errorf("got %q ok=%v", e, ok)
	}
	if _, ok := NormEmail("not-an-email"); ok {
		t.Error("expected invalid")
	}
	if e, ok := NormEmail(""); !ok || e != "" {
		t.Error("empty treated as optional")
	}
}
