package timeutil

import (
	"testing"
	"time"
)

func TestAgeAt(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		since time.Duration
		want  string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Minute, "1h"},
		{36 * time.Hour, "1d"},
		{15 * 24 * time.Hour, "2w"},
	}
	for _, tc := range cases {
		got := AgeAt(now.Add(-tc.since), now)
		if got != tc.want {
			t.Fatalf("age for %v: expected %s, got %s", tc.since, tc.want, got)
		}
	}
}

func TestAgeAtZero(t *testing.T) {
	if got := AgeAt(time.Time{}, time.Now()); got != "0s" {
		t.Fatalf("zero time should render 0s, got %s", got)
	}
}
