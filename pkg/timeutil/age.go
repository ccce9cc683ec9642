package timeutil

import (
	"fmt"
	"time"
)

// Age renders the elapsed time since t using the single largest unit, the
// compact form used on board cards ("3d", "2w", "45m").
func Age(t time.Time) string {
	return AgeAt(t, time.Now())
}

func AgeAt(t, now time.Time) string {
	if t.IsZero() || !t.Before(now) {
		return "0s"
	}
	d := now.Sub(t)
	switch {
	case d >= 7*24*time.Hour:
		return fmt.Sprintf("%dw", d/(7*24*time.Hour))
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	case d >= time.Hour:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d >= time.Minute:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return fmt.Sprintf("%ds", d/time.Second)
	}
}
