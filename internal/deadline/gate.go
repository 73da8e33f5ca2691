package deadline

import (
	"strings"
	"time"

	"stage-entry-api/internal/entry"
)

// displayLocation is the canonical timezone for day-boundary display. The
// editability comparison itself is instant-based and does not depend on it.
var displayLocation = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// Urgency buckets for display. They never change the editability result.
const (
	UrgencyExpired = "expired"
	UrgencyUrgent  = "urgent"
	UrgencyOpen    = "open"
)

// Key returns the settings key holding a stage's deadline.
func Key(stage entry.Stage) string {
	return string(stage) + "_deadline"
}

// parseDeadline accepts RFC3339 or a bare date; a bare date means end of that
// day in the display timezone. Returns false when the value is empty or
// unparseable.
func parseDeadline(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	if d, err := time.Parse(time.RFC3339, v); err == nil {
		return d, true
	}
	if d, err := time.ParseInLocation("2006-01-02", v, displayLocation); err == nil {
		return d.AddDate(0, 0, 1).Add(-time.Second), true
	}
	return time.Time{}, false
}

// IsEditable reports whether the stage behind key may still be edited at now.
// No configured deadline, an empty value, or an unparseable value all mean
// editable. Exactly at the deadline instant is editable.
func IsEditable(key string, cfg map[string]string, now time.Time) bool {
	d, ok := parseDeadline(cfg[key])
	if !ok {
		return true
	}
	return !now.After(d)
}

// DaysRemaining is ceil((deadline - now) / 24h). Zero or negative means the
// deadline has passed.
func DaysRemaining(deadline, now time.Time) int {
	diff := deadline.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff > 0 && diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// UrgencyFor buckets a deadline for UI treatment.
func UrgencyFor(deadline, now time.Time) string {
	if now.After(deadline) {
		return UrgencyExpired
	}
	if DaysRemaining(deadline, now) <= 3 {
		return UrgencyUrgent
	}
	return UrgencyOpen
}
