package datemath

import "time"

const dateLayout = "2006-01-02"

// loadZone resolves an IANA timezone identifier. An empty or unknown
// identifier falls back to the device's local zone so callers never
// have to handle a load failure.
func loadZone(tz string) *time.Location {
	if tz == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Local
	}
	return loc
}

// FormatLocalDate formats an instant as YYYY-MM-DD in the device's
// current timezone.
func FormatLocalDate(t time.Time) string {
	return t.In(time.Local).Format(dateLayout)
}

// FormatDateInZone formats an instant as the calendar date observed in
// the given IANA timezone. The same instant can land on different
// calendar dates in different zones.
func FormatDateInZone(t time.Time, tz string) string {
	return t.In(loadZone(tz)).Format(dateLayout)
}

// ParseDateInZone interprets a YYYY-MM-DD string as midnight in the
// given timezone and returns that instant.
func ParseDateInZone(s string, tz string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, loadZone(tz))
}

// civilUTC maps an instant to its calendar date in loc, anchored at
// midnight UTC. Anchoring in UTC makes day subtraction immune to DST.
func civilUTC(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DiffDays returns the number of whole calendar-day boundaries crossed
// between start's and end's calendar dates in the given timezone.
// Never negative: an end date before the start date clamps to 0.
func DiffDays(start, end time.Time, tz string) int {
	loc := loadZone(tz)
	days := int(civilUTC(end, loc).Sub(civilUTC(start, loc)) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

// DiffDaysFromDate is DiffDays with the start given as a calendar-date
// string. A malformed start date yields 0 rather than an error.
func DiffDaysFromDate(startDate string, end time.Time, tz string) int {
	start, err := ParseDateInZone(startDate, tz)
	if err != nil {
		return 0
	}
	return DiffDays(start, end, tz)
}

// NextMidnight returns the first midnight after now, in now's location.
func NextMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}
