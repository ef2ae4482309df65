package spending

import "time"

// DayStart returns the start of the current day in the given timezone,
// converted to UTC.
func DayStart(now time.Time, tz *time.Location) time.Time {
	local := now.In(tz)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)
	return start.UTC()
}

// NextDayStart returns the start of the next day in the given timezone,
// converted to UTC.
func NextDayStart(now time.Time, tz *time.Location) time.Time {
	start := DayStart(now, tz)
	// AddDate handles DST correctly, Add(24h) does not
	next := start.In(tz).AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, tz).UTC()
}

// MonthStart returns the start of the current month in the given timezone,
// converted to UTC.
func MonthStart(now time.Time, tz *time.Location) time.Time {
	local := now.In(tz)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, tz)
	return start.UTC()
}

// NextMonthStart returns the start of the next month in the given timezone,
// converted to UTC.
func NextMonthStart(now time.Time, tz *time.Location) time.Time {
	local := now.In(tz)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, tz)
	return start.AddDate(0, 1, 0).UTC()
}

// ParseTimezone parses a timezone string, returning UTC as fallback.
func ParseTimezone(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
