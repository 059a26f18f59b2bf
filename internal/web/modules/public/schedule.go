package public

import "time"

// issueHour is the local hour a new issue goes out on Mondays.
const issueHour = 8

// NextIssueAt returns the next Monday at 08:00 in the given location,
// strictly after now.
func NextIssueAt(now time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	local := now.In(location)

	daysAhead := (int(time.Monday) - int(local.Weekday()) + 7) % 7
	candidate := time.Date(local.Year(), local.Month(), local.Day(), issueHour, 0, 0, 0, location)
	candidate = candidate.AddDate(0, 0, daysAhead)
	if !candidate.After(local) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}
