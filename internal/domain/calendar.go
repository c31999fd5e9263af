package domain

import "time"

// DayColor is the single-value severity summary for one calendar day:
// the worst-case status among that day's tasks.
type DayColor string

// Severity colors, ordered missed > pending > completed.
const (
	DayColorRed    DayColor = "red"    // at least one missed task
	DayColorYellow DayColor = "yellow" // no missed, at least one pending
	DayColorGreen  DayColor = "green"  // all completed
)

// DateKeyLayout is the calendar date format used as map keys and in
// day-view URLs.
const DateKeyLayout = "2006-01-02"

// DateKey truncates a timestamp to its UTC calendar date.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateKeyLayout)
}

// DayWindow returns the inclusive UTC bounds of one calendar date,
// [00:00:00, 23:59:59.999999999]. The date must be in YYYY-MM-DD form.
func DayWindow(date string) (start, end time.Time, err error) {
	start, err = time.ParseInLocation(DateKeyLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("date", "must be in YYYY-MM-DD format", ErrInvalidDate)
	}
	end = start.Add(24*time.Hour - time.Nanosecond)
	return start, end, nil
}

// BuildCalendar groups tasks by UTC calendar date and reduces each day's
// statuses to a severity color. Days with no tasks have no entry. Tasks
// are expected to be status-normalized already; the reduction itself
// looks only at the stored status.
func BuildCalendar(tasks []*Task) map[string]DayColor {
	colors := make(map[string]DayColor, len(tasks))
	for _, task := range tasks {
		key := DateKey(task.ScheduledFor)
		colors[key] = worseColor(colors[key], colorFor(task.Status))
	}
	return colors
}

func colorFor(status TaskStatus) DayColor {
	switch status {
	case TaskStatusMissed:
		return DayColorRed
	case TaskStatusPending:
		return DayColorYellow
	default:
		return DayColorGreen
	}
}

// worseColor picks the higher-severity of two colors; the zero value
// loses to everything.
func worseColor(a, b DayColor) DayColor {
	rank := map[DayColor]int{DayColorGreen: 1, DayColorYellow: 2, DayColorRed: 3}
	if rank[a] >= rank[b] {
		return a
	}
	return b
}
