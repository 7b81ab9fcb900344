package align

import (
	"fmt"
	"time"
)

// Weekdays is the seven-slot label set for a weekly forecast.
func Weekdays() []string {
	return []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
}

// WeekdaysFrom returns n consecutive weekday labels starting the day after start.
func WeekdaysFrom(start time.Time, n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = start.AddDate(0, 0, i+1).Format("Mon")
	}
	return labels
}

// Months returns n consecutive month labels starting at start's month.
func Months(start time.Time, n int) []string {
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	labels := make([]string, n)
	for i := range labels {
		labels[i] = first.AddDate(0, i, 0).Format("Jan")
	}
	return labels
}

// Horizon returns step labels "T+1" through "T+n".
func Horizon(n int) []string {
	return Sequence("T+", n)
}

// Days returns "Day 1" through "Day n".
func Days(n int) []string {
	return Sequence("Day ", n)
}

// Sequence returns prefix followed by 1..n.
func Sequence(prefix string, n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return labels
}
