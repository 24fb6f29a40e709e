package domain

import (
	"fmt"
	"time"
)

// Layouts for the textual slot fields.
const (
	SlotDateLayout = "2006-01-02"
	SlotTimeLayout = "15:04"
)

const (
	firstSlotHour  = 8
	slotInterval   = 30 * time.Minute
	slotsPerDay    = 24
	reportTemplate = "Please rest for %d days. Reason: %s"
)

// Departments offered when booking an appointment.
var Departments = []string{
	"Kulak Burun Boğaz",
	"Kardiyoloji",
	"Ortopedi",
	"Dahiliye",
	"Genel Cerrahi",
}

// ReportReasons are the titles the admin console issues reports with.
var ReportReasons = []string{"Medical", "Personal", "Other"}

// ReportDayOptions are the rest durations the admin console offers.
var ReportDayOptions = []int{1, 2, 3, 5, 7, 10}

// ReportContent derives a report's content from its title and duration.
// Existing callers compare this string verbatim.
func ReportContent(title string, days int) string {
	return fmt.Sprintf(reportTemplate, days, title)
}

// TimeSlots returns the bookable times of a day: 24 half-hour slots
// starting at 08:00, formatted "HH:MM".
func TimeSlots() []string {
	start := time.Date(2000, 1, 1, firstSlotHour, 0, 0, 0, time.UTC)
	out := make([]string, 0, slotsPerDay)
	for i := 0; i < slotsPerDay; i++ {
		out = append(out, start.Add(time.Duration(i)*slotInterval).Format(SlotTimeLayout))
	}
	return out
}
