package views

import (
	"time"

	"tugas-app/internal/client/model"
)

// ChartSlice adalah satu batang/irisan chart beserta warna tampilannya.
type ChartSlice struct {
	Label string
	Value int
	Color string
}

// Warna mengikuti palet dashboard.
const (
	colorDanger  = "#ff4961"
	colorWarning = "#ffce00"
	colorSuccess = "#2dd36f"
	colorPrimary = "#3880ff"
	colorMuted   = "#92949c"
)

// PriorityBreakdown menghitung jumlah task per prioritas.
func PriorityBreakdown(tasks []model.Task) []ChartSlice {
	counts := map[string]int{}
	for _, t := range tasks {
		counts[t.Priority]++
	}
	return []ChartSlice{
		{Label: "High", Value: counts[model.PriorityHigh], Color: colorDanger},
		{Label: "Medium", Value: counts[model.PriorityMedium], Color: colorWarning},
		{Label: "Low", Value: counts[model.PriorityLow], Color: colorSuccess},
	}
}

// overdue: belum selesai dan due date-nya sebelum awal hari ini.
// Task yang jatuh tempo hari ini belum terlambat.
func overdue(t model.Task, today time.Time) bool {
	return !t.Completed && t.DueDate.Before(midnight(today))
}

// StatusBreakdown membagi task menjadi selesai, pending, dan overdue.
// Pending tidak memuat yang overdue.
func StatusBreakdown(tasks []model.Task, today time.Time) []ChartSlice {
	var completed, pending, late int
	for _, t := range tasks {
		switch {
		case t.Completed:
			completed++
		case overdue(t, today):
			late++
		default:
			pending++
		}
	}
	return []ChartSlice{
		{Label: "Completed", Value: completed, Color: colorSuccess},
		{Label: "Pending", Value: pending, Color: colorWarning},
		{Label: "Overdue", Value: late, Color: colorDanger},
	}
}

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeeklyLoad menghitung beban per hari dalam jendela [-7, +7) hari
// dari today. Bucket dihitung dari selisih hari kalender sehingga
// minggu lalu dan minggu ini menumpuk di label hari yang sama; batang
// hari ini diberi warna primer.
func WeeklyLoad(tasks []model.Task, today time.Time) []ChartSlice {
	counts := [7]int{}
	for _, t := range tasks {
		diff := daysBetween(today, t.DueDate)
		if diff < -7 || diff >= 7 {
			continue
		}
		bucket := (int(today.Weekday()) + diff + 7) % 7
		counts[bucket]++
	}

	todayBucket := int(today.Weekday())
	out := make([]ChartSlice, 0, 7)
	for i := 0; i < 7; i++ {
		color := colorMuted
		if i == todayBucket {
			color = colorPrimary
		}
		out = append(out, ChartSlice{Label: weekdayLabels[i], Value: counts[i], Color: color})
	}
	return out
}
