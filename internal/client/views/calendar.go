package views

import (
	"time"

	"tugas-app/internal/client/model"
)

// CalendarDay adalah satu sel pada grid bulan.
type CalendarDay struct {
	Date    time.Time
	InMonth bool
	IsToday bool
	Tasks   []model.Task
}

// MonthGrid membangun grid kalender 6x7 (42 sel) untuk bulan yang
// memuat month. Sel pertama adalah hari Minggu pada atau sebelum
// tanggal 1; sel sisanya mengisi ekor bulan berikutnya. Task
// dikelompokkan per sel berdasarkan tanggal due date (jam diabaikan).
func MonthGrid(tasks []model.Task, month, today time.Time) []CalendarDay {
	loc := month.Location()
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	byDate := map[string][]model.Task{}
	for _, t := range tasks {
		key := t.DueDate.In(loc).Format("2006-01-02")
		byDate[key] = append(byDate[key], t)
	}

	grid := make([]CalendarDay, 0, 42)
	for i := 0; i < 42; i++ {
		date := start.AddDate(0, 0, i)
		grid = append(grid, CalendarDay{
			Date:    date,
			InMonth: date.Month() == first.Month(),
			IsToday: sameDay(date, today),
			Tasks:   byDate[date.Format("2006-01-02")],
		})
	}
	return grid
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// midnight memotong waktu ke awal hari lokal.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween menghitung selisih hari kalender b-a (komponen tanggal,
// bukan durasi 24 jam).
func daysBetween(a, b time.Time) int {
	return int(midnight(b).Sub(midnight(a)).Hours() / 24)
}
