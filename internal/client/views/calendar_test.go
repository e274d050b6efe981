package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tugas-app/internal/client/model"
)

// April 2026 dimulai hari Rabu; sel pertama harus Minggu 29 Maret.
func TestMonthGridStartsOnSunday(t *testing.T) {
	today := day(2026, time.April, 15)
	grid := MonthGrid(nil, day(2026, time.April, 1), today)

	require.Len(t, grid, 42)
	require.Equal(t, time.Sunday, grid[0].Date.Weekday())
	require.Equal(t, day(2026, time.March, 29), grid[0].Date)
	require.False(t, grid[0].InMonth)
}

func TestMonthGridInMonthCount(t *testing.T) {
	grid := MonthGrid(nil, day(2026, time.April, 1), day(2026, time.April, 15))

	inMonth := 0
	for _, cell := range grid {
		if cell.InMonth {
			inMonth++
		}
	}
	require.Equal(t, 30, inMonth) // April punya 30 hari
}

// Bulan yang tanggal 1-nya jatuh hari Minggu: sel pertama adalah
// tanggal 1 itu sendiri.
func TestMonthGridFirstDayIsSunday(t *testing.T) {
	grid := MonthGrid(nil, day(2026, time.February, 1), day(2026, time.February, 10))
	require.Equal(t, day(2026, time.February, 1), grid[0].Date)
	require.True(t, grid[0].InMonth)
}

func TestMonthGridGroupsTasksByDueDate(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", DueDate: day(2026, time.April, 10)},
		{ID: "2", DueDate: time.Date(2026, time.April, 10, 17, 30, 0, 0, time.Local)}, // jam diabaikan
		{ID: "3", DueDate: day(2026, time.April, 11)},
	}
	grid := MonthGrid(tasks, day(2026, time.April, 1), day(2026, time.April, 15))

	for _, cell := range grid {
		switch {
		case sameDay(cell.Date, day(2026, time.April, 10)):
			require.Len(t, cell.Tasks, 2)
		case sameDay(cell.Date, day(2026, time.April, 11)):
			require.Len(t, cell.Tasks, 1)
		default:
			require.Empty(t, cell.Tasks)
		}
	}
}

func TestMonthGridMarksToday(t *testing.T) {
	today := day(2026, time.April, 15)
	grid := MonthGrid(nil, day(2026, time.April, 1), today)

	count := 0
	for _, cell := range grid {
		if cell.IsToday {
			count++
			require.Equal(t, today, cell.Date)
		}
	}
	require.Equal(t, 1, count)
}
