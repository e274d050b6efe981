package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tugas-app/internal/client/model"
)

func TestPriorityBreakdown(t *testing.T) {
	tasks := []model.Task{
		{Priority: model.PriorityHigh},
		{Priority: model.PriorityHigh},
		{Priority: model.PriorityMedium},
		{Priority: model.PriorityLow},
	}
	slices := PriorityBreakdown(tasks)

	require.Equal(t, "High", slices[0].Label)
	require.Equal(t, 2, slices[0].Value)
	require.Equal(t, 1, slices[1].Value)
	require.Equal(t, 1, slices[2].Value)
	require.Equal(t, "#ff4961", slices[0].Color)
}

func TestStatusBreakdownSeparatesOverdue(t *testing.T) {
	today := day(2026, time.April, 15)
	tasks := []model.Task{
		{Completed: true, DueDate: day(2026, time.April, 1)},          // selesai, telat pun tetap completed
		{Completed: false, DueDate: day(2026, time.April, 14)},        // overdue
		{Completed: false, DueDate: day(2026, time.April, 15)},        // jatuh tempo hari ini, belum telat
		{Completed: false, DueDate: day(2026, time.April, 20)},        // pending
		{Completed: false, DueDate: day(2026, time.March, 1)},         // overdue
	}
	slices := StatusBreakdown(tasks, today)

	require.Equal(t, 1, slices[0].Value) // completed
	require.Equal(t, 2, slices[1].Value) // pending (termasuk hari ini)
	require.Equal(t, 2, slices[2].Value) // overdue
}

func TestWeeklyLoadWindow(t *testing.T) {
	today := day(2026, time.April, 15) // Rabu
	tasks := []model.Task{
		{DueDate: today},                         // bucket Rabu
		{DueDate: day(2026, time.April, 8)},      // -7 hari, masih masuk, bucket Rabu
		{DueDate: day(2026, time.April, 22)},     // +7 hari, keluar jendela
		{DueDate: day(2026, time.April, 16)},     // Kamis
		{DueDate: day(2026, time.April, 7)},      // -8 hari, keluar jendela
	}
	slices := WeeklyLoad(tasks, today)

	require.Len(t, slices, 7)
	require.Equal(t, "Wed", slices[3].Label)
	require.Equal(t, 2, slices[3].Value)
	require.Equal(t, 1, slices[4].Value) // Kamis
	require.Equal(t, "#3880ff", slices[3].Color)
	require.Equal(t, "#92949c", slices[4].Color)

	total := 0
	for _, s := range slices {
		total += s.Value
	}
	require.Equal(t, 3, total)
}
