package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tugas-app/internal/client/model"
)

func day(yyyy int, mm time.Month, dd int) time.Time {
	return time.Date(yyyy, mm, dd, 0, 0, 0, 0, time.Local)
}

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "1", Title: "Rapat anggaran", Description: "Q2", Priority: model.PriorityHigh,
			DueDate: day(2026, time.April, 3), Completed: false, CreatedAt: day(2026, time.March, 1)},
		{ID: "2", Title: "Laporan stok", Description: "Gudang utara", Priority: model.PriorityMedium,
			DueDate: day(2026, time.April, 1), Completed: true, CreatedAt: day(2026, time.March, 5)},
		{ID: "3", Title: "Servis AC", Description: "lantai 2", Priority: model.PriorityLow,
			DueDate: day(2026, time.April, 2), Completed: false, CreatedAt: day(2026, time.March, 3)},
	}
}

func TestFilteredByStatus(t *testing.T) {
	tasks := sampleTasks()

	all := Filtered(tasks, StatusAll, "")
	require.Len(t, all, 3)
	// Urut due date menaik
	require.Equal(t, []string{"2", "3", "1"}, ids(all))

	completed := Filtered(tasks, StatusCompleted, "")
	require.Equal(t, []string{"2"}, ids(completed))

	pending := Filtered(tasks, StatusPending, "")
	require.Equal(t, []string{"3", "1"}, ids(pending))
}

func TestFilteredSearchMatchesTitleAndDescription(t *testing.T) {
	tasks := sampleTasks()

	require.Equal(t, []string{"1"}, ids(Filtered(tasks, StatusAll, "RAPAT")))
	require.Equal(t, []string{"2"}, ids(Filtered(tasks, StatusAll, "gudang")))
	require.Empty(t, Filtered(tasks, StatusAll, "tidak ada"))
}

func TestHomeFeedNewestFirst(t *testing.T) {
	feed := HomeFeed(sampleTasks())
	require.Equal(t, []string{"2", "3", "1"}, ids(feed))
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
