// Package views berisi fungsi murni yang menurunkan tampilan dari
// snapshot task: daftar terfilter, grid kalender, dan agregat chart.
// Tidak ada state dan tidak ada I/O di package ini.
package views

import (
	"sort"
	"strings"

	"tugas-app/internal/client/model"
)

const (
	StatusAll       = "all"
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

// Filtered menyaring task berdasarkan status dan teks pencarian
// (substring case-insensitive di judul atau deskripsi), lalu
// mengurutkan menurut due date menaik.
func Filtered(tasks []model.Task, status, search string) []model.Task {
	needle := strings.ToLower(strings.TrimSpace(search))

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		switch status {
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		case StatusPending:
			if t.Completed {
				continue
			}
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

// HomeFeed mengurutkan task terbaru dulu untuk tampilan beranda.
func HomeFeed(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
