package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"tugas-app/internal/client/model"
	"tugas-app/internal/client/views"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Statistik task: prioritas, status, dan beban mingguan",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		taskStore, _, err := openStore()
		if err != nil {
			fail(err)
		}

		ctx, cancel := cmdContext()
		defer cancel()

		if err := taskStore.Refresh(ctx, model.TaskQuery{}); err != nil {
			fail(err)
		}

		tasks := taskStore.Snapshot()
		today := time.Now()

		fmt.Println("By priority")
		printSlices(views.PriorityBreakdown(tasks))
		fmt.Println()
		fmt.Println("By status")
		printSlices(views.StatusBreakdown(tasks, today))
		fmt.Println()
		fmt.Println("Weekly load")
		printSlices(views.WeeklyLoad(tasks, today))
	},
}

// printSlices menggambar batang horizontal sederhana, satu per slice,
// dengan warna bawaan slice tersebut.
func printSlices(slices []views.ChartSlice) {
	max := 0
	for _, s := range slices {
		if s.Value > max {
			max = s.Value
		}
	}
	for _, s := range slices {
		width := 0
		if max > 0 {
			width = s.Value * 30 / max
		}
		bar := lipgloss.NewStyle().
			Foreground(lipgloss.Color(s.Color)).
			Render(strings.Repeat("█", width))
		fmt.Printf("  %-10s %3d %s\n", s.Label, s.Value, bar)
	}
}
