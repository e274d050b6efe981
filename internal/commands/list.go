package commands

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"tugas-app/internal/client/model"
	"tugas-app/internal/client/views"
)

var (
	listStatus string
	listSearch string
)

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2dd36f"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4961"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffce00"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Tampilkan task, terdekat jatuh temponya dulu",
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

		tasks := views.Filtered(taskStore.Snapshot(), listStatus, listSearch)
		if len(tasks) == 0 {
			fmt.Println(faintStyle.Render("No tasks found"))
			return
		}

		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		for _, t := range tasks {
			marker := "[ ]"
			line := fmt.Sprintf("#%s %s (due %s, %s)",
				t.ID, t.Title, t.DueDate.Format("2006-01-02"), t.Priority)
			switch {
			case t.Completed:
				marker = doneStyle.Render("[x]")
				line = faintStyle.Render(line)
			case t.DueDate.Before(startOfDay):
				line = overdueStyle.Render(line)
			default:
				line = pendingStyle.Render(line)
			}
			fmt.Printf("%s %s\n", marker, line)
		}
	},
}

func init() {
	listCmd.Flags().StringVarP(&listStatus, "status", "s", views.StatusAll, "all, completed, atau pending")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "cari di judul dan deskripsi")
}
