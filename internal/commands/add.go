package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tugas-app/internal/client/model"
)

var (
	addPriority string
	addDue      string
	addDesc     string
	addAssignee string
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Buat task baru",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		taskStore, _, err := openStore()
		if err != nil {
			fail(err)
		}

		draft := model.TaskDraft{
			Title:       args[0],
			Description: addDesc,
			Priority:    addPriority,
			EmployeeID:  addAssignee,
		}
		if addDue != "" {
			due, err := time.ParseInLocation("2006-01-02", addDue, time.Local)
			if err != nil {
				fail(fmt.Errorf("invalid due date %q, use YYYY-MM-DD", addDue))
			}
			draft.DueDate = due
		}

		ctx, cancel := cmdContext()
		defer cancel()

		created, err := taskStore.Create(ctx, draft)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Created task #%s: %s (due %s, %s)\n",
			created.ID, created.Title, created.DueDate.Format("2006-01-02"), created.Priority)
	},
}

func init() {
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "low, medium, atau high")
	addCmd.Flags().StringVarP(&addDue, "due", "d", "", "tanggal jatuh tempo (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addDesc, "desc", "", "deskripsi task")
	addCmd.Flags().StringVar(&addAssignee, "assign", "", "id user yang ditugaskan (admin saja)")
}
