package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tugas-app/internal/client/model"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Balik status selesai sebuah task",
	Args:  cobra.ExactArgs(1),
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
		if _, ok := taskStore.ByID(args[0]); !ok {
			fail(fmt.Errorf("task #%s not found", args[0]))
		}
		if err := taskStore.ToggleCompletion(ctx, args[0]); err != nil {
			fail(err)
		}

		task, _ := taskStore.ByID(args[0])
		if task.Completed {
			fmt.Printf("Marked task #%s as done: %s\n", task.ID, task.Title)
		} else {
			fmt.Printf("Marked task #%s back to pending: %s\n", task.ID, task.Title)
		}
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm [task-id]",
	Short: "Hapus sebuah task",
	Args:  cobra.ExactArgs(1),
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
		if err := taskStore.Delete(ctx, args[0]); err != nil {
			fail(err)
		}
		fmt.Printf("Deleted task #%s\n", args[0])
	},
}
