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

var calendarMonth string

var (
	todayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3880ff")).Bold(true)
	outMonthStyle = lipgloss.NewStyle().Faint(true)
	busyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffce00"))
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Grid kalender bulanan dengan jumlah task per hari",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		taskStore, _, err := openStore()
		if err != nil {
			fail(err)
		}

		today := time.Now()
		month := today
		if calendarMonth != "" {
			month, err = time.ParseInLocation("2006-01", calendarMonth, time.Local)
			if err != nil {
				fail(fmt.Errorf("invalid month %q, use YYYY-MM", calendarMonth))
			}
		}

		ctx, cancel := cmdContext()
		defer cancel()

		if err := taskStore.Refresh(ctx, model.TaskQuery{}); err != nil {
			fail(err)
		}

		grid := views.MonthGrid(taskStore.Snapshot(), month, today)

		fmt.Println(month.Format("January 2006"))
		fmt.Println(" Sun  Mon  Tue  Wed  Thu  Fri  Sat")
		var row strings.Builder
		for i, day := range grid {
			cell := fmt.Sprintf("%4d", day.Date.Day())
			switch {
			case day.IsToday:
				cell = todayStyle.Render(cell)
			case !day.InMonth:
				cell = outMonthStyle.Render(cell)
			case len(day.Tasks) > 0:
				cell = busyStyle.Render(cell)
			}
			row.WriteString(cell)
			if len(day.Tasks) > 0 {
				row.WriteString(fmt.Sprintf("*%d", len(day.Tasks)))
			} else {
				row.WriteString("  ")
			}
			if (i+1)%7 == 0 {
				fmt.Println(row.String())
				row.Reset()
			}
		}
	},
}

func init() {
	calendarCmd.Flags().StringVarP(&calendarMonth, "month", "m", "", "bulan yang ditampilkan (YYYY-MM)")
}
