// Package commands berisi perintah CLI tugas: antarmuka terminal di
// atas klien HTTP, session lokal, dan task store.
package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tugas-app/internal/client/api"
	"tugas-app/internal/client/session"
	"tugas-app/internal/client/store"
)

var rootCmd = &cobra.Command{
	Use:   "tugas",
	Short: "Task assignment tracker dari terminal",
	Long: `tugas adalah CLI untuk server tugas-app: kelola task, kalender,
dan statistik beban kerja langsung dari terminal.`,
}

// baseURL membaca alamat server dari environment, dengan default
// server development lokal.
func baseURL() string {
	if v := os.Getenv("TUGAS_API_URL"); v != "" {
		return v
	}
	return "http://localhost:3004/api/v1"
}

// openSession membuka file sesi lokal dan klien API yang memakai
// token sesi tersebut.
func openSession() (*session.Session, *api.Client, error) {
	var sess *session.Session
	client := api.NewClient(baseURL(), func() string {
		if sess == nil {
			return ""
		}
		return sess.Token()
	})

	sess, err := session.Open(session.DefaultPath(), client)
	if err != nil {
		return nil, nil, fmt.Errorf("open session: %w", err)
	}
	return sess, client, nil
}

// requireLogin seperti openSession tapi menolak kalau belum login.
func requireLogin() (*session.Session, *api.Client, error) {
	sess, client, err := openSession()
	if err != nil {
		return nil, nil, err
	}
	if !sess.IsAuthenticated() {
		return nil, nil, fmt.Errorf("not logged in; run 'tugas login' first")
	}
	return sess, client, nil
}

// openStore membuat task store yang terhubung ke klien API.
func openStore() (*store.TaskStore, *session.Session, error) {
	sess, client, err := requireLogin()
	if err != nil {
		return nil, nil, err
	}
	return store.NewTaskStore(client), sess, nil
}

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// Execute menjalankan perintah root.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(statsCmd)
}
