package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Login ke server tugas",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sess, _, err := openSession()
		if err != nil {
			fail(err)
		}

		var email string
		if len(args) == 1 {
			email = args[0]
		} else {
			fmt.Print("Email: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				fail(err)
			}
			email = strings.TrimSpace(line)
		}

		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			fail(err)
		}

		ctx, cancel := cmdContext()
		defer cancel()

		user, err := sess.Login(ctx, email, string(raw))
		if err != nil {
			fail(err)
		}
		fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Role)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Hapus sesi login lokal",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sess, _, err := openSession()
		if err != nil {
			fail(err)
		}
		if err := sess.Logout(); err != nil {
			fail(err)
		}
		fmt.Println("Logged out")
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Tampilkan user yang sedang login",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sess, _, err := openSession()
		if err != nil {
			fail(err)
		}
		user, ok := sess.CurrentUser()
		if !ok {
			fmt.Println("Not logged in")
			return
		}
		fmt.Printf("%s <%s> [%s]\n", user.Name, user.Email, user.Role)
	},
}
