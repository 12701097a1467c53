package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the admin session",
	Long:  `Log in to and out of the portfolio admin panel.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in as the portfolio admin",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the saved token",
	RunE:  runLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the saved token is still valid",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(authStatusCmd)

	loginCmd.Flags().String("email", "", "Admin email address")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		fmt.Fprint(out, "Email: ")
		email, _ = reader.ReadString('\n')
		email = strings.TrimSpace(email)
	}

	fmt.Fprint(out, "Password: ")
	password, err := readPassword(cmd.InOrStdin(), reader)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "🔄 Logging in...")
	if err := a.session.Login(cmd.Context(), email, password); err != nil {
		return fmt.Errorf("login failed: %s", describe(err))
	}

	fmt.Fprintf(out, "✅ Logged in as %s\n", a.session.State().Admin.Email)
	return nil
}

// readPassword reads without echo from a terminal, or a plain line when
// stdin is piped.
func readPassword(in io.Reader, reader *bufio.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && f == os.Stdin && term.IsTerminal(int(syscall.Stdin)) {
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		return string(passwordBytes), err
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	creds, err := a.tokens.Get()
	if err == nil && creds.Empty() {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "🔄 Logging out...")
	if err := a.session.Logout(cmd.Context()); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✅ Logged out successfully.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	a.session.Restore(cmd.Context())
	st := a.session.State()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Server: %s\n", a.client.BaseURL())
	if st.IsAuthenticated() {
		fmt.Fprintf(out, "✅ Logged in as %s\n", st.Admin.Email)
	} else {
		fmt.Fprintln(out, "Not logged in.")
	}
	return nil
}
