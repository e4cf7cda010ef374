package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"coinfixi/internal/api"
	"coinfixi/internal/logging"
)

var (
	loginEmail    string
	loginPassword string
	whoamiRemote  bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the admin API and save the session",
	Long: `Log in with an admin account. The token is stored in the session file
(owner-only permissions) and used by every other command. A console that is
already open picks the new session up automatically.

The password is read from --password, $COINFIXI_PASSWORD, or prompted.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in operator",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Admin email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Admin password")
	whoamiCmd.Flags().BoolVar(&whoamiRemote, "remote", false, "Ask the API who the token belongs to")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	email := loginEmail
	if email == "" {
		if email, err = prompt(in, out, "Email: "); err != nil {
			return err
		}
	}
	password := loginPassword
	if password == "" {
		password = os.Getenv("COINFIXI_PASSWORD")
	}
	if password == "" {
		if password, err = prompt(in, out, "Password: "); err != nil {
			return err
		}
	}

	ctx, cancel := e.withTimeout(cmd.Context())
	defer cancel()

	resp, err := e.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := e.store.Save(e.session); err != nil {
		return err
	}

	name := resp.User.Email
	if name == "" {
		name = email
	}
	logging.Get(logging.CategorySession).Infow("logged in", "email", name, "role", resp.User.Role)
	fmt.Fprintf(out, "Logged in as %s\n", name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	e.client.Logout()
	if err := e.store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireLogin(); err != nil {
		return err
	}

	user := e.session.User()
	if whoamiRemote {
		ctx, cancel := e.withTimeout(cmd.Context())
		defer cancel()
		if user, err = e.client.Me(ctx); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Email:   %s\n", orDash(user.Email))
	fmt.Fprintf(out, "Name:    %s\n", orDash(user.Name))
	fmt.Fprintf(out, "Role:    %s\n", orDash(user.Role))
	fmt.Fprintf(out, "API:     %s\n", e.client.BaseURL())
	if exp, ok := e.session.ExpiresAt(); ok {
		state := "valid"
		if e.session.Expired(time.Now()) {
			state = "expired"
		}
		fmt.Fprintf(out, "Expires: %s (%s)\n", exp.UTC().Format(time.RFC3339), state)
	}
	return nil
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
