package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// passwordFromEnv reads TRACKER_PASSWORD for non-interactive use.
func passwordFromEnv() string {
	return strings.TrimSpace(os.Getenv("TRACKER_PASSWORD"))
}

var signupCmd = &cobra.Command{
	Use:   "signup <email> <name>",
	Short: "Create an account on the remote service",
	Args:  cobra.ExactArgs(2),
	RunE:  runSignup,
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in and store the session locally",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in profile",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

// readPassword prompts for a password on stdin. TRACKER_PASSWORD skips the
// prompt for scripted use.
func readPassword(cmd *cobra.Command) (string, error) {
	if v := passwordFromEnv(); v != "" {
		return v, nil
	}

	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return password, nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	email, name := args[0], args[1]
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if _, err := app.client.Signup(ctx, email, password, name); err != nil {
		return err
	}

	// Signup does not establish a session; log in right away so the first
	// sync can run.
	if _, err := app.client.Login(ctx, email, password); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Account created. Signed in as %s.\n", email)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	resp, err := app.client.Login(ctx, args[0], password)
	if err != nil {
		return err
	}

	// Adopt the account's state as the working copy.
	app.sync.Load(ctx)

	name := args[0]
	if resp.User != nil && resp.User.Name != "" {
		name = resp.User.Name
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()

	// Push anything still pending before dropping the session.
	if err := app.sync.Flush(ctx); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Warning: some changes could not be pushed and will be lost.")
	}

	if err := app.client.Logout(ctx); err != nil {
		return err
	}
	if err := app.sync.Clear(ctx); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	if !app.client.IsAuthenticated(ctx) {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in (guest mode).")
		return nil
	}

	user, err := app.client.CurrentUser(ctx)
	if err != nil {
		// Offline: fall back to the cached profile.
		if cached := app.client.CachedUser(ctx); cached != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (cached)\n", cached.Name, cached.Email)
			return nil
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.Name, user.Email)
	return nil
}
