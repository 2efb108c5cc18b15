package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microacademy/tracker/internal/snapshot"
)

var backupShowURL bool

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload a backup of the local database",
	Long:  "Snapshot the local database and upload it to the configured S3-compatible bucket.",
	Args:  cobra.NoArgs,
	RunE:  runBackup,
}

func init() {
	backupCmd.Flags().BoolVar(&backupShowURL, "url", false, "Print a pre-signed download URL for the uploaded backup")
}

func runBackup(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()

	snap, err := snapshot.New(app.cfg.Backup)
	if err != nil {
		return err
	}
	if !snap.Configured() {
		return snapshot.ErrNotConfigured
	}

	user := app.client.CachedUser(ctx)
	if user == nil || user.ID == "" {
		return fmt.Errorf("sign in before backing up; backups are stored per account")
	}

	if err := snap.Backup(ctx, app.db, user.ID); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Backup uploaded.")

	if backupShowURL {
		url, expiry, err := snap.DownloadURL(ctx, user.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n(expires %s)\n", url, expiry.Format("2006-01-02 15:04 MST"))
	}

	return nil
}
