package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/microacademy/tracker/internal/actions"
	"github.com/microacademy/tracker/internal/types"
)

var (
	actionsIncludeArchived bool
	actionsJSONOutput      bool
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List completed actions",
	Args:  cobra.NoArgs,
	RunE:  runActionsList,
}

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Manage a completed action",
}

var actionArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a completed action",
	Args:  cobra.ExactArgs(1),
	RunE:  runActionArchive,
}

var actionDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a completed action permanently",
	Args:  cobra.ExactArgs(1),
	RunE:  runActionDelete,
}

func init() {
	actionsCmd.Flags().BoolVar(&actionsIncludeArchived, "all", false, "Include archived actions")
	actionsCmd.Flags().BoolVar(&actionsJSONOutput, "json", false, "Output in JSON format")

	actionCmd.AddCommand(actionArchiveCmd)
	actionCmd.AddCommand(actionDeleteCmd)
}

// resolveActionID expands an id prefix against the stored collection.
func resolveActionID(records []types.CompletedAction, idOrPrefix string) (string, error) {
	for _, a := range records {
		if a.ID == idOrPrefix {
			return a.ID, nil
		}
	}

	match := ""
	for _, a := range records {
		if strings.HasPrefix(a.ID, idOrPrefix) {
			if match != "" {
				return "", fmt.Errorf("action id %q is ambiguous", idOrPrefix)
			}
			match = a.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("action %q not found", idOrPrefix)
	}
	return match, nil
}

func runActionsList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()

	var records []types.CompletedAction
	if actionsIncludeArchived {
		records, err = app.actions.List(ctx)
	} else {
		records, err = app.actions.Active(ctx)
	}
	if err != nil {
		return err
	}

	if actionsJSONOutput {
		return printJSON(cmd.OutOrStdout(), records)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No completed actions.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tTITLE\tCOMPLETED\tRATING\tSTATUS")
	for _, a := range records {
		rating := "-"
		if a.ImpactRating != nil {
			rating = fmt.Sprintf("%d/5", *a.ImpactRating)
		}
		status := "active"
		if a.IsArchived {
			status = "archived"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			a.ID,
			a.Title,
			a.CompletedAt.Format("2006-01-02"),
			rating,
			status,
		)
	}
	w.Flush()

	return nil
}

func runActionArchive(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	records, err := app.actions.List(ctx)
	if err != nil {
		return err
	}
	id, err := resolveActionID(records, args[0])
	if err != nil {
		return err
	}

	if err := app.actions.Archive(ctx, id); err != nil {
		if errors.Is(err, actions.ErrNotFound) {
			return fmt.Errorf("action %q not found", args[0])
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", id)
	return nil
}

func runActionDelete(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	records, err := app.actions.List(ctx)
	if err != nil {
		return err
	}
	id, err := resolveActionID(records, args[0])
	if err != nil {
		return err
	}

	if err := app.actions.Delete(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
	return nil
}
