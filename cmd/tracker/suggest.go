package main

import (
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/microacademy/tracker/internal/suggest"
	"github.com/microacademy/tracker/internal/types"
)

var suggestAdd bool

var suggestCmd = &cobra.Command{
	Use:   "suggest <topic>",
	Short: "Suggest a goal for a topic",
	Long:  "Ask the configured model to draft a learning goal for the given topic.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().BoolVar(&suggestAdd, "add", false, "Add the suggested goal immediately")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if app.cfg.Suggest.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}

	ctx := cmd.Context()
	suggester := suggest.NewOpenAI(app.cfg.Suggest.APIKey, app.cfg.Suggest.Model)

	draft, err := suggester.SuggestGoal(ctx, args[0])
	if err != nil {
		return fmt.Errorf("suggest goal: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", draft.Title)
	if draft.Description != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", draft.Description)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Target: %d\n", draft.Target)

	if !suggestAdd {
		return nil
	}

	current := app.sync.Load(ctx)
	goal := types.Goal{
		ID:          ulid.Make().String(),
		Title:       draft.Title,
		Description: draft.Description,
		Target:      draft.Target,
	}
	current.Goals = append(current.Goals, goal)
	app.sync.Save(ctx, current)

	fmt.Fprintf(cmd.OutOrStdout(), "Added goal %s\n", goal.ID)
	return nil
}
