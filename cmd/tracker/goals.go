package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/microacademy/tracker/internal/actions"
	"github.com/microacademy/tracker/internal/types"
)

var (
	goalJSONOutput  bool
	goalDescription string
	goalTarget      int
	goalStyleID     string
	goalSDGs        []string

	doneNotes     string
	doneRating    int
	doneLessons   string
	doneNextSteps string
	doneTags      []string
	doneStyleName string
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage learning goals",
	Long:  "Create, list, progress, complete, and remove learning goals.",
}

var goalAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalAdd,
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	Args:  cobra.NoArgs,
	RunE:  runGoalList,
}

var goalProgressCmd = &cobra.Command{
	Use:   "progress <id> <delta>",
	Short: "Add progress to a goal",
	Args:  cobra.ExactArgs(2),
	RunE:  runGoalProgress,
}

var goalDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Complete a goal, recording it as a completed action",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalDone,
}

var goalRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a goal without completing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalRemove,
}

func init() {
	goalCmd.PersistentFlags().BoolVar(&goalJSONOutput, "json", false, "Output in JSON format")

	goalAddCmd.Flags().StringVar(&goalDescription, "description", "", "Goal description")
	goalAddCmd.Flags().IntVar(&goalTarget, "target", 10, "Target count to reach")
	goalAddCmd.Flags().StringVar(&goalStyleID, "style", "", "Learning style id")
	goalAddCmd.Flags().StringSliceVar(&goalSDGs, "sdg", nil, "Associated SDG ids")

	goalDoneCmd.Flags().StringVar(&doneNotes, "notes", "", "Completion notes")
	goalDoneCmd.Flags().IntVar(&doneRating, "rating", 0, "Impact rating 1-5 (0 leaves it unrated)")
	goalDoneCmd.Flags().StringVar(&doneLessons, "lessons", "", "Lessons learned")
	goalDoneCmd.Flags().StringVar(&doneNextSteps, "next-steps", "", "Planned next steps")
	goalDoneCmd.Flags().StringSliceVar(&doneTags, "tag", nil, "Tags for the completed action")
	goalDoneCmd.Flags().StringVar(&doneStyleName, "style-name", "", "Learning style display name")

	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalListCmd)
	goalCmd.AddCommand(goalProgressCmd)
	goalCmd.AddCommand(goalDoneCmd)
	goalCmd.AddCommand(goalRemoveCmd)
}

// findGoal resolves idOrPrefix against the goal list: exact id first, then a
// unique id prefix.
func findGoal(goals []types.Goal, idOrPrefix string) (int, error) {
	for i, g := range goals {
		if g.ID == idOrPrefix {
			return i, nil
		}
	}

	match := -1
	for i, g := range goals {
		if strings.HasPrefix(g.ID, idOrPrefix) {
			if match >= 0 {
				return -1, fmt.Errorf("goal id %q is ambiguous", idOrPrefix)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("goal %q not found", idOrPrefix)
	}
	return match, nil
}

func runGoalAdd(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if goalTarget <= 0 {
		return fmt.Errorf("target must be positive")
	}

	ctx := cmd.Context()
	current := app.sync.Load(ctx)

	goal := types.Goal{
		ID:              ulid.Make().String(),
		Title:           args[0],
		Description:     goalDescription,
		Target:          goalTarget,
		LearningStyleID: goalStyleID,
		SDGIDs:          goalSDGs,
	}
	current.Goals = append(current.Goals, goal)
	app.sync.Save(ctx, current)

	fmt.Fprintf(cmd.OutOrStdout(), "Added goal %s (%s)\n", goal.Title, goal.ID)
	return nil
}

func runGoalList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	current := app.sync.Load(cmd.Context())

	if goalJSONOutput {
		return printJSON(cmd.OutOrStdout(), current.Goals)
	}

	if len(current.Goals) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No goals yet.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tTITLE\tPROGRESS\tSTATUS")
	for _, g := range current.Goals {
		status := "active"
		if g.Completed {
			status = "completed"
		}
		fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\n", g.ID, g.Title, g.Progress, g.Target, status)
	}
	w.Flush()

	return nil
}

func runGoalProgress(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	delta, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("delta must be an integer: %w", err)
	}

	ctx := cmd.Context()
	current := app.sync.Load(ctx)

	i, err := findGoal(current.Goals, args[0])
	if err != nil {
		return err
	}
	current.Goals[i].ApplyProgress(delta)
	app.sync.Save(ctx, current)

	g := current.Goals[i]
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d\n", g.Title, g.Progress, g.Target)
	if g.Completed {
		fmt.Fprintln(cmd.OutOrStdout(), "Target reached. Run 'tracker goal done' to record it.")
	}
	return nil
}

func runGoalDone(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if doneRating < 0 || doneRating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, or 0 to leave unrated")
	}

	ctx := cmd.Context()
	current := app.sync.Load(ctx)

	i, err := findGoal(current.Goals, args[0])
	if err != nil {
		return err
	}
	goal := current.Goals[i]

	action := actions.NewFromGoal(goal, doneStyleName, actions.Extra{
		CompletionNotes: doneNotes,
		ImpactRating:    doneRating,
		LessonsLearned:  doneLessons,
		NextSteps:       doneNextSteps,
		Tags:            doneTags,
	})
	if err := app.actions.Save(ctx, action); err != nil {
		return fmt.Errorf("record completed action: %w", err)
	}

	// Only drop the goal once the completion record is durable.
	current.Goals = append(current.Goals[:i], current.Goals[i+1:]...)
	app.sync.Save(ctx, current)

	fmt.Fprintf(cmd.OutOrStdout(), "Completed %s (action %s)\n", goal.Title, action.ID)
	return nil
}

func runGoalRemove(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	current := app.sync.Load(ctx)

	i, err := findGoal(current.Goals, args[0])
	if err != nil {
		return err
	}
	removed := current.Goals[i]
	current.Goals = append(current.Goals[:i], current.Goals[i+1:]...)
	app.sync.Save(ctx, current)

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", removed.Title)
	return nil
}
