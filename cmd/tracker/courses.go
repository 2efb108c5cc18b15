package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var coursesJSONOutput bool

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the course library",
	Args:  cobra.NoArgs,
	RunE:  runCourses,
}

var courseCmd = &cobra.Command{
	Use:   "course <id>",
	Short: "Show a single course",
	Args:  cobra.ExactArgs(1),
	RunE:  runCourse,
}

func init() {
	coursesCmd.Flags().BoolVar(&coursesJSONOutput, "json", false, "Output in JSON format")
}

func runCourses(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	courses, err := app.client.Courses(cmd.Context())
	if err != nil {
		return err
	}

	if coursesJSONOutput {
		return printJSON(cmd.OutOrStdout(), courses)
	}

	if len(courses) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No courses available.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tTITLE\tLEVEL\tDURATION")
	for _, c := range courses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Title, c.Level, c.Duration)
	}
	w.Flush()

	return nil
}

func runCourse(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	course, err := app.client.Course(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), course)
}
