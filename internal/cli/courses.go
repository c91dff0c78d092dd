package cli

import (
	"context"
	"fmt"
	"io"

	"campus-map-quiz/internal/config"
	"github.com/spf13/cobra"
)

// NewCoursesCmd lists the courses the server would offer.
func NewCoursesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List available courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return printCourses(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
}

func printCourses(ctx context.Context, w io.Writer, cfg config.Config) error {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	courses, err := st.courses.ListCourses(ctx)
	if err != nil {
		return err
	}
	for _, c := range courses {
		fmt.Fprintf(w, "%s\t%s\t%d locations\n", c.ID, c.Name, len(c.Locations))
	}
	return nil
}
