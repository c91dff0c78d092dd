package cli

import (
	"context"
	"fmt"
	"io"

	"campus-map-quiz/internal/app"
	"campus-map-quiz/internal/config"
	"campus-map-quiz/internal/presentation"
	"github.com/spf13/cobra"
)

// NewScoresCmd prints the best-times board stored in the configured backend.
func NewScoresCmd(configPath *string) *cobra.Command {
	var playerID string
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Print the five fastest perfect runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return printScores(cmd.Context(), cmd.OutOrStdout(), cfg, playerID)
		},
	}
	cmd.Flags().StringVar(&playerID, "player", "", "player id whose board to print")
	return cmd
}

func printScores(ctx context.Context, w io.Writer, cfg config.Config, playerID string) error {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	store := app.NewScoreStore(st.kv, app.PlayerScoresKey(quizOptions(cfg).ScoresKey, playerID))
	board, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if len(board) == 0 {
		fmt.Fprintln(w, "no perfect runs recorded")
		return nil
	}
	for _, line := range presentation.ScoreLines(board) {
		fmt.Fprintf(w, "%d. %s (%s)\n", line.Rank, line.Time, line.Date)
	}
	return nil
}
