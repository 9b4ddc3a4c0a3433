package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"kanaan-quiz-service/internal/app"
	"kanaan-quiz-service/internal/config"
	"kanaan-quiz-service/internal/domain"
	"kanaan-quiz-service/internal/infra/xlsx"
)

// NewLeaderboardCmd groups commands that inspect the configured leaderboard store.
func NewLeaderboardCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Inspect the shared leaderboard",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the top 10",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readLeaderboard(cmd, *configPath)
			if err != nil {
				return err
			}
			return printLeaderboard(cmd.OutOrStdout(), rows)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write the top 10 to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readLeaderboard(cmd, *configPath)
			if err != nil {
				return err
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := xlsx.WriteWorkbook(f, rows); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(rows), args[0])
			return nil
		},
	})
	return cmd
}

func readLeaderboard(cmd *cobra.Command, configPath string) ([]domain.LeaderboardRow, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	store, closeStore, err := newLeaderboardStore(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	defer closeStore()
	return app.NewLeaderboardService(store, newLogger(cfg), nil).Top(cmd.Context())
}

func printLeaderboard(w io.Writer, rows []domain.LeaderboardRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tSCORE\tDATE")
	for i, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", i+1, row.Name, row.Score, row.Date)
	}
	return tw.Flush()
}
