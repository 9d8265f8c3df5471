package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/mimic/internal/game"
	"github.com/zjrosen/mimic/internal/infrastructure/sqlite"
	"github.com/zjrosen/mimic/internal/store"
)

var scoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the high score and recent games",
	RunE:  runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&scoresLimit, "limit", "n", 10, "number of recent games to show")
	rootCmd.AddCommand(scoresCmd)
}

func runScores(cmd *cobra.Command, _ []string) error {
	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	return printScores(cmd.OutOrStdout(), db, scoresLimit)
}

func printScores(w io.Writer, db *sqlite.DB, limit int) error {
	high := 0
	if raw, ok, err := db.Settings().Load(store.KeyHighScore); err != nil {
		return err
	} else if ok {
		high, _ = strconv.Atoi(raw)
	}
	best, err := db.GameResults().BestScore()
	if err != nil {
		return err
	}
	recent, err := db.GameResults().ListRecent(limit)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "High score: %d\n", high)
	for _, d := range game.Difficulties {
		if s, ok := best[d]; ok {
			_, _ = fmt.Fprintf(w, "  %-7s %d\n", d, s)
		}
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "Recent games:")
	if len(recent) == 0 {
		_, _ = fmt.Fprintln(w, "  (none)")
		return nil
	}
	for _, r := range recent {
		_, _ = fmt.Fprintf(w, "  %s  %-7s %-10s %3d  %-8s %s\n",
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			r.Difficulty, r.SoundPack, r.Score, r.Reason,
			r.Duration().Round(time.Second))
	}
	return nil
}
