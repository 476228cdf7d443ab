package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/phrasely/internal/reviewlog"
	"github.com/abhisek/phrasely/internal/spacedrep"
	"github.com/abhisek/phrasely/internal/ui/components"
	"github.com/abhisek/phrasely/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		st, err := collectStats(cmd.Context(), e, time.Now())
		if err != nil {
			return err
		}
		st.write(cmd.OutOrStdout())
		return nil
	},
}

type stats struct {
	Phrases  int
	New      int
	Due      int
	Mastered int
	Leeches  int
	Log      reviewlog.Summary
}

func collectStats(ctx context.Context, e *env, now time.Time) (stats, error) {
	enabled, err := e.store.Groups().EnabledSet(ctx)
	if err != nil {
		return stats{}, fmt.Errorf("load groups: %w", err)
	}
	items, err := e.store.Items().ListAll(ctx)
	if err != nil {
		return stats{}, fmt.Errorf("list items: %w", err)
	}
	entries, err := e.store.Log().Recent(ctx, e.cfg.LogCapacity)
	if err != nil {
		return stats{}, fmt.Errorf("read review log: %w", err)
	}

	var (
		s    stats
		pool []spacedrep.Item
	)
	for _, it := range items {
		if !enabled(it.GroupID) {
			continue
		}
		pool = append(pool, it)
		s.Phrases++
		if it.IsNew() {
			s.New++
		}
		if it.IsDue(now) {
			s.Due++
		}
		if e.machine.IsMastered(it, enabled) {
			s.Mastered++
		}
	}
	s.Leeches = len(e.policy.Leeches(pool))
	s.Log = reviewlog.Summarize(entries)
	return s, nil
}

func (s stats) write(w io.Writer) {
	fmt.Fprintln(w, theme.Title.Render("Phrases"))
	fmt.Fprintf(w, "  total %d   new %d   due %d   mastered %d   leeches %d\n",
		s.Phrases, s.New, s.Due, s.Mastered, s.Leeches)
	if s.Phrases > 0 {
		bar := components.RatioBar{Label: "  mastered", Ratio: float64(s.Mastered) / float64(s.Phrases), ShowPercent: true, Width: 50}
		fmt.Fprintln(w, bar.View())
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, theme.Title.Render("Reviews"))
	if s.Log.Total == 0 {
		fmt.Fprintln(w, "  none yet")
		return
	}
	fmt.Fprintf(w, "  %d reviews since %s\n", s.Log.Total, s.Log.First.Local().Format(time.DateOnly))
	fmt.Fprintf(w, "  know %d   forgot %d   dont_know %d\n",
		s.Log.ByAction["know"], s.Log.ByAction["forgot"], s.Log.ByAction["dont_know"])
	fmt.Fprintf(w, "  new introduced %d   newly mastered %d   leech crossings %d\n",
		s.Log.NewIntroduced, s.Log.NewlyMastered, s.Log.LeechCrossings)
	bar := components.RatioBar{Label: "  accuracy", Ratio: s.Log.Accuracy(), ShowPercent: true, Width: 50}
	fmt.Fprintln(w, bar.View())
}
