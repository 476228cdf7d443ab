package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/phrasely/internal/spacedrep"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the phrases up for review, in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		enabled, err := e.store.Groups().EnabledSet(ctx)
		if err != nil {
			return fmt.Errorf("load groups: %w", err)
		}
		items, err := e.store.Items().ListAll(ctx)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		pool := items[:0]
		for _, it := range items {
			if enabled(it.GroupID) {
				pool = append(pool, it)
			}
		}

		now := time.Now()
		ranked := spacedrep.Rank(pool, now)
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(ranked) > limit {
			ranked = ranked[:limit]
		}
		if len(ranked) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Nothing due. %d phrases scheduled.\n", len(pool))
			return nil
		}

		t := newTable("#", "FRONT", "STATUS", "LEVEL", "OVERDUE", "ID")
		for i, it := range ranked {
			t.row(strconv.Itoa(i+1), it.Front, string(e.policy.Status(it, now)),
				strconv.Itoa(it.MasteryLevel), formatAge(it.OverdueBy(now)), it.ID)
		}
		t.write(cmd.OutOrStdout())
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d due\n", spacedrep.DueCount(pool, now))
		return nil
	},
}

func init() {
	queueCmd.Flags().Int("limit", 20, "Maximum phrases to show (0 = all)")
}

// formatAge renders d in the largest whole unit.
func formatAge(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	default:
		return fmt.Sprintf("%ds", int(d/time.Second))
	}
}
