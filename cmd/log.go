package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent review log entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := e.store.Log().Recent(ctx, limit)
		if err != nil {
			return fmt.Errorf("read review log: %w", err)
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No reviews yet.")
			return nil
		}

		fronts := make(map[string]string)
		t := newTable("SEQ", "AT", "PHRASE", "ACTION", "LEVEL", "NEXT IN", "")
		for _, en := range entries {
			front, ok := fronts[en.ItemID]
			if !ok {
				if it, err := e.store.Items().Get(ctx, en.ItemID); err == nil {
					front = it.Front
				} else {
					front = en.ItemID
				}
				fronts[en.ItemID] = front
			}

			var mark string
			switch {
			case en.CrossedIntoLeech:
				mark = "leech"
			case en.MasteredAfter && !en.MasteredBefore:
				mark = "mastered"
			}
			t.row(strconv.FormatInt(en.Sequence, 10), en.At.Local().Format(time.DateTime), front, en.Action,
				fmt.Sprintf("%d→%d", en.Before.MasteryLevel, en.After.MasteryLevel),
				formatAge(en.Interval), mark)
		}
		t.write(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	logCmd.Flags().Int("limit", 20, "Number of entries to show (0 = all retained)")
}
