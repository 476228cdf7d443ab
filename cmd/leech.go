package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/phrasely/internal/mastery"
	"github.com/abhisek/phrasely/internal/spacedrep"
	"github.com/abhisek/phrasely/internal/store"
)

var leechesCmd = &cobra.Command{
	Use:   "leeches",
	Short: "List phrases that keep failing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		leeches, err := e.store.Items().ListLeeches(cmd.Context(), e.policy)
		if err != nil {
			return fmt.Errorf("list leeches: %w", err)
		}
		if len(leeches) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No leeches.")
			return nil
		}

		now := time.Now()
		t := newTable("ID", "FRONT", "BACK", "LAPSES", "HARD", "WEIGHT", "NEXT")
		for _, it := range leeches {
			t.row(it.ID, it.Front, it.Back, strconv.Itoa(it.Lapses), strconv.Itoa(it.HardLapses),
				strconv.Itoa(spacedrep.LeechWeight(it)), formatAge(it.Until(now)))
		}
		t.write(cmd.OutOrStdout())
		return nil
	},
}

var leechCmd = &cobra.Command{
	Use:   "leech ITEM_ID retry|reset|postpone",
	Short: "Resolve a leech",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, err := parseLeechArg(args[1])
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		it, err := e.store.Items().Get(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("unknown phrase %q", args[0])
		}
		if err != nil {
			return fmt.Errorf("get phrase: %w", err)
		}
		enabled, err := e.store.Groups().EnabledSet(ctx)
		if err != nil {
			return fmt.Errorf("load groups: %w", err)
		}

		res, err := e.machine.ApplyLeechAction(it, action, enabled, time.Now())
		if err != nil {
			return err
		}
		if _, err := e.store.RecordReview(ctx, res.Item, res.Entry); err != nil {
			return fmt.Errorf("record %s: %w", action, err)
		}
		e.logger.Info("leech resolved", "item", it.ID, "action", action)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, next review %s\n",
			it.Front, action, res.Item.NextReviewAt.Local().Format(time.DateTime))
		return nil
	},
}

// parseLeechArg accepts the short names shown in usage as well as the full
// action names.
func parseLeechArg(s string) (mastery.LeechAction, error) {
	switch s {
	case "retry":
		return mastery.RetryShort, nil
	case "reset":
		return mastery.ResetProgress, nil
	}
	a, err := mastery.ParseLeechAction(s)
	if err != nil {
		return 0, fmt.Errorf("unknown leech action %q (want retry, reset or postpone)", s)
	}
	return a, nil
}
