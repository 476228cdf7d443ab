package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/phrasely/internal/app"
	"github.com/abhisek/phrasely/internal/screens/review"
	"github.com/abhisek/phrasely/internal/session"
	"github.com/abhisek/phrasely/internal/spacedrep"
	"github.com/abhisek/phrasely/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Start a review session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd)
	},
}

func init() {
	reviewCmd.Flags().String("group", "", "Review only this group")
	reviewCmd.Flags().Int("limit", -1, "Maximum responses this session (0 = unlimited, default from config)")
}

// runReview opens the store, builds the session and launches the TUI.
func runReview(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	groupName, _ := cmd.Flags().GetString("group")
	pool, mastered, err := sessionPredicates(ctx, e.store, groupName)
	if err != nil {
		return err
	}

	items, err := e.store.Items().ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}
	if len(items) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No phrases yet. Add some with `phrasely add` or `phrasely import`.")
		return nil
	}

	history, err := e.store.Log().Load(ctx, e.cfg.LogCapacity)
	if err != nil {
		return fmt.Errorf("load review log: %w", err)
	}

	limit := e.cfg.SessionSize
	if l, _ := cmd.Flags().GetInt("limit"); l >= 0 {
		limit = l
	}

	coord := session.New(e.machine, e.store, items, session.Options{
		Enabled:    pool,
		MasteredIn: mastered,
		History:    history,
		Limit:      limit,
		Logger:     e.logger,
	}, time.Now())

	runErr := app.Run(review.New(ctx, coord, nil))

	if _, err := e.store.Log().Prune(ctx, e.cfg.LogCapacity); err != nil {
		e.logger.Warn("prune review log", "error", err)
	}
	return runErr
}

// sessionPredicates returns the groups that make up a session's pool and
// the groups that count toward mastery. A named group is reviewed on its own
// even when disabled; mastery always follows the enabled groups.
func sessionPredicates(ctx context.Context, st *store.Store, groupName string) (pool, mastered spacedrep.GroupPredicate, err error) {
	enabled, err := st.Groups().EnabledSet(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load groups: %w", err)
	}
	if groupName == "" {
		return enabled, enabled, nil
	}
	g, err := st.Groups().GetByName(ctx, groupName)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, fmt.Errorf("unknown group %q", groupName)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get group: %w", err)
	}
	return spacedrep.EnabledSet(map[string]bool{g.ID: true}), enabled, nil
}
