package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/phrasely/internal/importer"
	"github.com/abhisek/phrasely/internal/spacedrep"
	"github.com/abhisek/phrasely/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import phrases from a YAML or JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := importer.Load(args[0])
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := importFile(cmd.Context(), e.store, f, time.Now())
		if err != nil {
			return err
		}
		e.logger.Info("phrases imported", "group", res.Group.Name, "added", res.Added, "skipped", res.Skipped)

		if res.GroupCreated {
			fmt.Fprintf(cmd.OutOrStdout(), "Created group %s\n", res.Group.Name)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d phrases into %s (%d already present)\n",
			res.Added, res.Group.Name, res.Skipped)
		return nil
	},
}

// importFile adds the phrases of f to its group in one transaction,
// creating the group if needed. Phrases whose front is already in the group
// are skipped. Creation times step by a millisecond so the file order is
// kept as review order.
func importFile(ctx context.Context, st *store.Store, f importer.File, now time.Time) (store.ImportResult, error) {
	skipped := 0
	res, err := st.Import(ctx, f.Group, now, func(g store.Group, existing []spacedrep.Item) []spacedrep.Item {
		seen := make(map[string]bool, len(existing))
		for _, it := range existing {
			seen[importer.Key(it.Front)] = true
		}
		var items []spacedrep.Item
		for i, p := range f.Phrases {
			if seen[importer.Key(p.Front)] {
				skipped++
				continue
			}
			at := now.Add(time.Duration(i) * time.Millisecond)
			items = append(items, spacedrep.NewItem(uuid.NewString(), g.ID, p.Front, p.Back, at))
		}
		return items
	})
	if err != nil {
		return store.ImportResult{}, fmt.Errorf("import %s: %w", f.Group, err)
	}
	res.Skipped += skipped
	return res, nil
}
