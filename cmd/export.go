package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/phrasely/internal/spacedrep"
	"github.com/abhisek/phrasely/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write phrases and their review state as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		var groups []store.Group
		if name, _ := cmd.Flags().GetString("group"); name != "" {
			g, err := lookupGroup(cmd, e.store, name)
			if err != nil {
				return err
			}
			groups = []store.Group{g}
		} else {
			groups, err = e.store.Groups().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list groups: %w", err)
			}
		}
		return exportGroups(cmd.Context(), e.store, groups, cmd.OutOrStdout())
	},
}

func init() {
	exportCmd.Flags().String("group", "", "Export only this group")
}

type exportedGroup struct {
	Group   string           `yaml:"group"`
	Enabled bool             `yaml:"enabled"`
	Items   []spacedrep.Item `yaml:"items"`
}

func exportGroups(ctx context.Context, st *store.Store, groups []store.Group, w io.Writer) error {
	out := make([]exportedGroup, 0, len(groups))
	for _, g := range groups {
		items, err := st.Items().ListByGroup(ctx, g.ID)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		out = append(out, exportedGroup{Group: g.Name, Enabled: g.Enabled, Items: items})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
