package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/phrasely/internal/store"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage phrase groups",
}

var groupAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		g, err := e.store.Groups().Create(cmd.Context(), args[0], time.Now())
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("group %q already exists", args[0])
		}
		if err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created group %s\n", g.Name)
		return nil
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		groups, err := e.store.Groups().List(ctx)
		if err != nil {
			return fmt.Errorf("list groups: %w", err)
		}
		if len(groups) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No groups.")
			return nil
		}

		now := time.Now()
		t := newTable("NAME", "ENABLED", "PHRASES", "MASTERED", "CREATED")
		for _, g := range groups {
			items, err := e.store.Items().ListByGroup(ctx, g.ID)
			if err != nil {
				return fmt.Errorf("list items: %w", err)
			}
			mastered := 0
			for _, it := range items {
				if it.IsMastered {
					mastered++
				}
			}
			t.row(g.Name, yesNo(g.Enabled), strconv.Itoa(len(items)), strconv.Itoa(mastered), formatAge(now.Sub(g.CreatedAt)))
		}
		t.write(cmd.OutOrStdout())
		return nil
	},
}

var groupEnableCmd = &cobra.Command{
	Use:   "enable NAME",
	Short: "Include a group in reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setGroupEnabled(cmd, args[0], true)
	},
}

var groupDisableCmd = &cobra.Command{
	Use:   "disable NAME",
	Short: "Exclude a group from reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setGroupEnabled(cmd, args[0], false)
	},
}

var groupRmCmd = &cobra.Command{
	Use:   "rm NAME",
	Short: "Delete a group and its phrases",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		g, err := lookupGroup(cmd, e.store, args[0])
		if err != nil {
			return err
		}
		if err := e.store.Groups().Delete(ctx, g.ID); err != nil {
			return fmt.Errorf("delete group: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %s\n", g.Name)
		return nil
	},
}

func init() {
	groupCmd.AddCommand(groupAddCmd)
	groupCmd.AddCommand(groupListCmd)
	groupCmd.AddCommand(groupEnableCmd)
	groupCmd.AddCommand(groupDisableCmd)
	groupCmd.AddCommand(groupRmCmd)
}

func setGroupEnabled(cmd *cobra.Command, name string, enabled bool) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	g, err := lookupGroup(cmd, e.store, name)
	if err != nil {
		return err
	}
	changed, err := e.store.Groups().SetEnabled(cmd.Context(), g.ID, enabled, e.machine.Refresh)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	state := "Disabled"
	if enabled {
		state = "Enabled"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s group %s\n", state, g.Name)
	if changed > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Updated mastery of %d items\n", changed)
	}
	return nil
}

func lookupGroup(cmd *cobra.Command, st *store.Store, name string) (store.Group, error) {
	g, err := st.Groups().GetByName(cmd.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		return store.Group{}, fmt.Errorf("unknown group %q", name)
	}
	if err != nil {
		return store.Group{}, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
