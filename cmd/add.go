package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/phrasely/internal/spacedrep"
	"github.com/abhisek/phrasely/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add --group NAME FRONT BACK",
	Short: "Add one phrase to a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		name, _ := cmd.Flags().GetString("group")
		g, err := lookupGroup(cmd, e.store, name)
		if err != nil {
			return err
		}

		front, back := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
		it := spacedrep.NewItem(uuid.NewString(), g.ID, front, back, time.Now())
		err = e.store.Items().Create(cmd.Context(), it)
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("%q is already in group %s", front, g.Name)
		}
		if err != nil {
			return fmt.Errorf("add phrase: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", front, it.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().String("group", "", "Group to add the phrase to")
	_ = addCmd.MarkFlagRequired("group")
}
