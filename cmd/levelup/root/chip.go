package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"levelup/internal/ui"
)

func newChipCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "chip <hero_id> [amount]",
		Short: "Grant weekly activity XP (capped by the weekly quota)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return errors.New("hero_id is required")
			}
			if len(args) == 2 {
				if n, err := strconv.Atoi(args[1]); err != nil || n <= 0 {
					return errors.New("amount must be a positive integer")
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if reset {
				if err := a.ResetWeek(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("🔄 Weekly quota reset"))
				return nil
			}

			amount := 5
			if len(args) == 2 {
				amount, _ = strconv.Atoi(args[1])
			}
			granted, err := a.GrantWeekXP(ctx, args[0], amount)
			if err != nil {
				return err
			}
			if granted == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconWarn+" Weekly quota exhausted, nothing granted"))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(ui.IconBolt+" Granted"), ui.Key.Render(fmt.Sprintf("+%d XP", granted)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Reset the weekly quota instead of granting")

	return cmd
}
