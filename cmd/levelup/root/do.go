package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"levelup/internal/ui"
)

func newDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <hero_id> <challenge_id>",
		Short: "Toggle a challenge completion",
		Long: `Toggle a challenge between completed and not-completed.

Completing awards the challenge's XP (doubled when a pending multiplier is
active) and a medal for hard challenges. Toggling a completed challenge
undoes it, reversing exactly what was awarded.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("hero_id and challenge_id are required")
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

			res, err := a.ToggleChallenge(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Completed {
				fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconDone+" Completed"), ui.Muted.Render(args[1]), ui.Key.Render(fmt.Sprintf("+%d XP", res.Awarded)))
			} else {
				fmt.Fprintf(out, "%s %s %s\n", ui.Warn.Render("↩ Undone"), ui.Muted.Render(args[1]), ui.Muted.Render(fmt.Sprintf("(%d XP)", res.Awarded)))
			}
			if res.LevelAfter != res.LevelBefore {
				fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%d → %d", res.LevelBefore, res.LevelAfter)))
				if res.LevelAfter > res.LevelBefore {
					fmt.Fprintln(out, ui.BadgeLevelUp+" "+ui.Muted.Render("run `levelup status` to resolve the stat pick"))
				} else {
					fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" Level decreased"))
				}
			}
			return nil
		},
	}

	return cmd
}
