package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"levelup/internal/engine"
	"levelup/internal/ui"
)

func newHeroesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heroes",
		Short: "List heroes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconHero, "Heroes"))
			a.View(func(doc *engine.Document, eng *engine.Engine) {
				for _, h := range doc.Heroes {
					pending := eng.PendingRewardCount(h)
					line := fmt.Sprintf("- %s %s %s lvl %d, %d/%d XP, %s %d",
						ui.Key.Render(h.ID), h.Name, ui.Muted.Render("("+h.Group+")"), h.Level, h.XP, h.XPMax, ui.IconMedal, h.Medals)
					if pending > 0 {
						line += " " + ui.Gold.Render(fmt.Sprintf("%s %d pending", ui.IconGift, pending))
					}
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
			})
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("source: %s", a.Source)))
			return nil
		},
	}

	return cmd
}
