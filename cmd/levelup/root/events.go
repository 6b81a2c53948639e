package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"levelup/internal/engine"
	"levelup/internal/ui"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events [hero_id]",
		Short: "List events and bosses, with eligibility for a hero",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var heroErr error
			a.View(func(doc *engine.Document, eng *engine.Engine) {
				var hero *engine.Hero
				if len(args) == 1 {
					hero, heroErr = doc.Hero(args[0])
					if heroErr != nil {
						return
					}
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, ui.Heading(ui.IconBoss, "Events"))
				for _, ev := range doc.Events {
					lock := ui.IconUnlock
					if !eng.IsUnlocked(ev) {
						lock = ui.IconLock
					}
					line := fmt.Sprintf("- %s %s %s %s", lock, ui.EventIcon(ev.Kind), ui.Key.Render(ev.ID), ev.Title)
					if ev.Unlock != nil && ev.Unlock.Label != "" {
						line += " " + ui.Muted.Render("("+ev.Unlock.Label+")")
					}
					if hero != nil {
						if defeated(hero, ev.ID) {
							line += " " + ui.Good.Render(ui.IconDone+" defeated")
						} else if eng.IsEligible(hero, ev) {
							line += " " + ui.Gold.Render("eligible")
						} else {
							line += " " + ui.Muted.Render("not eligible")
						}
					}
					fmt.Fprintln(out, line)
				}
			})
			return heroErr
		},
	}

	return cmd
}

func defeated(hero *engine.Hero, eventID string) bool {
	for _, id := range hero.DefeatedBosses {
		if id == eventID {
			return true
		}
	}
	return false
}

func newDefeatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defeat <hero_id> <event_id>",
		Short: "Record a boss defeat for a hero",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("hero_id and event_id are required")
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

			if err := a.MarkBossDefeated(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Gold.Render(ui.IconTrophy+" Defeated"), ui.Muted.Render(args[1]))
			return nil
		},
	}

	return cmd
}
