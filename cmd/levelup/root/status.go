package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"levelup/internal/engine"
	"levelup/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <hero_id>",
		Short: "Show a hero's sheet: level, XP, stats and pending rewards",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("hero_id is required")
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

			var heroErr error
			a.View(func(doc *engine.Document, eng *engine.Engine) {
				h, err := doc.Hero(args[0])
				if err != nil {
					heroErr = err
					return
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, ui.Heading(ui.IconHero, h.Name))
				fmt.Fprintln(out, ui.LabelValue("Level", h.Level))
				fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d/%d", h.XP, h.XPMax)))
				fmt.Fprintln(out, ui.LabelValue("Week XP", fmt.Sprintf("%d/%d", h.WeekXP, h.WeekXPMax)))
				fmt.Fprintln(out, ui.LabelValue("Medals", fmt.Sprintf("%s %d", ui.IconMedal, h.Medals)))
				if h.NextChallengeMultiplier > 1 {
					fmt.Fprintln(out, ui.Gold.Render(ui.IconSparkle+" next challenge pays double XP"))
				}
				fmt.Fprintln(out, "")

				fmt.Fprintln(out, ui.H2.Render("📊 Stats"))
				for _, k := range engine.AllStats {
					fmt.Fprintf(out, "- %s %s: %d/%d\n", ui.StatIcon(k), k, h.Stats.Get(k), engine.StatCap)
				}
				fmt.Fprintln(out, "")

				fmt.Fprintln(out, ui.H2.Render(ui.IconMedal+" Bonus medal"))
				w := eng.WindowProgress(h)
				if w.Eligible {
					fmt.Fprintln(out, ui.Good.Render("- earned for this level"))
				} else {
					fmt.Fprintf(out, "- %d/3 challenges this level\n", w.Total)
					if w.NeedMedium {
						fmt.Fprintln(out, "- still needs a medium challenge")
					}
					if w.NeedHard {
						fmt.Fprintln(out, "- still needs a hard challenge")
					}
				}
				fmt.Fprintln(out, "")

				fmt.Fprintln(out, ui.H2.Render(ui.IconGift+" Pending rewards"))
				if eng.PendingRewardCount(h) == 0 {
					fmt.Fprintln(out, ui.Muted.Render("- none"))
				} else {
					head := eng.PeekNextReward(h)
					for i := range h.PendingRewards {
						p := &h.PendingRewards[i]
						state := ui.Good.Render("ready to claim")
						if p.State() == engine.RewardNeedsAutoStat {
							opts := make([]string, len(p.AutoStat.Options))
							for j, k := range p.AutoStat.Options {
								opts[j] = string(k)
							}
							state = ui.Warn.Render("stat pick due: " + strings.Join(opts, ", "))
						}
						marker := "  "
						if p == head {
							marker = "→ "
						}
						fmt.Fprintf(out, "%slevel %d (%s)\n", marker, p.Level, state)
					}
				}
			})
			return heroErr
		},
	}

	return cmd
}
