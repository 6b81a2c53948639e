package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"levelup/internal/engine"
	"levelup/internal/ui"
)

func newPickStatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pickstat <hero_id> <stat>",
		Short: "Resolve the mandatory stat pick on the next pending reward",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("hero_id and stat are required")
			}
			if _, ok := engine.ParseStatKey(args[1]); !ok {
				return errors.New("stat must be one of INT, SAB, CAR, RES, CRE")
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

			stat, _ := engine.ParseStatKey(args[1])
			if err := a.ApplyAutoStat(ctx, args[0], stat); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s +1 applied, reward is ready to claim\n",
				ui.Good.Render(ui.IconBolt+" Stat"), ui.Key.Render(string(stat)))
			return nil
		},
	}

	return cmd
}

func newClaimCmd() *cobra.Command {
	var statFlag string

	cmd := &cobra.Command{
		Use:   "claim <hero_id> [reward_id]",
		Short: "Claim the next pending reward",
		Long: `Claim the next pending reward. Without a reward_id the catalog is listed.

The queue is first-in first-out: only the oldest pending reward can be
claimed, and its stat pick must be resolved first (see pickstat).`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return errors.New("hero_id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				fmt.Fprintln(out, ui.Heading(ui.IconGift, "Reward catalog"))
				for _, opt := range engine.RewardCatalog {
					fmt.Fprintf(out, "- %s %s %s %s\n", opt.Icon, ui.Key.Render(opt.ID), opt.Label, ui.Muted.Render(opt.Desc))
				}
				return nil
			}

			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var extraStat *engine.StatKey
			if statFlag != "" {
				stat, ok := engine.ParseStatKey(statFlag)
				if !ok {
					return errors.New("stat must be one of INT, SAB, CAR, RES, CRE")
				}
				extraStat = &stat
			}

			entry, err := a.ClaimReward(ctx, args[0], args[1], extraStat)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s %s\n", ui.Gold.Render(ui.IconTrophy+" Claimed"), entry.Title, ui.Muted.Render(fmt.Sprintf("(level %d reward)", entry.Level)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&statFlag, "stat", "s", "", "Stat for the stat+1 reward (INT|SAB|CAR|RES|CRE)")

	return cmd
}
