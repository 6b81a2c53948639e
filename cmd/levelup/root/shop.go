package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"levelup/internal/engine"
	"levelup/internal/ui"
)

func newShopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "List the medal shop",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconShop, "Medal shop"))
			a.View(func(doc *engine.Document, eng *engine.Engine) {
				for _, it := range doc.Store.Items {
					stock := fmt.Sprintf("%d left", it.Stock)
					if it.Stock == engine.InfiniteStock {
						stock = "∞"
					}
					line := fmt.Sprintf("- %s %s %s %s %s",
						it.Icon, ui.Key.Render(it.ID), it.Name,
						ui.Gold.Render(fmt.Sprintf("%s %d", ui.IconMedal, it.Cost)),
						ui.Muted.Render("("+stock+")"))
					if !it.Available || it.Stock <= 0 {
						line += " " + ui.Bad.Render("unavailable")
					}
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
			})
			return nil
		},
	}

	return cmd
}

func newBuyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buy <hero_id> <item_id>",
		Short: "Spend medals on a shop item",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("hero_id and item_id are required")
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

			claim, err := a.ClaimStoreItem(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				ui.Gold.Render(ui.IconShop+" Bought"), claim.ItemName,
				ui.Muted.Render(fmt.Sprintf("(-%d %s)", claim.Cost, ui.IconMedal)))
			return nil
		},
	}

	return cmd
}
