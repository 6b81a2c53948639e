package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"levelup/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "levelup",
	Short:         "LevelUp — classroom RPG progression tracker",
	Long:          "LevelUp tracks hero XP, levels, medals and rewards for classroom challenges, with a CLI, a TUI board and an HTTP API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newHeroesCmd(),
		newStatusCmd(),
		newDoCmd(),
		newPickStatCmd(),
		newClaimCmd(),
		newChipCmd(),
		newEventsCmd(),
		newDefeatCmd(),
		newShopCmd(),
		newBuyCmd(),
		newExportCmd(),
		newImportCmd(),
		newServeCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
