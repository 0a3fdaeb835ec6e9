package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ritualist/internal/ui"
)

const Version = "0.1.0"

var userFlag string

var rootCmd = &cobra.Command{
	Use:           "rl",
	Short:         "Ritualist — daily ritual cards with streaks and byte rewards",
	Long:          "Ritualist deals you 1-2 daily self-improvement rituals, validates your journal entries, tracks streaks and pays out bytes.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", defaultUser(), "user id to act as")

	rootCmd.AddCommand(
		newTodayCmd(),
		newRerollCmd(),
		newDoneCmd(),
		newStreakCmd(),
		newCatalogCmd(),
		newRewardsCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

func defaultUser() string {
	if u := os.Getenv("RITUALIST_USER"); u != "" {
		return u
	}
	return "me"
}
