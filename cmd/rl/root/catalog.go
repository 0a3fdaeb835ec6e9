package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"ritualist/internal/catalog"
	"ritualist/internal/ui"
)

func newCatalogCmd() *cobra.Command {
	var categoryFlag string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the ritual catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Default()
			if err != nil {
				return err
			}

			defs := cat.All()
			if categoryFlag != "" {
				c, err := catalog.ParseCategory(categoryFlag)
				if err != nil {
					return err
				}
				defs = cat.ByCategory(c)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconCard, "Ritual catalog"))
			for _, d := range defs {
				fmt.Fprintf(out, "- %s %s %s\n",
					ui.Key.Render(d.ID),
					ui.CategoryBadge(string(d.Category)),
					ui.Muted.Render(fmt.Sprintf("%s — tier %d, ~%d min, %d bytes", d.Title, d.Difficulty, d.EstimatedMinutes, d.BaseReward)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "filter by category")
	return cmd
}
