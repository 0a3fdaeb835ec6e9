package root

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ritualist/internal/engine"
	"ritualist/internal/ui"
)

func newTodayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show (and deal, if needed) today's ritual cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.TodaysAssignment(ctx, userFlag, svc.Now())
			if err != nil {
				return err
			}
			printToday(cmd.OutOrStdout(), res)
			return nil
		},
	}
	return cmd
}

func printToday(w io.Writer, res *engine.TodayResult) {
	fmt.Fprintln(w, ui.Heading(ui.IconCard, "Today's rituals"))
	for i, c := range res.Cards {
		slot := "guided"
		if i == 1 {
			slot = "explore"
		}
		fmt.Fprintf(w, "%d. %s %s %s\n", i+1, ui.Key.Render(c.Title), ui.CategoryBadge(string(c.Category)), ui.Muted.Render(fmt.Sprintf("(%s, id %s, ~%d min, %d bytes)", slot, c.ID, c.EstimatedMinutes, c.BaseReward)))
		fmt.Fprintf(w, "   %s\n", ui.Muted.Render(c.Prompt))
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, ui.LabelValue("Completed today", fmt.Sprintf("%d/%d", res.State.RitualsCompleted, engine.DailyCap)))
	if res.CanReroll {
		fmt.Fprintln(w, ui.Muted.Render(ui.IconReroll+" reroll available: rl reroll"))
	}
}
