package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ritualist/internal/engine"
	"ritualist/internal/storage"
	"ritualist/internal/ui"
)

func newStreakCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Show streak, daily progress and byte balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			db, cleanup, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			svc, err := buildService(db)
			if err != nil {
				return err
			}

			res, err := svc.TodaysAssignment(ctx, userFlag, svc.Now())
			if err != nil {
				return err
			}
			profile, err := storage.NewProfileRepo(db).GetOrCreate(ctx, userFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Progress"))
			fmt.Fprintln(out, ui.LabelValue("Streak", ui.BadgeStreak.Render(fmt.Sprintf("%d day(s) %s", res.State.StreakDays, ui.IconFlame))))
			fmt.Fprintln(out, ui.LabelValue("Today", fmt.Sprintf("%d/%d rituals", res.State.RitualsCompleted, engine.DailyCap)))
			fmt.Fprintln(out, ui.LabelValue("Weeks active", res.State.WeeksActive))
			fmt.Fprintln(out, ui.LabelValue("Byte balance", ui.Gold.Render(fmt.Sprintf("%d %s", profile.ByteBalance, ui.IconBytes))))
			fmt.Fprintln(out, ui.LabelValue("Tier", profile.Tier))
			return nil
		},
	}
	return cmd
}
