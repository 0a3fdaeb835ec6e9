package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ritualist/internal/ui"
)

func newRewardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "Reward ledger maintenance",
	}
	cmd.AddCommand(newRewardsRetryCmd())
	return cmd
}

func newRewardsRetryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Retry queued reward credits",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			applied, err := svc.RetryPendingRewards(ctx)
			if applied > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%s credited %d queued reward(s)", ui.IconBytes, applied)))
			}
			if err != nil {
				return err
			}
			if applied == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("no rewards pending"))
			}
			return nil
		},
	}
}
