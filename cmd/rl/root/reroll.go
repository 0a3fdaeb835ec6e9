package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ritualist/internal/engine"
	"ritualist/internal/ui"
)

func newRerollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reroll",
		Short: "Discard today's cards and deal new ones (once per day)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.Reroll(ctx, userFlag, svc.Now())
			if err != nil {
				var ru engine.RerollUnavailableError
				if errors.As(err, &ru) {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconWarn+" "+ru.Error()))
					return nil
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconReroll, "Rerolled"))
			printToday(cmd.OutOrStdout(), res)
			return nil
		},
	}
	return cmd
}
