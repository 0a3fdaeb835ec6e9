package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ritualist/internal/engine"
	"ritualist/internal/ui"
)

func newDoneCmd() *cobra.Command {
	var (
		journalFile string
		mood        int
		dwell       int
	)

	cmd := &cobra.Command{
		Use:   "done <ritual-id>",
		Short: "Complete one of today's rituals with a journal entry",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("ritual id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			journal, err := readJournal(journalFile, cmd.InOrStdin())
			if err != nil {
				return err
			}

			today, err := svc.TodaysAssignment(ctx, userFlag, svc.Now())
			if err != nil {
				return err
			}

			res, err := svc.CompleteRitual(ctx, engine.CompleteInput{
				UserID:       userFlag,
				AssignmentID: today.Assignment.ID,
				RitualID:     args[0],
				Journal:      journal,
				Mood:         mood,
				DwellSeconds: dwell,
			})
			if err != nil {
				return renderCompletionErr(cmd.OutOrStdout(), err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconDone, "Ritual complete"))
			fmt.Fprintln(out, ui.LabelValue("Bytes earned", ui.Gold.Render(fmt.Sprintf("%d %s", res.BytesEarned, ui.IconBytes))))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%d day(s) %s", res.StreakDays, ui.IconFlame)))
			fmt.Fprintln(out, ui.LabelValue("Words", res.WordCount))
			if res.CapReached {
				fmt.Fprintln(out, ui.Muted.Render("Daily cap reached. See you tomorrow."))
			}
			if res.RewardPending {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" reward credit queued, run: rl rewards retry"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&journalFile, "journal-file", "f", "-", "journal text file ('-' reads stdin)")
	cmd.Flags().IntVarP(&mood, "mood", "m", 3, "mood rating 1-5")
	cmd.Flags().IntVarP(&dwell, "dwell", "d", 0, "seconds spent writing the entry")
	return cmd
}

func readJournal(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read journal from stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read journal file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// renderCompletionErr turns expected usage boundaries into friendly output
// and leaves real failures on the error path.
func renderCompletionErr(out io.Writer, err error) error {
	var ve engine.ValidationError
	switch {
	case errors.As(err, &ve):
		fmt.Fprintln(out, ui.Bad.Render(ui.IconPen+" "+ve.Message))
		return nil
	case errors.Is(err, engine.ErrAlreadyCompleted):
		fmt.Fprintln(out, ui.Good.Render(ui.IconDone+" already recorded — nothing to do"))
		return nil
	case errors.Is(err, engine.ErrCapReached):
		fmt.Fprintln(out, ui.Muted.Render("Daily cap reached. See you tomorrow."))
		return nil
	case errors.Is(err, engine.ErrRateLimited):
		fmt.Fprintln(out, ui.Warn.Render(ui.IconClock+" slow down — try again in a few minutes"))
		return nil
	default:
		return err
	}
}
