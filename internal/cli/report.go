package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/klokku/workload/internal/app"
	"github.com/klokku/workload/pkg/calendar"
	"github.com/klokku/workload/pkg/user"
	"github.com/klokku/workload/pkg/workload"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	userUid string
	from    string
	to      string
}

func newReportCmd() *cobra.Command {
	opts := reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the workload visible to a user as CSV",
		Long: `Print the workload visible to a user as CSV.

Examples:
  workload report --user 6f1c... --from 2013-05-27 --to 2013-06-09
  workload report --user 6f1c...                  # the current month`,
		RunE: func(cmd *cobra.Command, args []string) error {
			span, err := opts.span(time.Now())
			if err != nil {
				return err
			}
			application, err := app.NewApplication(cmd.Context(), cfgFile)
			if err != nil {
				return err
			}
			defer application.Close()
			return writeReport(cmd, application.Deps.UserService, application.Deps.WorkloadService, application.Deps.CsvRenderer, opts.userUid, span)
		},
	}
	cmd.Flags().StringVarP(&opts.userUid, "user", "u", "", "uid of the user the report is built for")
	cmd.Flags().StringVar(&opts.from, "from", "", "first day, YYYY-MM-DD (default: first day of the current month)")
	cmd.Flags().StringVar(&opts.to, "to", "", "last day, YYYY-MM-DD (default: last day of the current month)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// span resolves the flags to a date range, defaulting to the month of now.
func (o reportOptions) span(now time.Time) (calendar.DateRange, error) {
	today := calendar.DateOf(now)
	from := calendar.Date(today.Year(), today.Month(), 1)
	to := from.AddDate(0, 1, -1)
	var err error
	if o.from != "" {
		if from, err = time.Parse(time.DateOnly, o.from); err != nil {
			return calendar.DateRange{}, fmt.Errorf("invalid --from %q: %w", o.from, err)
		}
	}
	if o.to != "" {
		if to, err = time.Parse(time.DateOnly, o.to); err != nil {
			return calendar.DateRange{}, fmt.Errorf("invalid --to %q: %w", o.to, err)
		}
	}
	return calendar.NewDateRange(from, to), nil
}

func writeReport(cmd *cobra.Command, users user.Service, service workload.Service, renderer workload.Renderer, userUid string, span calendar.DateRange) error {
	u, err := users.GetUserByUid(cmd.Context(), userUid)
	if err != nil {
		return fmt.Errorf("failed to find user %s: %w", userUid, err)
	}
	report, err := service.GetWorkload(user.WithUser(cmd.Context(), u), span.Start, span.End)
	if err != nil {
		return err
	}
	csv, err := renderer.Render(report)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), csv)
	return err
}
