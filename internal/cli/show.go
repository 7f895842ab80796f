package cli

import (
	"time"

	"github.com/spf13/cobra"

	"wakeup/internal/api/handlers"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	At string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the week, active day first",
		Long: `Show the week in schedule order.

Without --at the schedule is reordered for the current time and saved, as
the running service would. With --at the reorder is only previewed.

Example:
  wakeup show
  wakeup show --at 2024-01-01T08:55:00Z --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.At, "at", "", "preview the schedule at an RFC 3339 instant")

	return cmd
}

func runShow(cmd *cobra.Command, opts *ShowOptions) error {
	var at time.Time
	if opts.At != "" {
		var err error
		if at, err = time.Parse(time.RFC3339, opts.At); err != nil {
			return WrapExitError(ExitCommandError, "invalid --at", err)
		}
	}

	a, err := openApp(cmd, opts.RootOptions, false)
	if err != nil {
		return err
	}
	defer a.close()

	schedule := a.manager.Schedule()
	if at.IsZero() {
		if _, err := a.schedule.Reorder(cmd.Context(), opts.Now()); err != nil {
			return WrapExitError(ExitCommandError, "failed to reorder schedule", err)
		}
		schedule = a.manager.Schedule()
	} else {
		schedule.Reorder(at)
	}

	return a.out.Success(scheduleText{handlers.NewScheduleView(schedule)})
}
