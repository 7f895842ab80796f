package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wakeup/internal/api/handlers"
	"wakeup/internal/core"
)

// dayEdit applies one edit to day using the remaining positional args
type dayEdit func(ctx context.Context, m core.ScheduleManagerInterface, day core.Weekday, args []string) error

func newDayCommand(opts *RootOptions, use, short string, nargs int, edit dayEdit) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := core.ParseWeekday(args[0])
			if err != nil {
				return editError("invalid day", err)
			}

			a, err := openApp(cmd, opts, false)
			if err != nil {
				return err
			}
			defer a.close()

			if err := edit(cmd.Context(), a.schedule, day, args[1:]); err != nil {
				return editError("failed to "+cmd.Name()+" "+day.String(), err)
			}

			view := handlers.NewAlarmView(a.manager.Schedule().Alarm(day))
			return a.out.Success(alarmText{view})
		},
	}
}

// NewDayCommands creates the per-day edit commands.
func NewDayCommands(opts *RootOptions) []*cobra.Command {
	return []*cobra.Command{
		newDayCommand(opts, "configure <day>", "Enable the day's alarm from the template", 1,
			func(ctx context.Context, m core.ScheduleManagerInterface, day core.Weekday, _ []string) error {
				return m.Configure(ctx, day)
			}),
		newDayCommand(opts, "remove <day>", "Disable the day's alarm, keeping its settings", 1,
			func(ctx context.Context, m core.ScheduleManagerInterface, day core.Weekday, _ []string) error {
				return m.Remove(ctx, day)
			}),
		newDayCommand(opts, "mute <day>", "Toggle whether the day's alarm is muted", 1,
			func(ctx context.Context, m core.ScheduleManagerInterface, day core.Weekday, _ []string) error {
				return m.ToggleMuted(ctx, day)
			}),
		newDayCommand(opts, "confirm <day>", "Confirm being awake for the day", 1,
			func(ctx context.Context, m core.ScheduleManagerInterface, day core.Weekday, _ []string) error {
				return m.ConfirmAwake(ctx, day)
			}),
		newDayCommand(opts, "set-time <day> <HH:MM>", "Set the final alarm time", 2,
			func(ctx context.Context, m core.ScheduleManagerInterface, day core.Weekday, args []string) error {
				t, err := parseTime(day, args[0])
				if err != nil {
					return err
				}
				return m.SetFinalAlarmTime(ctx, day, t)
			}),
		newDayCommand(opts, "set-departure <day> <HH:MM>", "Set the departure time", 2,
			func(ctx context.Context, m core.ScheduleManagerInterface, day core.Weekday, args []string) error {
				t, err := parseTime(day, args[0])
				if err != nil {
					return err
				}
				return m.SetDepartureTime(ctx, day, t)
			}),
		newDayCommand(opts, "snooze <day> <minutes|off>", "Set the snooze duration", 2,
			func(ctx context.Context, m core.ScheduleManagerInterface, day core.Weekday, args []string) error {
				state := core.SnoozeOff()
				minutes, on, err := parseOptional(args[0])
				if err != nil {
					return err
				}
				if on {
					if state, err = core.NewSnoozeDuration(minutes); err != nil {
						return err
					}
				}
				return m.SetSnoozeState(ctx, day, state)
			}),
		newDayCommand(opts, "reminder <day> <hours|off>", "Set the sleep reminder", 2,
			func(ctx context.Context, m core.ScheduleManagerInterface, day core.Weekday, args []string) error {
				state := core.SleepReminderOff()
				hours, on, err := parseOptional(args[0])
				if err != nil {
					return err
				}
				if on {
					if state, err = core.NewSleepReminder(hours); err != nil {
						return err
					}
				}
				return m.SetSleepReminder(ctx, day, state)
			}),
	}
}

func parseTime(day core.Weekday, s string) (core.AlarmTime, error) {
	t, err := core.ParseTimeOfDay(day, s)
	if err != nil {
		return core.AlarmTime{}, invalidArgument("%v", err)
	}
	return t, nil
}

// parseOptional reads a count or "off"
func parseOptional(s string) (int, bool, error) {
	if strings.EqualFold(s, "off") {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, invalidArgument("%q is neither a number nor off", s)
	}
	return n, true, nil
}
