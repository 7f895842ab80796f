package cli

import (
	"os"

	"github.com/spf13/cobra"

	"wakeup/internal/api/handlers"
	"wakeup/internal/core"
)

// NewExportCommand creates the export command.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the stored schedule as JSON",
		Long: `Write the stored schedule as JSON, to a file or to stdout.
The output can be read back with import.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts, false)
			if err != nil {
				return err
			}
			defer a.close()

			data, err := core.EncodeSchedule(a.manager.Schedule())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to encode schedule", err)
			}
			data = append(data, '\n')

			if len(args) == 0 {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}

			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return WrapExitError(ExitCommandError, "failed to write export", err)
			}
			a.logger.Info("Schedule exported", "path", args[0])
			return a.out.Success("Exported schedule to " + args[0])
		},
	}
}

// NewImportCommand creates the import command.
func NewImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored schedule with an exported one",
		Long: `Replace the stored schedule with a file written by export.
The file is validated before anything is saved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read import", err)
			}

			schedule, err := core.DecodeSchedule(data)
			if err != nil {
				return editError("invalid schedule file", err)
			}

			a, err := openApp(cmd, opts, false)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.store.SaveSchedule(cmd.Context(), schedule); err != nil {
				return WrapExitError(ExitCommandError, "failed to save schedule", err)
			}
			a.logger.Info("Schedule imported", "path", args[0])

			return a.out.Success(scheduleText{handlers.NewScheduleView(schedule)})
		},
	}
}
