package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/rpggio/roster/internal/config"
	"github.com/rpggio/roster/internal/domain/student"
	"github.com/rpggio/roster/internal/logging"
	"github.com/rpggio/roster/internal/sqlite"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags and the store opened for a command.
type RootOptions struct {
	DBPath   string
	Format   string // "json" | "text"
	PageSize int
	Verbose  bool

	db       *sqlite.DB
	students *student.Service
	logger   *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the roster CLI.
func NewRootCommand(cfg config.Config) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "roster",
		Short:         "Manage the student roster",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.PageSize <= 0 {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid page size %d", opts.PageSize))
			}
			return opts.open(cmd.ErrOrStderr(), cfg.Log.Level)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", cfg.DB.Path, "path to the roster database")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().IntVar(&opts.PageSize, "page-size", cfg.View.PageSize, "students per page")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	for _, sub := range []*cobra.Command{
		NewAddCommand(opts),
		NewListCommand(opts),
		NewPageCommand(opts),
		NewEditCommand(opts),
		NewDeleteCommand(opts),
		NewCountCommand(opts),
	} {
		cmd.AddCommand(closeAfter(opts, sub))
	}

	return cmd
}

// closeAfter closes the store once sub's RunE returns, failed or not.
// PersistentPostRunE would be skipped on failure.
func closeAfter(opts *RootOptions, sub *cobra.Command) *cobra.Command {
	run := sub.RunE
	sub.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if cerr := opts.close(); err == nil && cerr != nil {
				err = WrapExitError(ExitFailure, "close database", cerr)
			}
		}()
		return run(cmd, args)
	}
	return sub
}

// open creates the store. Failing to open it or create the table aborts the
// command. closeAfter releases it.
func (o *RootOptions) open(logOut io.Writer, level string) error {
	if o.Verbose {
		level = "debug"
	}
	logger, _, err := logging.New(logOut, "", level)
	if err != nil {
		return WrapExitError(ExitCommandError, "logger", err)
	}
	o.logger = logger

	if err := sqlite.EnsureDir(o.DBPath); err != nil {
		return WrapExitError(ExitCommandError, "prepare database path", err)
	}
	db, err := sqlite.Open(o.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	o.db = db
	o.students = student.NewService(sqlite.NewStudentRepository(db), logger)
	return nil
}

func (o *RootOptions) close() error {
	if o.db == nil {
		return nil
	}
	err := o.db.Close()
	o.db = nil
	return err
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
