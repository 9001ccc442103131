package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/rpggio/roster/internal/domain/student"
	"github.com/rpggio/roster/internal/view"
	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Add a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := opts.students.AddStudent(cmd.Context(), args[0])
			return writeStatus(cmd.OutOrStdout(), opts.Format, res.OK(), res.Message, res.Value)
		},
	}
}

type sectionOutput struct {
	Students []student.Student `json:"students"`
	Kind     string            `json:"kind"`
	Status   string            `json:"status"`
}

// NewListCommand creates the list command, which reads one section ordered
// by id.
func NewListCommand(opts *RootOptions) *cobra.Command {
	var offset, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a section of students ordered by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit == 0 {
				limit = opts.PageSize
			}
			res := opts.students.GetSection(cmd.Context(), offset, limit)
			out := cmd.OutOrStdout()

			if opts.Format == "json" {
				if err := writeJSON(out, sectionOutput{Students: res.Value, Kind: res.Kind.String(), Status: res.Message}); err != nil {
					return err
				}
			} else if res.OK() {
				items := make([]view.Item, 0, len(res.Value))
				for _, s := range res.Value {
					items = append(items, view.Decorate(s))
				}
				if err := writeItems(out, items); err != nil {
					return err
				}
				fmt.Fprintln(out, res.Message)
			}
			if !res.OK() {
				return NewExitError(ExitFailure, res.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "number of students to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of students (default page size)")
	return cmd
}

type pageOutput struct {
	Items       []view.Item `json:"items"`
	LoadedCount int         `json:"loaded_count"`
	HasMore     bool        `json:"has_more"`
	Status      string      `json:"status"`
}

// NewPageCommand creates the page command. It drives the paginated view the
// same way a scrolling list would and prints what ends up loaded.
func NewPageCommand(opts *RootOptions) *cobra.Command {
	var pages int
	var paging string

	cmd := &cobra.Command{
		Use:   "page",
		Short: "Load pages into the view and print them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pages <= 0 {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid page count %d", pages))
			}
			mode, err := view.ParsePagingMode(paging)
			if err != nil {
				return WrapExitError(ExitCommandError, "paging", err)
			}

			ctrl := view.NewController(opts.students, view.Options{
				PageSize: opts.PageSize,
				Paging:   mode,
				Logger:   opts.logger,
			})
			ctx := cmd.Context()
			last := ctrl.RefreshAll(ctx)
			for i := 1; i < pages && ctrl.HasMore(); i++ {
				if res := ctrl.OnThresholdReached(ctx); res.Message != "" {
					last = res
				}
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(out, pageOutput{
					Items:       ctrl.Items(),
					LoadedCount: ctrl.LoadedCount(),
					HasMore:     ctrl.HasMore(),
					Status:      last.Message,
				})
			}
			if err := writeItems(out, ctrl.Items()); err != nil {
				return err
			}
			more := ""
			if ctrl.HasMore() {
				more = " (more available)"
			}
			fmt.Fprintf(out, "%d loaded%s\n", ctrl.Len(), more)
			return nil
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.Flags().StringVar(&paging, "paging", string(view.PagingOffset), "paging mode (offset|cursor)")
	return cmd
}

// NewEditCommand creates the edit command.
func NewEditCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit ID NAME",
		Short: "Rename a student",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			res := opts.students.UpdateStudent(cmd.Context(), &student.Student{ID: id, Name: args[1]})
			return writeStatus(cmd.OutOrStdout(), opts.Format, res.Value, res.Message, nil)
		},
	}
}

// NewDeleteCommand creates the delete command. Without --yes it asks on
// stdin and anything but y or yes cancels.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes && !confirm(cmd, fmt.Sprintf("Delete student %d? [y/N] ", id)) {
				fmt.Fprintln(cmd.ErrOrStderr(), "cancelled")
				return nil
			}
			res := opts.students.DeleteStudent(cmd.Context(), id)
			return writeStatus(cmd.OutOrStdout(), opts.Format, res.Value, res.Message, nil)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

// NewCountCommand creates the count command.
func NewCountCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := opts.students.Count(cmd.Context())
			return writeStatus(cmd.OutOrStdout(), opts.Format, res.OK(), res.Message, res.Value)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid id %q", s))
	}
	return id, nil
}

func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprint(cmd.ErrOrStderr(), question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
