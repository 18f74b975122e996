package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/web-source-dev/dealboard/dealboard/export"
)

// addViewsCommand adds the views command for view introspection
func (cli *CLI) addViewsCommand() {
	viewsCmd := &cobra.Command{
		Use:   "views [view-name]",
		Short: "List available views or show the fields of one",
		Long: `List the list pages the dashboard knows about, or show the fields a
view declares together with the filter operators each field accepts.

Examples:
  dealboard views              # List all views
  dealboard views deals        # Show the fields of the deals view`,
		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.format("list views")
			if err != nil {
				return err
			}

			if len(args) == 0 {
				table, err := viewsTable(cli.registry)
				if err != nil {
					return WrapError("list views", err)
				}
				return format.Render(cmd.OutOrStdout(), table)
			}

			v, err := cli.registry.Get(args[0])
			if err != nil {
				return NewViewError("show view", args[0], cli.registry.Names())
			}
			return format.Render(cmd.OutOrStdout(), fieldsTable(v))
		},
	}
	cli.rootCmd.AddCommand(viewsCmd)
}

// addQueryCommand adds the query command, one page of a list view
func (cli *CLI) addQueryCommand() {
	var (
		flags queryFlags
		save  string
	)

	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Filter, sort, search and paginate a list view",
		Long: `Run a list view over a record snapshot and print one page.

Filters take the form field:operator:value and all of them must match.
Operators: equals (eq), notEquals (ne), contains, greaterOrEqual (gte),
lessOrEqual (lte), dateAfter (after), dateBefore (before), inSet (in).
A filter with an empty value is ignored, like an unset control.

Examples:
  dealboard query --view deals --data deals.json --filter category:eq:Dairy
  dealboard query --view deals --data deals.json --filter dealEndsAt:before:2024-04-01 --sort -totalSold
  dealboard query --view users --data users.json --search farm --format markdown
  dealboard query --view deals --data deals.json --filter status:eq:active --all --save active.json`,
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			const operation = "query"

			board, err := cli.board(cmd.Context(), operation)
			if err != nil {
				return err
			}
			format, err := cli.format(operation)
			if err != nil {
				return err
			}
			cfg, err := flags.config(operation, board.View(), cmd.Flags())
			if err != nil {
				return err
			}
			board = flags.board(board)
			for _, note := range unknownEnumValues(board.View(), cfg.Filters) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Note: %s\n", note)
			}

			plan, err := board.Plan(cfg)
			if err != nil {
				return WrapError(operation, err)
			}
			result := plan.Run(board.Records())

			cli.logs.queries.Info("query",
				"view", board.View().Name,
				"filters", cfg.Filters,
				"active_filters", result.ActiveFilterCount,
				"search", cfg.Search.Text,
				"sort", cfg.Sort,
				"page", result.PageIndex,
				"total", result.TotalCount)

			if result.Clamped {
				fmt.Fprintf(cmd.ErrOrStderr(), "Page %d is past the end; showing page %d of %d\n",
					cfg.Pagination.PageIndex+1, result.PageIndex+1, result.TotalPages)
			}

			table, err := resultTable(board.View(), plan, result, format, cli.viperInst.GetBool("quiet"))
			if err != nil {
				return WrapError(operation, err)
			}
			if err := format.Render(cmd.OutOrStdout(), table); err != nil {
				return err
			}

			if save != "" {
				selected := plan.Sorted(board.Records())
				if err := cli.store().Save(cmd.Context(), save, selected); err != nil {
					return NewDataError("save query result", err, CommonSuggestions.CheckPerms)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s to %s\n",
					english.Plural(len(selected), "record", ""), save)
			}
			return nil
		},
	}

	flags.register(queryCmd.Flags(), true)
	queryCmd.Flags().StringVar(&save, "save", "", "Also save every matching record, unpaginated, to this JSON or YAML file")
	cli.rootCmd.AddCommand(queryCmd)
}

// addExportCommand adds the export command
func (cli *CLI) addExportCommand() {
	var (
		flags queryFlags
		out   string
		kind  string
	)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export every record a list view selects as CSV, PDF or zip",
		Long: `Export the records matching the filters and search of a view, in
sort order and without pagination. The zip archive holds the CSV, the PDF
and a manifest describing the export.

The kind is taken from --kind, else from the extension of --out, else csv.
Without --out the file is named after the view and the export time;
--out - writes to stdout.

Examples:
  dealboard export --view deals --data deals.json --filter status:eq:active --out active-deals.csv
  dealboard export --view commitments --data commitments.json --kind zip`,
		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			const operation = "export"

			k, err := exportKind(kind, out)
			if err != nil {
				return WrapError(operation, err, fmt.Sprintf("Supported kinds: %v", export.Kinds()))
			}

			board, err := cli.board(cmd.Context(), operation)
			if err != nil {
				return err
			}
			cfg, err := flags.config(operation, board.View(), cmd.Flags())
			if err != nil {
				return err
			}
			board = flags.board(board)
			for _, note := range unknownEnumValues(board.View(), cfg.Filters) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Note: %s\n", note)
			}

			bundle, err := board.Bundle(cfg, cli.now())
			if err != nil {
				return WrapError(operation, err)
			}

			if out == "" {
				out = export.BundleFilename(bundle, k)
			}

			write := func(w io.Writer) error { return export.Write(w, k, bundle) }
			if out == "-" {
				err = write(cmd.OutOrStdout())
			} else {
				err = writeFile(out, write)
			}
			if err != nil {
				return WrapError(operation, err, CommonSuggestions.CheckPerms)
			}

			cli.logs.queries.Info("export",
				"view", bundle.View,
				"kind", k,
				"rows", bundle.RecordCount(),
				"filters", bundle.Filters,
				"out", out)

			if out != "-" {
				size := ""
				if info, err := os.Stat(out); err == nil {
					size = ", " + humanize.Bytes(uint64(info.Size()))
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s%s\n",
					english.Plural(bundle.RecordCount(), "record", ""), out, size)
			}
			return nil
		},
	}

	flags.register(exportCmd.Flags(), false)
	exportCmd.Flags().StringVarP(&out, "out", "o", "", "Output file; - for stdout")
	exportCmd.Flags().StringVar(&kind, "kind", "", "Export kind (csv|pdf|zip)")
	cli.rootCmd.AddCommand(exportCmd)
}

// writeFile creates path and fills it with write. A failed write or close
// removes the partial file.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return write(f)
}

// exportKind picks the kind from --kind, then from the output extension
func exportKind(kind, out string) (export.Kind, error) {
	if kind != "" {
		return export.ParseKind(kind)
	}
	if ext := filepath.Ext(out); ext != "" && out != "-" {
		return export.ParseKind(ext)
	}
	return export.KindCSV, nil
}
