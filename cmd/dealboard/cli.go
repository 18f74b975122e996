package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/web-source-dev/dealboard/dealboard"
	"github.com/web-source-dev/dealboard/dealboard/dataset"
	"github.com/web-source-dev/dealboard/dealboard/views"
	"github.com/web-source-dev/dealboard/formats"
)

// CLI is the dealboard command line: list pages of the marketplace
// dashboard, queried and exported from record snapshots
type CLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper

	registry *views.Registry
	logs     *loggers

	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

// NewCLI creates the CLI, reading configuration from the environment and
// the usual config file locations
func NewCLI() *CLI {
	cli := &CLI{
		viperInst: viper.New(),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		now:       time.Now,
	}

	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCommands()

	return cli
}

// Execute runs the root command
func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// setupViperConfig configures Viper with environment variables and config files
func (cli *CLI) setupViperConfig() {
	// DEALBOARD_CONFIG points at a custom config file
	if configFile := os.Getenv("DEALBOARD_CONFIG"); configFile != "" {
		cli.viperInst.SetConfigFile(configFile)
	} else {
		cli.viperInst.SetConfigName("dealboard")
		cli.viperInst.SetConfigType("yaml")
		cli.viperInst.AddConfigPath(".")
		cli.viperInst.AddConfigPath("$HOME/.dealboard")
		cli.viperInst.AddConfigPath("/etc/dealboard")
	}

	cli.viperInst.SetEnvPrefix("DEALBOARD")
	cli.viperInst.AutomaticEnv()

	// --views-dir -> DEALBOARD_VIEWS_DIR
	cli.viperInst.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	cli.viperInst.SetDefault("format", formats.PlainText.Name)
	cli.viperInst.SetDefault("log-level", "warn")
	cli.viperInst.SetDefault("lock-timeout", 5*time.Second)

	// Read config file if it exists (ignore errors)
	_ = cli.viperInst.ReadInConfig()
}

// createRootCommand creates the root Cobra command with Viper integration
func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   "dealboard",
		Short: "Query and export the list pages of the marketplace dashboard",
		Long: `dealboard runs the list pages of the marketplace dashboard (deals,
commitments, users, logs, announcements, orders) over record snapshots.

Every page supports the same controls: filters, one sort field, a free-text
search and pagination. Exports ignore pagination and always contain every
matching record.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (DEALBOARD_*)
3. Configuration file (DEALBOARD_CONFIG, ./dealboard.yaml, ~/.dealboard/dealboard.yaml)

The config file may map views to their data files:
  datasets:
    deals: snapshots/deals.json
    users: snapshots/users.yaml

Examples:
  # Active dairy deals, most expensive first
  dealboard query --view deals --data deals.json \
    --filter status:eq:active --filter category:eq:Dairy --sort discountPrice:desc

  # Second page of members named like "farm"
  dealboard query --view users --data users.json --search farm --page 2

  # Download every committed order as a PDF
  dealboard export --view commitments --data commitments.json \
    --filter status:in:pending,approved --out commitments.pdf`,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = cli.viperInst.BindPFlags(cmd.Flags())

			logs, err := initLogging(cli.viperInst.GetString("log-level"), cli.viperInst.GetBool("verbose"), cli.stderr)
			if err != nil {
				return err
			}
			cli.logs = logs

			return cli.loadViews()
		},

		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cli.logs != nil {
				return cli.logs.Close()
			}
			return nil
		},
	}

	cli.rootCmd.SetOut(cli.stdout)
	cli.rootCmd.SetErr(cli.stderr)

	cli.addGlobalFlags()
}

// addGlobalFlags adds persistent flags that apply to all commands
func (cli *CLI) addGlobalFlags() {
	flags := cli.rootCmd.PersistentFlags()

	flags.String("view", "", "List page to run (see 'dealboard views')")
	flags.StringP("data", "d", "", "Record snapshot file, JSON or YAML")
	flags.String("views-dir", "", "Directory of extra view definitions")
	flags.StringP("format", "f", formats.PlainText.Name, fmt.Sprintf("Output format (%s)", strings.Join(formats.List(), "|")))
	flags.String("locale", "", "Locale for sorting text, e.g. fr or de-CH")
	flags.Duration("lock-timeout", 5*time.Second, "How long to wait for a locked data file")
	flags.BoolP("quiet", "q", false, "Suppress titles and summaries")
	flags.String("log-level", "warn", "Log level (debug|info|warn|error)")
	flags.BoolP("verbose", "v", false, "Also log to stderr")

	for _, flag := range []string{"view", "data", "views-dir", "format", "locale", "lock-timeout", "quiet", "log-level", "verbose"} {
		_ = cli.viperInst.BindPFlag(flag, flags.Lookup(flag))
	}
}

// addCommands adds all the CLI commands
func (cli *CLI) addCommands() {
	cli.addViewsCommand()
	cli.addQueryCommand()
	cli.addExportCommand()
}

// loadViews loads the built-in views plus any from --views-dir
func (cli *CLI) loadViews() error {
	registry, err := views.Builtin()
	if err != nil {
		return WrapError("load views", err)
	}
	if dir := cli.viperInst.GetString("views-dir"); dir != "" {
		if err := registry.LoadDir(dir); err != nil {
			return NewConfigError("load views", err.Error(),
				"Check the view definitions in "+dir,
				CommonSuggestions.CheckConfig)
		}
	}
	cli.registry = registry
	return nil
}

// view resolves --view
func (cli *CLI) view(operation string) (*views.View, error) {
	name := cli.viperInst.GetString("view")
	if name == "" {
		return nil, NewViewError(operation, "", cli.registry.Names())
	}
	v, err := cli.registry.Get(name)
	if err != nil {
		return nil, NewViewError(operation, name, cli.registry.Names())
	}
	return v, nil
}

// dataPath resolves --data, falling back to the view's entry under
// "datasets" in the config file
func (cli *CLI) dataPath(operation string, view *views.View) (string, error) {
	if path := cli.viperInst.GetString("data"); path != "" {
		return path, nil
	}
	if path := cli.viperInst.GetString("datasets." + view.Name); path != "" {
		return path, nil
	}
	return "", NewConfigError(operation, fmt.Sprintf("no data file for view %q", view.Name),
		"Use --data to point at a JSON or YAML record snapshot",
		fmt.Sprintf("Add datasets.%s to your config file", view.Name))
}

// store returns a dataset store using the CLI's lock timeout and logger
func (cli *CLI) store() *dataset.Store {
	return dataset.NewStore(
		dataset.WithLockTimeout(cli.viperInst.GetDuration("lock-timeout")),
		dataset.WithLogger(cli.logs.main),
	)
}

// board opens the view's data file
func (cli *CLI) board(ctx context.Context, operation string) (*dealboard.Board, error) {
	view, err := cli.view(operation)
	if err != nil {
		return nil, err
	}
	path, err := cli.dataPath(operation, view)
	if err != nil {
		return nil, err
	}

	records, err := cli.store().Load(ctx, path)
	if err != nil {
		return nil, NewDataError(operation, err, CommonSuggestions.CheckData, CommonSuggestions.CheckPerms)
	}
	board := dealboard.New(view, records)

	if locale := cli.viperInst.GetString("locale"); locale != "" {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, NewValidationError(operation, "locale", locale, "Use a BCP 47 tag such as en, fr or de-CH")
		}
		board = board.WithLocale(tag)
	}

	cli.logs.main.Debug("opened board", "view", view.Name, "data", path, "records", len(records))
	return board, nil
}

// format resolves --format
func (cli *CLI) format(operation string) (*formats.TableFormat, error) {
	name := cli.viperInst.GetString("format")
	f, err := formats.Get(name)
	if err != nil {
		return nil, NewValidationError(operation, "format", name,
			fmt.Sprintf("Available formats: %s", strings.Join(formats.List(), ", ")))
	}
	return f, nil
}
