// Package commands implements the spprovision command line.
package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spprovision/database"
	"spprovision/infrastructure/config"
	"spprovision/logging"
)

// options carries the persistent flags and the state they resolve to.
type options struct {
	envFile string
	dbPath  string
	output  string

	cfg    *config.AppConfig
	logger *logging.Logger
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "spprovision",
		Short:        "Provision SharePoint lists from a template",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.LoadEnvFile(opts.envFile); err != nil {
				return fmt.Errorf("load env file: %w", err)
			}
			opts.cfg = config.LoadAppConfigFromEnv()
			if opts.dbPath != "" {
				opts.cfg.Database.Path = opts.dbPath
			}

			// Logs go to stderr so stdout carries only command output.
			opts.logger = logging.NewLoggerWithWriter(opts.cfg.Logging, cmd.ErrOrStderr())
			logging.SetDefault(opts.logger)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "run history database (default DB_PATH or ./spprovision.db)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "text", "output format: text or json")

	root.AddCommand(applyCmd(opts), validateCmd(opts), runsCmd(opts))
	return root
}

func (o *options) openDatabase() (*database.Database, error) {
	db, err := database.New(*o.cfg.Database, o.logger)
	if err != nil {
		return nil, fmt.Errorf("open run history: %w", err)
	}
	return db, nil
}

func (o *options) validateOutput() error {
	switch o.output {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
}

func writeLine(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
