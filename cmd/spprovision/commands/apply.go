package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"spprovision/application"
	"spprovision/infrastructure/factories"
	"spprovision/infrastructure/repositories"
	"spprovision/infrastructure/templates"
	"spprovision/interfaces/web/presenters"
	"spprovision/platform/events"
	"spprovision/spauth"
)

func applyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <template>",
		Short: "Provision the lists described by a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validateOutput(); err != nil {
				return err
			}
			schema, err := templates.LoadFile(args[0])
			if err != nil {
				return err
			}

			spCfg, err := spauth.FromEnv()
			if err != nil {
				return err
			}
			client, err := factories.NewListClient(spCfg)
			if err != nil {
				return fmt.Errorf("create SharePoint client: %w", err)
			}

			db, err := opts.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			bus := events.NewRunEventBus()
			events.NewLoggingEventHandlers(opts.logger).RegisterHandlers(bus)
			defer bus.Wait()

			service := application.NewProvisioningService(client, repositories.NewSqliteRunRepository(db), bus)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			run, runErr := service.Provision(ctx, schema)
			if run == nil {
				return runErr
			}

			view := presenters.NewRunPresenter().FormatRun(run)
			if opts.output == "json" {
				if err := writeJSON(cmd.OutOrStdout(), view); err != nil {
					return err
				}
			} else {
				writeRunSummary(cmd.OutOrStdout(), view)
			}
			if runErr != nil {
				return fmt.Errorf("run %s failed: %w", run.ID, runErr)
			}
			return nil
		},
	}
}
