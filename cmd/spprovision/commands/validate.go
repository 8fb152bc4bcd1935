package commands

import (
	"github.com/spf13/cobra"

	"spprovision/infrastructure/templates"
)

func validateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <template>",
		Short: "Check a template without connecting to SharePoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validateOutput(); err != nil {
				return err
			}
			schema, err := templates.LoadFile(args[0])
			if err != nil {
				return err
			}

			counts := schema.Count()
			if opts.output == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"name":       schema.Name,
					"valid":      true,
					"lists":      counts.Lists,
					"fields":     counts.Fields,
					"field_refs": counts.FieldRefs,
					"views":      counts.Views,
				})
			}
			writeLine(cmd.OutOrStdout(), "Template %s is valid: %d lists, %d fields, %d field refs, %d views",
				schema.Name, counts.Lists, counts.Fields, counts.FieldRefs, counts.Views)
			return nil
		},
	}
}
