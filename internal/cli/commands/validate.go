package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mtstandards/mtmeta/internal/cli/ui"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <schema> <file>",
		Short: "Validate a JSON metadata document against a schema",
		Long: `Validate a JSON metadata document against a named schema.

Every problem in the document is reported, not just the first one.

Examples:
  mtmeta validate station station_001.json
  mtmeta validate pole_zero_filter filters/lowpass.json`,
		Args: cobra.ExactArgs(2),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	schemaName, path := args[0], args[1]

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	t, err := env.entityType(schemaName)
	if err != nil {
		return err
	}
	record, err := readDocument(path)
	if err != nil {
		return err
	}

	errs := t.Check(record)
	if errs.HasErrors() {
		fields := make([]string, 0, len(errs.Fields))
		for field := range errs.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			for _, message := range errs.Fields[field] {
				fmt.Fprint(cmd.ErrOrStderr(), ui.FormatError(ui.ErrorOptions{
					Context: field,
					Problem: message,
				}))
			}
		}
		return fmt.Errorf("%s does not satisfy schema %s (%d problems)", path, schemaName, errs.Count())
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%s is a valid %s document", path, schemaName), false))
	return nil
}
