package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mtstandards/mtmeta/internal/cli/ui"
)

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect registered schemas and their fields",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "schemas",
		Short: "List every registered schema",
		Args:  cobra.NoArgs,
		RunE:  runInspectSchemas,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "fields <schema>",
		Short: "Show the field definitions of a schema",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspectFields,
	})

	return cmd
}

func runInspectSchemas(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}

	table := ui.NewTable(cmd.OutOrStdout(), []string{"SCHEMA", "FIELDS", "SOURCE"}, false)
	for _, name := range env.schemaNames() {
		s, err := env.entitySchema(name)
		if err != nil {
			return err
		}
		source := "standard"
		if _, ok := env.registry.Get(name); ok {
			source = "user"
		}
		table.AddRow(name, strconv.Itoa(s.Len()), source)
	}
	table.Render()
	return nil
}

func runInspectFields(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	s, err := env.entitySchema(args[0])
	if err != nil {
		return err
	}

	table := ui.NewTable(cmd.OutOrStdout(), []string{"FIELD", "TYPE", "REQUIRED", "DEFAULT", "VOCABULARY", "UNITS"}, false)
	for _, d := range s.Fields() {
		required := "no"
		if d.Required {
			required = "yes"
		}
		table.AddRow(
			d.Name,
			d.Type.String(),
			required,
			formatDefault(d.Default),
			strings.Join(d.Vocabulary, ", "),
			d.Units,
		)
	}
	table.Render()
	return nil
}

func formatDefault(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%v", value)
}
