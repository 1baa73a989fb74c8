package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtstandards/mtmeta/catalog"
	"github.com/mtstandards/mtmeta/codec"
	"github.com/mtstandards/mtmeta/internal/cli/ui"
	"github.com/mtstandards/mtmeta/model"
	"github.com/mtstandards/mtmeta/standards"
)

// NewFilterCommand creates the filter command
func NewFilterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Manage the filter catalog",
		Long: `Manage the filter catalog database. Channels reference filters by
name; the catalog holds the filter documents those names resolve to.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <schema> <file>",
		Short: "Validate and store a filter document",
		Args:  cobra.ExactArgs(2),
		RunE:  runFilterAdd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Print a stored filter as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runFilterShow,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored filter names",
		Args:  cobra.NoArgs,
		RunE:  runFilterList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a filter from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  runFilterDelete,
	})

	return cmd
}

func openCatalog(env *environment) (*catalog.Store, error) {
	types := map[string]*model.EntityType{
		"pole_zero_filter":   standards.PoleZeroFilter(),
		"coefficient_filter": standards.CoefficientFilter(),
	}
	return catalog.Open(env.config.Catalog, types)
}

func runFilterAdd(cmd *cobra.Command, args []string) error {
	schemaName, path := args[0], args[1]

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	store, err := openCatalog(env)
	if err != nil {
		return err
	}
	defer store.Close()

	t, err := env.entityType(schemaName)
	if err != nil {
		return err
	}
	record, err := readDocument(path)
	if err != nil {
		return err
	}
	inst, err := t.New(record)
	if err != nil {
		return err
	}
	if err := store.Put(inst); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("stored filter from %s", path), false))
	return nil
}

func runFilterShow(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	store, err := openCatalog(env)
	if err != nil {
		return err
	}
	defer store.Close()

	inst, err := store.GetByName(args[0])
	if err != nil {
		return err
	}
	out, err := codec.ToJSONIndent(inst)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runFilterList(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	store, err := openCatalog(env)
	if err != nil {
		return err
	}
	defer store.Close()

	names, err := store.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}

func runFilterDelete(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	store, err := openCatalog(env)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("deleted filter %s", args[0]), false))
	return nil
}
