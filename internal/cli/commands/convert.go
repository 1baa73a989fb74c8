package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mtstandards/mtmeta/codec"
	"github.com/mtstandards/mtmeta/model"
	"github.com/mtstandards/mtmeta/standards"
)

var (
	convertFrom   string
	convertTo     string
	convertOutput string
)

// NewConvertCommand creates the convert command
func NewConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <schema> <file>",
		Short: "Convert a metadata document between representations",
		Long: `Convert a metadata document between the JSON, flattened-JSON and XML
representations. The source representation is taken from the file
extension unless --from is given. Conversion validates the document;
an invalid document is rejected.

Examples:
  mtmeta convert station station_001.json --to xml
  mtmeta convert run run.xml --to flat -o run_flat.json`,
		Args: cobra.ExactArgs(2),
		RunE: runConvert,
	}

	cmd.Flags().StringVar(&convertFrom, "from", "", "Source representation (json, flat, xml)")
	cmd.Flags().StringVar(&convertTo, "to", "json", "Target representation (json, flat, xml)")
	cmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Write the result to a file instead of stdout")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	schemaName, path := args[0], args[1]

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	t, err := env.entityType(schemaName)
	if err != nil {
		return err
	}

	inst, err := decodeInput(t, schemaName, path)
	if err != nil {
		return err
	}

	out, err := encodeOutput(inst, schemaName, convertTo)
	if err != nil {
		return err
	}

	if convertOutput != "" {
		if err := os.WriteFile(convertOutput, out, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", convertOutput, err)
		}
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func decodeInput(t *model.EntityType, schemaName, path string) (*model.Instance, error) {
	from := convertFrom
	if from == "" {
		if strings.EqualFold(filepath.Ext(path), ".xml") {
			from = "xml"
		} else {
			from = "json"
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch from {
	case "json":
		return codec.FromJSON(t, data)
	case "xml":
		return codec.DecodeXML(t, standards.XMLPlan(schemaName), data)
	case "flat":
		dec := json.NewDecoder(strings.NewReader(string(data)))
		dec.UseNumber()
		var flat map[string]any
		if err := dec.Decode(&flat); err != nil {
			return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
		}
		return codec.FromFlatMap(t, flat)
	default:
		return nil, fmt.Errorf("unknown source representation %q", from)
	}
}

func encodeOutput(inst *model.Instance, schemaName, to string) ([]byte, error) {
	switch to {
	case "json":
		return codec.ToJSONIndent(inst)
	case "flat":
		return json.MarshalIndent(codec.ToFlatMap(inst), "", "    ")
	case "xml":
		return codec.EncodeXML(inst, standards.XMLPlan(schemaName))
	default:
		return nil, fmt.Errorf("unknown target representation %q", to)
	}
}
