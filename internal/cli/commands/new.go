package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mtstandards/mtmeta/schema"
	"github.com/mtstandards/mtmeta/vocab"
)

var newOutput string

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_.]*$`)

// NewNewCommand creates the new command
func NewNewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <schema-name>",
		Short: "Scaffold a new field-spec document interactively",
		Long: `Scaffold a field-spec document by answering prompts for each field.
The resulting JSON document is validated before it is written, so the
output always loads cleanly.

Example:
  mtmeta new fluxgate -o schemas/fluxgate.json`,
		Args: cobra.ExactArgs(1),
		RunE: runNewSchema,
	}

	cmd.Flags().StringVarP(&newOutput, "output", "o", "", "Output file (defaults to <schema-name>.json)")

	return cmd
}

// fieldSpec mirrors the field-spec document layout. Struct order fixes
// the key order in the generated JSON.
type fieldSpec struct {
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Style       string   `json:"style"`
	Units       *string  `json:"units"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
	Alias       []string `json:"alias"`
	Example     any      `json:"example"`
	Default     any      `json:"default"`
}

func runNewSchema(cmd *cobra.Command, args []string) error {
	name := args[0]
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("schema name must be a lower-case identifier, got %q", name)
	}

	infoColor := color.New(color.FgCyan)
	infoColor.Printf("Defining fields for schema %q. Submit an empty field name to finish.\n", name)

	var order []string
	specs := make(map[string]fieldSpec)

	for {
		spec, fieldName, err := promptField()
		if err != nil {
			return err
		}
		if fieldName == "" {
			break
		}
		if !identifierPattern.MatchString(fieldName) {
			fmt.Fprintf(cmd.ErrOrStderr(), "field name must be a lower-case identifier, got %q\n", fieldName)
			continue
		}
		if _, dup := specs[fieldName]; dup {
			fmt.Fprintf(cmd.ErrOrStderr(), "field %q is already defined\n", fieldName)
			continue
		}
		order = append(order, fieldName)
		specs[fieldName] = spec
	}

	if len(order) == 0 {
		return fmt.Errorf("schema %q needs at least one field", name)
	}

	document, err := renderDocument(order, specs)
	if err != nil {
		return err
	}

	// A document that fails to load is a bug in this generator, not a
	// user mistake; surface it before writing anything.
	if _, err := schema.Load(name, document, vocab.Default()); err != nil {
		return fmt.Errorf("generated document does not load: %w", err)
	}

	output := newOutput
	if output == "" {
		output = name + ".json"
	}
	if err := os.WriteFile(output, document, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	successColor := color.New(color.FgGreen, color.Bold)
	successColor.Printf("✓ wrote %s (%d fields)\n", output, len(order))
	return nil
}

func promptField() (fieldSpec, string, error) {
	var fieldName string
	if err := survey.AskOne(&survey.Input{Message: "Field name:"}, &fieldName); err != nil {
		return fieldSpec{}, "", err
	}
	fieldName = strings.TrimSpace(fieldName)
	if fieldName == "" {
		return fieldSpec{}, "", nil
	}

	questions := []*survey.Question{
		{
			Name: "type",
			Prompt: &survey.Select{
				Message: "Type:",
				Options: []string{
					"string", "integer", "float", "boolean",
					"list<string>", "list<integer>", "list<float>", "list<boolean>",
				},
				Default: "string",
			},
		},
		{
			Name:   "required",
			Prompt: &survey.Confirm{Message: "Required?", Default: false},
		},
		{
			Name:   "units",
			Prompt: &survey.Input{Message: "Units (empty for none):"},
		},
		{
			Name:   "description",
			Prompt: &survey.Input{Message: "Description:"},
		},
		{
			Name:   "options",
			Prompt: &survey.Input{Message: "Allowed values, comma separated (empty for free-form):"},
		},
		{
			Name:   "alias",
			Prompt: &survey.Input{Message: "Aliases, comma separated (empty for none):"},
		},
	}

	answers := struct {
		Type        string
		Required    bool
		Units       string
		Description string
		Options     string
		Alias       string
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return fieldSpec{}, "", err
	}

	spec := fieldSpec{
		Type:        answers.Type,
		Required:    answers.Required,
		Style:       "name",
		Description: answers.Description,
		Options:     splitList(answers.Options),
		Alias:       splitList(answers.Alias),
	}
	if units := strings.TrimSpace(answers.Units); units != "" {
		spec.Units = &units
	}
	return spec, fieldName, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if out == nil {
		return []string{}
	}
	return out
}

// renderDocument emits the document with fields in declaration order.
func renderDocument(order []string, specs map[string]fieldSpec) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fieldName := range order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fieldName)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		body, err := json.Marshal(specs[fieldName])
		if err != nil {
			return nil, err
		}
		buf.Write(body)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
