package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableRender(t *testing.T) {
	var out strings.Builder
	table := NewTable(&out, []string{"SCHEMA", "FIELDS"}, true)
	table.AddRow("station", "7")
	table.AddRow("pole_zero_filter", "9")
	table.Render()

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "SCHEMA")
	assert.Contains(t, lines[2], "station")
	assert.Contains(t, lines[3], "pole_zero_filter")

	// Columns align on the widest cell.
	assert.Equal(t, padRight("station", len("pole_zero_filter"))+"  "+"7", lines[2])
}

func TestFormatError(t *testing.T) {
	message := FormatError(ErrorOptions{
		Context:     "station.location.latitude",
		Problem:     "cannot coerce \"north\" to float",
		Suggestions: []string{"supply a decimal degree value"},
		NoColor:     true,
	})

	assert.Contains(t, message, "station.location.latitude")
	assert.Contains(t, message, "cannot coerce")
	assert.Contains(t, message, "supply a decimal degree value")
}
