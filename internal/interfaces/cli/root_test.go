package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the full root command with args and captures stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFormatTable(t *testing.T) {
	out := FormatTable(
		[]string{"CATEGORY", "COUNT"},
		[][]string{
			{"inss", "42"},
			{"lesiones_hombro", "7"},
		},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "CATEGORY"))
	assert.Contains(t, lines[1], "---")
	// Columns align on the widest cell.
	assert.Equal(t, strings.Index(lines[0], "COUNT"), strings.Index(lines[3], "7"))
}

func TestFormatTableEmptyHeaders(t *testing.T) {
	assert.Empty(t, FormatTable(nil, [][]string{{"x"}}))
}

func TestGetCLIContextMissing(t *testing.T) {
	cmd := &cobra.Command{Use: "orphan"}
	_, err := GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sentencia")
	assert.Contains(t, out, "commit:")
}

func TestVersionCommandJSON(t *testing.T) {
	out, err := executeCommand(t, "version", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)
	assert.Contains(t, out, `"platform"`)
}

func TestUnknownCommand(t *testing.T) {
	_, err := executeCommand(t, "does-not-exist")
	assert.Error(t, err)
}
