package display

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputJSON(&buf, map[string]int{"archetypes": 3}))
	assert.Equal(t, "{\n  \"archetypes\": 3\n}\n", buf.String())

	assert.Error(t, OutputJSON(&buf, func() {}))
}

func TestShouldOutputJSON(t *testing.T) {
	assert.False(t, ShouldOutputJSON(nil))

	root := &cobra.Command{Use: "root"}
	root.PersistentFlags().Bool("json", false, "")
	child := &cobra.Command{Use: "child", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(child)

	assert.False(t, ShouldOutputJSON(child))
	require.NoError(t, root.PersistentFlags().Set("json", "true"))
	assert.True(t, ShouldOutputJSON(child))

	local := &cobra.Command{Use: "local"}
	local.Flags().Bool("json", false, "")
	require.NoError(t, local.Flags().Set("json", "true"))
	assert.True(t, ShouldOutputJSON(local))
}
