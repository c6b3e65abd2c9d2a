package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defscope.dev/pkg/defscope/internal/controller"
)

func TestIndexCmd_Text(t *testing.T) {
	cmd := baseRootCmd()
	cmd.AddCommand(newIndexCmd())

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"index", filepath.Join("testdata", "strategy.py")})

	require.NoError(t, cmd.Execute())

	output := out.String()
	assert.Contains(t, output, "Momentum(BaseStrategy)")
	assert.Contains(t, output, "Momentum.populate")
	assert.Contains(t, output, "standalone")
	assert.Contains(t, output, "window [IntParameter]")
}

func TestIndexCmd_JSON(t *testing.T) {
	t.Setenv("DEFSCOPE_OUTPUT_FORMAT", "json")

	cmd := baseRootCmd()
	cmd.AddCommand(newIndexCmd())

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"index", filepath.Join("testdata", "strategy.py")})

	require.NoError(t, cmd.Execute())

	var decoded []controller.FileIndex
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	require.Len(t, decoded[0].Index.Classes, 1)
	assert.Equal(t, "Momentum", decoded[0].Index.Classes[0].Name)
	assert.Len(t, decoded[0].Index.Classes[0].Methods, 2)
	require.Len(t, decoded[0].Index.Params, 1)
	assert.Equal(t, "window", decoded[0].Index.Params[0].Name)
}
