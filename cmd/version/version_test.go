package version

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintVersionInfo(t *testing.T) {
	v := Versions{Version: "1.2.3", GolangVersion: "go1.24.0", BuildTime: "2024-03-02"}

	var text bytes.Buffer
	require.NoError(t, printVersionInfo(&text, v, false))
	assert.Equal(t, "Core Version: v1.2.3\nGo Version: go1.24.0\nBuild Time: 2024-03-02\n", text.String())

	var raw bytes.Buffer
	require.NoError(t, printVersionInfo(&raw, v, true))
	var decoded Versions
	require.NoError(t, json.Unmarshal(raw.Bytes(), &decoded))
	assert.Equal(t, v, decoded)
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Core Version: v"+CoreVersion)
}
