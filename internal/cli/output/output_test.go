package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode Mode
		want Mode
	}{
		{ModeAuto, ModeText},
		{Mode(""), ModeText},
		{ModeText, ModeText},
		{ModeMarkdown, ModeMarkdown},
		{ModeJSON, ModeJSON},
	}

	for _, tt := range tests {
		r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, tt.mode)
		assert.Equal(t, tt.want, r.EffectiveMode(), "mode %q", tt.mode)
	}
}

func TestPlainOutputOffTTY(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &bytes.Buffer{}, ModeAuto)

	assert.False(t, r.IsTTY())

	r.Success("done")
	assert.Equal(t, "✓ done\n", out.String())

	out.Reset()
	r.Header(1, "Checks")
	assert.Equal(t, "Checks\n", out.String())
}

func TestMarkdownHeader(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &bytes.Buffer{}, ModeMarkdown)

	r.Header(2, "Environment")
	assert.Equal(t, "## Environment\n\n", out.String())
}

func TestStatusLine(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &bytes.Buffer{}, ModeText)

	r.StatusLine("Python", "success", "3.13.1")
	r.StatusLine("Android SDK", "error", "")

	assert.Contains(t, out.String(), "✓ Python: 3.13.1")
	assert.Contains(t, out.String(), "✗ Android SDK")
}

func TestWarningGoesToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Warning("no devices connected")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "no devices connected")
}

func TestJSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &bytes.Buffer{}, ModeJSON)

	require.NoError(t, r.JSON(map[string]string{"status": "ok"}))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "ok", decoded["status"])
}
