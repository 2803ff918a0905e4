package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain(t *testing.T) {
	t.Helper()
	SetColorForcing(false, true)
	t.Cleanup(func() { SetColorForcing(false, false); SetTheme("classic") })
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 5))
	assert.Equal(t, "█████ 100%", ProgressBar(2, 2, 5))
	assert.Equal(t, "██░░░░░░░░  25%", ProgressBar(1, 4, 10))
}

func TestPanelAlignsWideGlyphs(t *testing.T) {
	plain(t)
	var buf bytes.Buffer
	Panel(&buf, []string{"☐ Milk", "longer line"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "┌─────────────┐", lines[0])
	assert.Equal(t, "│ ☐ Milk      │", lines[1])
	assert.Equal(t, "│ longer line │", lines[2])
	assert.Equal(t, "└─────────────┘", lines[3])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	got := Truncate(strings.Repeat("x", 100), MaxTitleWidth)
	assert.Len(t, got, MaxTitleWidth)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestOKAndFailWithoutColor(t *testing.T) {
	plain(t)
	var buf bytes.Buffer
	OK(&buf, "added")
	Fail(&buf, "nope")
	assert.Equal(t, "✔ added\n✖ nope\n", buf.String())
}

func TestSwatchWithoutColor(t *testing.T) {
	plain(t)
	assert.Equal(t, "●", Swatch("007AFF"))
	assert.Equal(t, "●", Swatch("garbage"))
}

func TestMonoTheme(t *testing.T) {
	plain(t)
	SetTheme("mono")
	assert.Equal(t, "[x]", Box(true))
	assert.Equal(t, "[ ]", Box(false))
	assert.False(t, Enabled())
}
