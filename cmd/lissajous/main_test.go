package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/lissajous/internal/curve"
	"github.com/RMahshie/lissajous/internal/render"
)

func TestRun_WritesSVG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plot.svg")

	err := run([]string{"--output", out, "--preset", "figure-eight"}, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestRun_WritesPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plot.png")

	err := run([]string{"-o", out, "--size", "120"}, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestRun_PrintSamples(t *testing.T) {
	var stdout bytes.Buffer
	err := run([]string{
		"--samples",
		"--amplitude-a", "1", "--amplitude-b", "1",
		"--freq-a", "1", "--freq-b", "1", "--phase", "0",
	}, &stdout)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, curve.DefaultSampleCount)

	for _, line := range lines {
		fields := strings.Fields(line)
		require.Len(t, fields, 3)
		x, err := strconv.ParseFloat(fields[1], 64)
		require.NoError(t, err)
		y, err := strconv.ParseFloat(fields[2], 64)
		require.NoError(t, err)
		assert.InDelta(t, x, y, 1e-9)
	}

	first := strings.Fields(lines[0])
	tMin, err := strconv.ParseFloat(first[0], 64)
	require.NoError(t, err)
	assert.InDelta(t, -math.Pi, tMin, 1e-9)
}

func TestRun_SampleCountFlag(t *testing.T) {
	var stdout bytes.Buffer
	err := run([]string{"--samples", "--sample-count", "501", "--t-min", "0", "--t-max", "15"}, &stdout)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	assert.Len(t, lines, 501)
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "15.000000000 "))
}

func TestRun_RejectsNaN(t *testing.T) {
	err := run([]string{"--samples", "--amplitude-a", "NaN"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, curve.ErrInvalidParameter)
}

func TestRun_Errors(t *testing.T) {
	assert.Error(t, run([]string{"--preset", "missing"}, &bytes.Buffer{}))
	assert.Error(t, run([]string{"--t-min", "2", "--t-max", "1", "--samples"}, &bytes.Buffer{}))

	out := filepath.Join(t.TempDir(), "plot.gif")
	assert.ErrorIs(t, run([]string{"-o", out}, &bytes.Buffer{}), render.ErrUnsupportedFormat)
}

func TestRun_ListPresets(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, run([]string{"--list-presets"}, &stdout))
	assert.Contains(t, stdout.String(), "diagonal")
	assert.Contains(t, stdout.String(), "x = 1.00·sin(1.00·t + 0.00)")
}

func TestWritePlot_FailedRenderLeavesNoFile(t *testing.T) {
	m, err := curve.NewModel(curve.DefaultConfig())
	require.NoError(t, err)
	opts := render.DefaultOptions()
	opts.Format = render.Format("gif")

	dir := t.TempDir()
	missing := filepath.Join(dir, "new.gif")
	assert.ErrorIs(t, writePlot(missing, m, opts), render.ErrUnsupportedFormat)
	assert.NoFileExists(t, missing)

	existing := filepath.Join(dir, "keep.svg")
	require.NoError(t, os.WriteFile(existing, []byte("previous"), 0o644))
	assert.Error(t, writePlot(existing, m, opts))
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestOutputFormat(t *testing.T) {
	f, err := outputFormat("", "a/b/plot.PNG")
	require.NoError(t, err)
	assert.Equal(t, render.FormatPNG, f)

	f, err = outputFormat("svg", "plot.png")
	require.NoError(t, err)
	assert.Equal(t, render.FormatSVG, f)

	f, err = outputFormat("", "plot")
	require.NoError(t, err)
	assert.Equal(t, render.FormatSVG, f)
}
