// Command lissajous renders a Lissajous curve to a PNG or SVG file, or prints
// its sample sequence.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RMahshie/lissajous/internal/config"
	"github.com/RMahshie/lissajous/internal/curve"
	"github.com/RMahshie/lissajous/internal/presets"
	"github.com/RMahshie/lissajous/internal/render"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Error().Err(err).Msg("lissajous failed")
		os.Exit(1)
	}
}

// parameterFlags maps each flag name to the parameter field it sets
var parameterFlags = []struct {
	name  string
	usage string
	field func(*curve.Parameters) *float64
}{
	{"amplitude-a", "amplitude A of the x axis", func(p *curve.Parameters) *float64 { return &p.AmplitudeA }},
	{"amplitude-b", "amplitude B of the y axis", func(p *curve.Parameters) *float64 { return &p.AmplitudeB }},
	{"freq-a", "angular frequency ωA of the x axis", func(p *curve.Parameters) *float64 { return &p.AngularFreqA }},
	{"freq-b", "angular frequency ωB of the y axis", func(p *curve.Parameters) *float64 { return &p.AngularFreqB }},
	{"phase", "phase offset φ added to the x axis", func(p *curve.Parameters) *float64 { return &p.PhaseOffset }},
}

func run(args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("lissajous", pflag.ContinueOnError)
	presetName := fs.String("preset", "default", "preset to start from")
	fs.String("presets-file", "", "YAML file with additional presets")
	output := fs.StringP("output", "o", "lissajous.svg", "output image path")
	format := fs.StringP("format", "f", "", "image format (png, svg); defaults to the output extension")
	printSamples := fs.Bool("samples", false, "print the sample sequence instead of rendering")
	listPresets := fs.Bool("list-presets", false, "list available presets and exit")
	verbose := fs.BoolP("verbose", "v", false, "enable debug logging")

	paramValues := make(map[string]*float64, len(parameterFlags))
	for _, pf := range parameterFlags {
		paramValues[pf.name] = fs.Float64(pf.name, 0, pf.usage)
	}

	def := curve.DefaultConfig()
	fs.Int("sample-count", def.SampleCount, "number of samples")
	fs.Float64("t-min", def.TMin, "start of the parameter domain")
	fs.Float64("t-max", def.TMax, "end of the parameter domain")
	fs.Float64("size", render.DefaultOptions().Size, "image edge length in points")

	if err := fs.Parse(args); err != nil {
		return err
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	v := viper.New()
	for key, flag := range map[string]string{
		"SAMPLE_COUNT": "sample-count",
		"T_MIN":        "t-min",
		"T_MAX":        "t-max",
		"PLOT_SIZE":    "size",
		"PRESETS_FILE": "presets-file",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	cfg, err := config.LoadFrom(v)
	if err != nil {
		return err
	}
	curveCfg, err := cfg.CurveConfig()
	if err != nil {
		return err
	}

	catalog, err := presets.Load(cfg.Render.PresetsFile)
	if err != nil {
		return err
	}
	if *listPresets {
		for _, p := range catalog.List() {
			x, y := curve.Labels(p.Parameters)
			fmt.Fprintf(stdout, "%-14s %s, %s\n", p.Name, x, y)
		}
		return nil
	}

	preset, ok := catalog.Get(*presetName)
	if !ok {
		return fmt.Errorf("unknown preset %q", *presetName)
	}

	m, err := curve.NewModel(curveCfg)
	if err != nil {
		return err
	}

	// Explicit flags override the preset field by field; the model still receives one full update
	params := preset.Parameters
	for _, pf := range parameterFlags {
		if fs.Changed(pf.name) {
			*pf.field(&params) = *paramValues[pf.name]
		}
	}
	if err := m.Apply(curve.ParametersChanged(params)); err != nil {
		return err
	}
	if m.Parameters() != params {
		log.Warn().Interface("requested", params).Interface("applied", m.Parameters()).Msg("Parameters clamped to configured ranges")
	}

	if *printSamples {
		return writeSamples(stdout, m)
	}

	imgFormat, err := outputFormat(*format, *output)
	if err != nil {
		return err
	}

	opts := cfg.RenderOptions()
	opts.Format = imgFormat

	if err := writePlot(*output, m, opts); err != nil {
		return err
	}

	x, y := curve.Labels(m.Parameters())
	log.Info().Str("output", *output).Str("x", x).Str("y", y).Msg("Plot written")
	return nil
}

// outputFormat picks the explicit format or falls back to the file extension
func outputFormat(explicit, path string) (render.Format, error) {
	if explicit != "" {
		return render.ParseFormat(explicit)
	}
	ext := filepath.Ext(path)
	if ext == "" {
		return render.FormatSVG, nil
	}
	return render.ParseFormat(ext[1:])
}

// writePlot renders fully in memory so a failed render never touches path
func writePlot(path string, m *curve.Model, opts render.Options) error {
	var buf bytes.Buffer
	if err := render.Render(&buf, m.Parameters(), m.CurrentSamples(), opts); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// writeSamples prints one "t x y" line per sample
func writeSamples(w io.Writer, m *curve.Model) error {
	bw := bufio.NewWriter(w)
	grid := curve.TimeGrid(m.Config())
	for i, p := range m.CurrentSamples() {
		if _, err := fmt.Fprintf(bw, "%.9f %.9f %.9f\n", grid[i], p.X, p.Y); err != nil {
			return err
		}
	}
	return bw.Flush()
}
