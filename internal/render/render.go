package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/RMahshie/lissajous/internal/curve"
)

var (
	// ErrUnsupportedFormat is returned for output formats other than png and svg
	ErrUnsupportedFormat = errors.New("unsupported plot format")
	// ErrNoSamples is returned when there is nothing to draw
	ErrNoSamples = errors.New("no samples to render")
)

// Format is an output image format
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat converts a user-supplied name into a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG, "":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type for the format
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension including the leading dot
func (f Format) Extension() string {
	return "." + string(f)
}

// Options controls plot appearance
type Options struct {
	Format Format
	// Size is the edge length of the square image in points
	Size float64
	// DPI applies to raster output only
	DPI       int
	LineWidth float64
	// AxisLimit fixes both axes to [-AxisLimit, AxisLimit]. Zero fits the samples.
	AxisLimit  float64
	ShowLabels bool
	LineColor  color.Color
}

// DefaultOptions returns a 400pt square SVG with formula labels
func DefaultOptions() Options {
	return Options{
		Format:     FormatSVG,
		Size:       400,
		DPI:        96,
		LineWidth:  1.5,
		ShowLabels: true,
		LineColor:  color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	}
}

// Render draws samples as a connected line inside a bordered square viewport
// and writes the encoded image to w.
func Render(w io.Writer, p curve.Parameters, samples curve.Samples, opts Options) error {
	if len(samples) == 0 {
		return ErrNoSamples
	}
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = DefaultOptions().LineWidth
	}
	if opts.LineColor == nil {
		opts.LineColor = DefaultOptions().LineColor
	}

	pl, err := newPlot(p, samples, opts)
	if err != nil {
		return err
	}

	size := vg.Points(opts.Size)
	switch opts.Format {
	case FormatPNG:
		dpi := opts.DPI
		if dpi <= 0 {
			dpi = DefaultOptions().DPI
		}
		c := vgimg.NewWith(vgimg.UseWH(size, size), vgimg.UseDPI(dpi))
		pl.Draw(draw.New(c))
		if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
			return fmt.Errorf("failed to write png: %w", err)
		}
	case FormatSVG, "":
		c := vgsvg.New(size, size)
		pl.Draw(draw.New(c))
		if _, err := c.WriteTo(w); err != nil {
			return fmt.Errorf("failed to write svg: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
	}
	return nil
}

func newPlot(p curve.Parameters, samples curve.Samples, opts Options) (*plot.Plot, error) {
	pl := plot.New()
	if opts.ShowLabels {
		xLabel, yLabel := curve.Labels(p)
		pl.Title.Text = xLabel + "\n" + yLabel
		pl.Title.Padding = vg.Points(6)
	}
	pl.X.Label.Text = "x"
	pl.Y.Label.Text = "y"

	limit := opts.AxisLimit
	if limit <= 0 {
		limit = fitLimit(samples)
	}
	pl.X.Min, pl.X.Max = -limit, limit
	pl.Y.Min, pl.Y.Max = -limit, limit

	border, err := plotter.NewPolygon(plotter.XYs{
		{X: -limit, Y: -limit},
		{X: limit, Y: -limit},
		{X: limit, Y: limit},
		{X: -limit, Y: limit},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build border: %w", err)
	}
	border.Color = nil
	border.LineStyle.Width = vg.Points(1)
	border.LineStyle.Color = color.Gray{Y: 0x40}

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.X
		pts[i].Y = s.Y
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build curve line: %w", err)
	}
	line.LineStyle.Width = vg.Points(opts.LineWidth)
	line.LineStyle.Color = opts.LineColor

	pl.Add(plotter.NewGrid(), border, line)
	return pl, nil
}

// fitLimit returns a symmetric axis limit slightly larger than the largest coordinate
func fitLimit(samples curve.Samples) float64 {
	minX, maxX, minY, maxY := samples.Bounds()
	m := math.Max(math.Max(math.Abs(minX), math.Abs(maxX)), math.Max(math.Abs(minY), math.Abs(maxY)))
	if m == 0 {
		return 1
	}
	return m * 1.1
}
