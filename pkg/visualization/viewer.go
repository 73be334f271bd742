package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"filmthickness/internal/models"
)

var (
	spectrumColor = color.RGBA{0, 0, 255, 255}
	maximaColor   = color.RGBA{220, 0, 0, 255}
	minimaColor   = color.RGBA{0, 150, 0, 255}
	windowColor   = color.RGBA{128, 128, 128, 160}
	gridColor     = color.RGBA{200, 200, 200, 255}
)

// minSize is the smallest image edge in pixels that still leaves room for
// the title, axes and legend
const minSize = 100

// Viewer renders a reflectance spectrum with its detected extrema and the
// analysis window bounds.
type Viewer struct {
	width  int
	height int

	window models.AnalysisWindow

	// markerRadius is the radius of extremum markers
	markerRadius vg.Length
}

// NewViewer creates a plot renderer producing width x height images
func NewViewer(width, height int, window models.AnalysisWindow) *Viewer {
	return &Viewer{
		width:        width,
		height:       height,
		window:       window,
		markerRadius: vg.Points(3),
	}
}

// Plot builds the chart of r: the spectrum as a line, maxima and minima as
// annotated markers, the analysis window as dashed vertical lines, with a
// title naming the file and incident angle and a legend counting extrema.
func (v *Viewer) Plot(r *models.Result) (*plot.Plot, error) {
	if r == nil || r.Spectrum.Len() < 2 {
		return nil, fmt.Errorf("nothing to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - incident angle %g°", r.FilePath, r.IncidentAngle)
	p.X.Label.Text = "Wavenumber (cm-1)"
	p.Y.Label.Text = "Reflectance (%)"
	p.Legend.Top = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Horizontal.Color = gridColor
	p.Add(grid)

	s := r.Spectrum
	line, err := plotter.NewLine(xys(s.Wavenumber, s.Reflectance))
	if err != nil {
		return nil, fmt.Errorf("spectrum: %w", err)
	}
	line.Color = spectrumColor
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("Reflectance", line)

	if err := v.addExtrema(p, r.Maxima, maximaColor, draw.PyramidGlyph{}); err != nil {
		return nil, err
	}
	if err := v.addExtrema(p, r.Minima, minimaColor, draw.CircleGlyph{}); err != nil {
		return nil, err
	}

	lo, hi := floats.Min(s.Reflectance), floats.Max(s.Reflectance)
	for i, w := range []float64{v.window.Min, v.window.Max} {
		bound, err := plotter.NewLine(plotter.XYs{{X: w, Y: lo}, {X: w, Y: hi}})
		if err != nil {
			return nil, fmt.Errorf("window bound: %w", err)
		}
		bound.Color = windowColor
		bound.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(bound)
		if i == 0 {
			p.Legend.Add("Detection window", bound)
		}
	}

	return p, nil
}

func (v *Viewer) addExtrema(p *plot.Plot, set models.ExtremumSet, c color.Color, shape draw.GlyphDrawer) error {
	if set.Len() == 0 {
		return nil
	}

	points := xys(set.Wavenumbers(), set.Reflectances())
	markers, err := plotter.NewScatter(points)
	if err != nil {
		return fmt.Errorf("%s markers: %w", set.Kind, err)
	}
	markers.GlyphStyle.Color = c
	markers.GlyphStyle.Radius = v.markerRadius
	markers.GlyphStyle.Shape = shape

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: annotations(set)})
	if err != nil {
		return fmt.Errorf("%s labels: %w", set.Kind, err)
	}
	labels.Offset = vg.Point{X: vg.Points(5), Y: vg.Points(10)}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = c
		labels.TextStyle[i].XAlign = text.XCenter
	}

	p.Add(markers, labels)
	p.Legend.Add(fmt.Sprintf("%s (%d)", legendName(set.Kind), set.Len()), markers)
	return nil
}

// Render rasterizes the chart of r into a width x height image
func (v *Viewer) Render(r *models.Result) (image.Image, error) {
	if v.width < minSize || v.height < minSize {
		return nil, fmt.Errorf("image size %dx%d too small", v.width, v.height)
	}

	p, err := v.Plot(r)
	if err != nil {
		return nil, err
	}

	// vgimg renders at 72 dpi, so one point is one pixel
	canvas := vgimg.New(vg.Points(float64(v.width)), vg.Points(float64(v.height)))
	p.Draw(draw.New(canvas))
	return canvas.Image(), nil
}

// SavePlot saves a rendered plot as a PNG image
func (v *Viewer) SavePlot(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveResults renders every result into outputDir, one numbered PNG per dataset
func (v *Viewer) SaveResults(results []*models.Result, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}

	var written []string
	for i, r := range results {
		img, err := v.Render(r)
		if err != nil {
			return written, fmt.Errorf("plot %d: %w", i+1, err)
		}

		base := strings.TrimSuffix(filepath.Base(r.FilePath), filepath.Ext(r.FilePath))
		filename := filepath.Join(outputDir, fmt.Sprintf("plot_%03d_%s_%gdeg.png", i+1, base, r.IncidentAngle))
		if err := v.SavePlot(img, filename); err != nil {
			return written, err
		}
		written = append(written, filename)
	}

	return written, nil
}

// annotations labels each extremum with its kind, 1-based rank and wavenumber
func annotations(set models.ExtremumSet) []string {
	prefix := "Max"
	if set.Kind == models.Minima {
		prefix = "Min"
	}

	labels := make([]string, set.Len())
	for i, p := range set.Points {
		labels[i] = fmt.Sprintf("%s%d\n%.1f", prefix, i+1, p.Wavenumber)
	}
	return labels
}

func legendName(kind models.ExtremumKind) string {
	if kind == models.Minima {
		return "Minima"
	}
	return "Maxima"
}

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}
