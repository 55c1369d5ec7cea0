// Package chart renders survey rating series as radar (spider) charts.
// The output is a self-contained PNG so views can embed it directly
// without serving image files.
package chart

import (
	"bytes"
	"encoding/base64"
	"math"
	"strconv"

	"survey-spider/internal/domain"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	// Width and Height of the rendered image in pixels.
	Width  = 560
	Height = 560

	// The radius axis is pinned to the rating scale with a ring every
	// ringStep units, so charts for different scopes stay visually
	// comparable regardless of the data range.
	radiusMax = float64(domain.RatingMax)
	ringStep  = 2

	titleFontSize = 16.0
	labelFontSize = 11.0
	tickFontSize  = 8.0

	labelOffset = 16.0
	titleMargin = 40.0
)

var (
	gridColor   = drawing.Color{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}
	seriesColor = drawing.Color{R: 0x1f, G: 0x4f, B: 0xd8, A: 0xff}
	fillColor   = drawing.Color{R: 0x1f, G: 0x4f, B: 0xd8, A: 0x40}
	textColor   = drawing.Color{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// Radar renders the closed polar plot of values over the category axes and
// returns the encoded PNG. Axis i sits at angle 2π·i/N from the top,
// clockwise; the polygon is closed by joining the last vertex back to the
// first. values must parallel categories and sit within the rating scale.
func Radar(categories []string, values []float64, title string) ([]byte, error) {
	if len(categories) == 0 {
		return nil, domain.NewEmptyChartError()
	}
	if len(values) != len(categories) {
		return nil, domain.NewInvalidInputError("categories and values must have the same length")
	}

	r, err := chart.PNG(Width, Height)
	if err != nil {
		return nil, domain.NewInternalError("failed to create chart renderer", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, domain.NewInternalError("failed to load chart font", err)
	}
	r.SetFont(font)

	// Background.
	r.SetFillColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(Width, 0)
	r.LineTo(Width, Height)
	r.LineTo(0, Height)
	r.Close()
	r.Fill()

	cx := Width / 2
	cy := Height/2 + int(titleMargin)/4
	radius := float64(minInt(Width, Height))/2 - titleMargin - 2*labelOffset

	n := len(categories)
	point := func(axis int, value float64) (int, int) {
		v := math.Min(math.Max(value, 0), radiusMax)
		angle := 2 * math.Pi * float64(axis) / float64(n)
		x := float64(cx) + radius*(v/radiusMax)*math.Sin(angle)
		y := float64(cy) - radius*(v/radiusMax)*math.Cos(angle)
		return int(math.Round(x)), int(math.Round(y))
	}

	// Grid rings at every ringStep rating unit.
	r.SetStrokeColor(gridColor)
	r.SetStrokeWidth(1.0)
	for ring := ringStep; ring <= domain.RatingMax; ring += ringStep {
		r.Circle(radius*float64(ring)/radiusMax, cx, cy)
		r.Stroke()
	}

	// Spokes, one per category axis.
	for i := 0; i < n; i++ {
		x, y := point(i, radiusMax)
		r.MoveTo(cx, cy)
		r.LineTo(x, y)
		r.Stroke()
	}

	// Radius tick labels along the vertical axis.
	r.SetFontColor(textColor)
	r.SetFontSize(tickFontSize)
	for ring := ringStep; ring <= domain.RatingMax; ring += ringStep {
		_, ty := point(0, float64(ring))
		r.Text(strconv.Itoa(ring), cx+4, ty-2)
	}

	// Data polygon, filled with partial transparency.
	r.SetStrokeColor(seriesColor)
	r.SetFillColor(fillColor)
	r.SetStrokeWidth(2.0)
	x0, y0 := point(0, values[0])
	r.MoveTo(x0, y0)
	for i := 1; i < n; i++ {
		x, y := point(i, values[i])
		r.LineTo(x, y)
	}
	r.Close()
	r.FillStroke()

	// Vertex markers.
	r.SetFillColor(seriesColor)
	for i := 0; i < n; i++ {
		x, y := point(i, values[i])
		r.Circle(3.0, x, y)
		r.Fill()
	}

	// Axis labels outside the outer ring, anchored away from the center.
	r.SetFontColor(textColor)
	r.SetFontSize(labelFontSize)
	for i, label := range categories {
		angle := 2 * math.Pi * float64(i) / float64(n)
		lx := float64(cx) + (radius+labelOffset)*math.Sin(angle)
		ly := float64(cy) - (radius+labelOffset)*math.Cos(angle)
		box := r.MeasureText(label)

		x := int(math.Round(lx))
		y := int(math.Round(ly))
		switch {
		case math.Abs(math.Sin(angle)) < 0.1: // directly above or below
			x -= box.Width() / 2
		case math.Sin(angle) < 0: // left half
			x -= box.Width()
		}
		if math.Cos(angle) < -0.1 { // bottom half, push below the spoke end
			y += box.Height()
		}
		r.Text(label, x, y)
	}

	// Title, centered at the top.
	r.SetFontSize(titleFontSize)
	titleBox := r.MeasureText(title)
	r.Text(title, (Width-titleBox.Width())/2, int(titleMargin)-10)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, domain.NewInternalError("failed to encode chart", err)
	}
	return buf.Bytes(), nil
}

// RadarBase64 renders the radar chart and encodes it for inline embedding.
func RadarBase64(categories []string, values []float64, title string) (string, error) {
	png, err := Radar(categories, values, title)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
