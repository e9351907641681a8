// Package render draws a household graph view as a PNG.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
	"github.com/anchorrisk/anchorrisk-backend/internal/modules/risk/advice"
)

type Options struct {
	Size       int
	NodeRadius float64
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = 800
	}
	if o.NodeRadius <= 0 {
		o.NodeRadius = 34
	}
	return o
}

var (
	ColorBackground = color.NRGBA{R: 0xFA, G: 0xFA, B: 0xF7, A: 0xFF}
	ColorEarner     = color.NRGBA{R: 0x2E, G: 0x8B, B: 0x57, A: 0xFF}
	ColorDependent  = color.NRGBA{R: 0x5B, G: 0x7D, B: 0xB1, A: 0xFF}
	ColorCritical   = color.NRGBA{R: 0xD6, G: 0x3A, B: 0x3A, A: 0xFF}
	ColorApplicant  = color.NRGBA{R: 0xE8, G: 0xA3, B: 0x17, A: 0xFF}
	colorEdge       = color.NRGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF}
	colorText       = color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xFF}
)

var (
	fontsOnce sync.Once
	fontsErr  error
	labelFont *truetype.Font
	titleFont *truetype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if labelFont, fontsErr = truetype.Parse(goregular.TTF); fontsErr != nil {
			return
		}
		titleFont, fontsErr = truetype.Parse(gobold.TTF)
	})
	return fontsErr
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull})
}

// Point is a node centre in image coordinates.
type Point struct{ X, Y float64 }

// Layout places nodes evenly on a circle, first node at twelve o'clock.
func Layout(n int, size int) []Point {
	out := make([]Point, n)
	c := float64(size) / 2
	if n == 1 {
		out[0] = Point{c, c}
		return out
	}
	r := float64(size) * 0.34
	for i := range out {
		a := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
		out[i] = Point{X: c + r*math.Cos(a), Y: c + r*math.Sin(a)}
	}
	return out
}

func NodeColor(n advice.GraphNode) color.NRGBA {
	if n.Role == household.RoleEarner {
		return ColorEarner
	}
	return ColorDependent
}

// GraphPNG renders nodes on a circle with arrows for support edges. Critical
// members get a red ring, the applicant an amber one.
func GraphPNG(view advice.GraphView, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	size := float64(opts.Size)
	dc := gg.NewContext(opts.Size, opts.Size)
	dc.SetColor(ColorBackground)
	dc.Clear()

	pos := Layout(len(view.Nodes), opts.Size)
	index := make(map[string]int, len(view.Nodes))
	for i, n := range view.Nodes {
		index[n.ID] = i
	}

	dc.SetColor(colorEdge)
	for _, e := range view.Edges {
		from, ok1 := index[e.Source]
		to, ok2 := index[e.Target]
		if !ok1 || !ok2 || from == to {
			continue
		}
		drawArrow(dc, pos[from], pos[to], opts.NodeRadius, 1+3*e.Strength)
	}

	dc.SetFontFace(face(labelFont, 14))
	for i, n := range view.Nodes {
		p := pos[i]
		dc.DrawCircle(p.X, p.Y, opts.NodeRadius)
		dc.SetColor(NodeColor(n))
		dc.Fill()
		if n.IsCritical {
			dc.SetLineWidth(5)
			dc.DrawCircle(p.X, p.Y, opts.NodeRadius+4)
			dc.SetColor(ColorCritical)
			dc.Stroke()
		}
		if n.IsApplicant {
			dc.SetLineWidth(3)
			dc.DrawCircle(p.X, p.Y, opts.NodeRadius+10)
			dc.SetColor(ColorApplicant)
			dc.Stroke()
		}
		dc.SetColor(colorText)
		dc.DrawStringAnchored(shortLabel(n.Label), p.X, p.Y+opts.NodeRadius+22, 0.5, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("%.2f", n.IncomeStability), p.X, p.Y+opts.NodeRadius+40, 0.5, 0.5)
	}

	dc.SetFontFace(face(titleFont, 20))
	dc.SetColor(colorText)
	dc.DrawStringAnchored(
		fmt.Sprintf("fragility %.2f  |  %d earners / %d dependents",
			view.Metrics.FragilityScore, view.Composition.Earners, view.Composition.Dependents),
		size/2, 28, 0.5, 0.5,
	)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func drawArrow(dc *gg.Context, from, to Point, radius, width float64) {
	dx, dy := to.X-from.X, to.Y-from.Y
	dist := math.Hypot(dx, dy)
	if dist <= 2*radius {
		return
	}
	ux, uy := dx/dist, dy/dist
	sx, sy := from.X+ux*radius, from.Y+uy*radius
	ex, ey := to.X-ux*radius, to.Y-uy*radius

	dc.SetLineWidth(width)
	dc.DrawLine(sx, sy, ex, ey)
	dc.Stroke()

	const head = 12.0
	left := math.Atan2(uy, ux) + math.Pi - math.Pi/7
	right := math.Atan2(uy, ux) + math.Pi + math.Pi/7
	dc.MoveTo(ex, ey)
	dc.LineTo(ex+head*math.Cos(left), ey+head*math.Sin(left))
	dc.LineTo(ex+head*math.Cos(right), ey+head*math.Sin(right))
	dc.ClosePath()
	dc.Fill()
}

// shortLabel keeps hashed ids readable.
func shortLabel(s string) string {
	if len(s) > 12 {
		return s[:8] + "…"
	}
	return s
}
