// Package pattern is a synthetic playback source: an RGB circle test card
// with the frame index and a label drawn over it.
package pattern

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"github.com/tauraamui/pixrecord/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

type Settings struct {
	Frames int
	Width  int
	Height int
	Label  string
}

type Source struct {
	mu     sync.Mutex
	id     string
	frames int
	label  string
	w, h   int
	base   *image.RGBA
	face   font.Face
}

func New(settings Settings) (*Source, error) {
	if settings.Frames < 0 || settings.Width <= 0 || settings.Height <= 0 {
		return nil, xerror.Errorf("invalid pattern dimensions %dx%d with %d frames", settings.Width, settings.Height, settings.Frames)
	}
	ttf, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, xerror.Errorf("unable to parse pattern font: %w", err)
	}
	return &Source{
		id:     uuid.NewString(),
		frames: settings.Frames,
		label:  settings.Label,
		w:      settings.Width,
		h:      settings.Height,
		face: truetype.NewFace(ttf, &truetype.Options{
			Size:    float64(settings.Height) / 8,
			Hinting: font.HintingFull,
		}),
	}, nil
}

// ID distinguishes pattern sources in logs.
func (s *Source) ID() string { return s.id }

func (s *Source) NumFrames() int { return s.frames }

// Frame renders frame i, nil once i is past the last frame.
func (s *Source) Frame(i int) (*videoframe.Frame, error) {
	if i < 0 || i >= s.frames {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.base == nil {
		s.base = renderBaseCanvas(s.w, s.h)
	}

	canvas := cloneImage(s.base)
	lineHeight := s.h / 4
	s.drawText(canvas, 5, lineHeight, fmt.Sprintf("%05d", i))
	if len(s.label) > 0 {
		s.drawText(canvas, 5, lineHeight*2, s.label)
	}

	frame := videoframe.FromImage(canvas)
	frame.Index = i
	return frame, nil
}

func renderBaseCanvas(w, h int) *image.RGBA {
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := math.Min(hw, hh) / 2
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), r * 1.5}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), r * 1.5}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), r * 1.5}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			})
		}
	}
	return img
}

func cloneImage(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

func (s *Source) drawText(canvas *image.RGBA, x, y int, text string) {
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.White,
		Face: s.face,
	}
	bounds, _ := drawer.BoundString(text)
	textHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()
	drawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y-textHeight)/2 + fixed.I(textHeight),
	}
	drawer.DrawString(text)
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	if math.Sqrt(dx*dx+dy*dy)/c.R > 1 {
		return 0
	}
	return 255
}
