package videoframe

import (
	"image"
	"image/draw"
	"time"
)

type Dimensions struct {
	W, H int
}

// Frame holds one RGBA image travelling from the render loop to a
// record backend, or from a playback source to the render loop.
// A nil *Frame is the "no image" marker.
type Frame struct {
	Index     int
	Width     int
	Height    int
	Stride    int
	Pix       []byte
	Timestamp time.Time
}

func New(w, h int) *Frame {
	return &Frame{
		Width: w, Height: h, Stride: w * 4,
		Pix:       make([]byte, w*h*4),
		Timestamp: Timestamp(),
	}
}

var Timestamp = func() time.Time {
	return time.Now()
}

// FromImage copies img into a new RGBA frame.
func FromImage(img image.Image) *Frame {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	pix := make([]byte, len(rgba.Pix))
	copy(pix, rgba.Pix)
	return &Frame{
		Width: b.Dx(), Height: b.Dy(), Stride: rgba.Stride,
		Pix: pix, Timestamp: Timestamp(),
	}
}

// Image aliases the frame pixels, it does not copy.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Stride,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

func (f *Frame) Dimensions() Dimensions {
	return Dimensions{W: f.Width, H: f.Height}
}

func (f *Frame) Empty() bool {
	return f == nil || len(f.Pix) == 0 || f.Width == 0 || f.Height == 0
}

func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	c := *f
	c.Pix = make([]byte, len(f.Pix))
	copy(c.Pix, f.Pix)
	return &c
}
