package image

import (
	"image"
	"image/color"
	"image/draw"
)

// Sink receives decoded pixels. Coordinates passed to SetARGB are always
// within [0, Width()) x [0, Height()).
type Sink interface {
	Width() int
	Height() int
	SetARGB(x, y int, c ARGB)
}

type imageSink struct {
	m draw.Image
	r image.Rectangle
}

// NewSink returns a Sink writing to m. Sink coordinates are relative to the
// top-left corner of m.Bounds(). Narrowing the color to the layout of m is
// left to its color model.
func NewSink(m draw.Image) Sink {
	if nrgba, ok := m.(*image.NRGBA); ok {
		return &nrgbaSink{nrgba}
	}
	return &imageSink{m: m, r: m.Bounds()}
}

func (s *imageSink) Width() int  { return s.r.Dx() }
func (s *imageSink) Height() int { return s.r.Dy() }

func (s *imageSink) SetARGB(x, y int, c ARGB) {
	s.m.Set(s.r.Min.X+x, s.r.Min.Y+y, c)
}

type nrgbaSink struct {
	m *image.NRGBA
}

func (s *nrgbaSink) Width() int  { return s.m.Rect.Dx() }
func (s *nrgbaSink) Height() int { return s.m.Rect.Dy() }

func (s *nrgbaSink) SetARGB(x, y int, c ARGB) {
	s.m.SetNRGBA(s.m.Rect.Min.X+x, s.m.Rect.Min.Y+y, c.NRGBA())
}

type opaqueSink struct {
	Sink
}

// Opaque returns a Sink that forces every pixel written to s to be fully
// opaque, the channels are kept as they are.
func Opaque(s Sink) Sink {
	return opaqueSink{s}
}

func (s opaqueSink) SetARGB(x, y int, c ARGB) {
	s.Sink.SetARGB(x, y, alphaMask|c)
}

// Layout is the pixel layout of a decoded image.
type Layout int

// Supported layouts.
const (
	// LayoutARGB keeps alpha, the image is an *image.NRGBA.
	LayoutARGB Layout = iota
	// LayoutRGB drops alpha, the image is an *image.RGBA.
	LayoutRGB
	// LayoutGray is 8-bit gray, the image is an *image.Gray.
	LayoutGray
	// LayoutBinary is black and white, the image is an *image.Paletted.
	LayoutBinary
)

var layoutNames = map[string]Layout{
	"argb":   LayoutARGB,
	"rgb":    LayoutRGB,
	"gray":   LayoutGray,
	"binary": LayoutBinary,
}

// ParseLayout parses one of argb, rgb, gray or binary.
func ParseLayout(s string) (Layout, bool) {
	l, ok := layoutNames[s]
	return l, ok
}

var binaryPalette = color.Palette{
	color.Gray{Y: 0x00},
	color.Gray{Y: 0xff},
}

// NewImage allocates an image with bounds r for the layout. Every pixel
// starts as transparent black, or black for layouts without alpha.
func (l Layout) NewImage(r image.Rectangle) draw.Image {
	switch l {
	case LayoutRGB:
		return image.NewRGBA(r)
	case LayoutGray:
		return image.NewGray(r)
	case LayoutBinary:
		return image.NewPaletted(r, binaryPalette)
	default:
		return image.NewNRGBA(r)
	}
}

// Sink returns a Sink writing to m, which should have been allocated by
// NewImage.
func (l Layout) Sink(m draw.Image) Sink {
	s := NewSink(m)
	if l == LayoutRGB {
		return Opaque(s)
	}
	return s
}
