package image

import (
	"image"
	"log"
)

// Options control how an image is decoded. The zero value decodes the whole
// image with the color display type into an ARGB layout.
type Options struct {
	// DisplayType selects which colors of the color table are used.
	DisplayType DisplayType
	// Region is the part of the source image to decode. An empty
	// rectangle means the whole image.
	Region image.Rectangle
	// Offset is where the top-left corner of Region lands in the
	// destination.
	Offset image.Point
	// SubsampleX and SubsampleY only decode every nth column and row.
	// Zero is treated as one.
	SubsampleX, SubsampleY int
	// Layout is the pixel layout of the image returned by Decoder.Decode.
	Layout Layout
}

func (o *Options) validate() error {
	if o.SubsampleX < 0 || o.SubsampleY < 0 {
		return ErrInvalidOptions
	}
	return nil
}

func subsample(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// region returns the part of the image to decode, clipped to the image.
func (o *Options) region(h Header) image.Rectangle {
	r := image.Rect(0, 0, h.Width, h.Height)
	if o.Region.Empty() {
		return r
	}
	return o.Region.Intersect(r)
}

// Bounds returns the bounds of the destination image needed to hold an
// image with header h decoded with o.
func (o *Options) Bounds(h Header) image.Rectangle {
	if o == nil {
		o = &Options{}
	}
	src := o.region(h)
	sx, sy := subsample(o.SubsampleX), subsample(o.SubsampleY)

	w := o.Offset.X + (src.Dx()+sx-1)/sx
	ht := o.Offset.Y + (src.Dy()+sy-1)/sy
	if w < 0 {
		w = 0
	}
	if ht < 0 {
		ht = 0
	}
	return image.Rect(0, 0, w, ht)
}

// rasterizer maps rows of pixel identifiers through the color table into a
// sink.
type rasterizer struct {
	header  Header
	table   ColorTable
	region  image.Rectangle
	offset  image.Point
	sx, sy  int
	display DisplayType
	sink    Sink
	logger  *log.Logger

	unknown map[string]struct{}
}

func newRasterizer(h Header, t ColorTable, o *Options, s Sink, logger *log.Logger) *rasterizer {
	return &rasterizer{
		header:  h,
		table:   t,
		region:  o.region(h),
		offset:  o.Offset,
		sx:      subsample(o.SubsampleX),
		sy:      subsample(o.SubsampleY),
		display: o.DisplayType,
		sink:    s,
		logger:  logger,
		unknown: make(map[string]struct{}),
	}
}

// wants reports whether any pixel of source row y could be written.
func (r *rasterizer) wants(y int) bool {
	return y >= r.region.Min.Y && y < r.region.Max.Y
}

// row writes the pixels of source row y, where row is the concatenated pixel
// identifiers with the surrounding quotes removed.
func (r *rasterizer) row(y int, row string) {
	if !r.wants(y) {
		return
	}
	destY := r.offset.Y + (y-r.region.Min.Y)/r.sy
	if destY < 0 || destY >= r.sink.Height() {
		return
	}

	cpp := r.header.CharsPerPixel
	for x := 0; x < r.header.Width; x += r.sx {
		if x < r.region.Min.X || x >= r.region.Max.X {
			continue
		}
		destX := r.offset.X + (x-r.region.Min.X)/r.sx
		if destX < 0 || destX >= r.sink.Width() {
			continue
		}

		start := x * cpp
		if start+cpp > len(row) {
			break
		}
		id := row[start : start+cpp]
		p, ok := r.table[id]
		if !ok {
			if _, seen := r.unknown[id]; !seen {
				r.unknown[id] = struct{}{}
				r.logger.Printf("No color for pixel %q at %d,%d\n", id, x, y)
			}
			continue
		}
		r.sink.SetARGB(destX, destY, p.Effective(r.display))
	}
}
