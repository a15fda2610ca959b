/*
Package image implements an XPM (X PixMap) version 3 image decoder.

An XPM file is C source declaring an array of strings. The first string
holds the values line; the image width and height, the number of colors and
the number of characters used to identify each pixel. It is followed by one
string per color, mapping a pixel identifier to up to four colors, one for
each display type (color, grayscale, four-level grayscale and monochrome),
and finally one string per row of pixel identifiers. After the Magic
comment a file looks like:

	static char *example[] = {
	"2 2 2 1",
	"a c red m white",
	"b c #0000ff",
	"ab",
	"ba"
	};

Decoding picks the color for the requested display type, falling back to
the other display types when the file doesn't define one. Hotspots,
extensions and multi-image files are not supported; trailing extension
sections are ignored.
*/
package image

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"

	"github.com/bodgit/xpm/x11"
)

// Magic is the signature at the start of every XPM file.
const Magic = "/* XPM */"

// FormatError reports that the input is not a valid XPM image.
type FormatError string

func (e FormatError) Error() string { return "xpm: invalid format: " + string(e) }

var (
	// ErrNoValues is returned when the input ends before a values line
	// is found.
	ErrNoValues = FormatError("no values line found")
	// ErrInvalidValues is returned when the values line can't be parsed.
	ErrInvalidValues = FormatError("invalid values line")
	// ErrInvalidDisplayType is returned for a color line that doesn't
	// start with one of the s, m, g, g4 or c keys.
	ErrInvalidDisplayType = FormatError("invalid display type")
	// ErrInvalidColor is returned for a malformed hexadecimal color.
	ErrInvalidColor = FormatError("invalid color value")
	// ErrTooLarge is returned when the values line declares more than
	// MaxPixels pixels.
	ErrTooLarge = FormatError("image too large")
)

// MaxPixels is the largest number of pixels an image may declare.
const MaxPixels = 1 << 26

var (
	// ErrRowsConsumed is returned when a Decoder is asked to decode the
	// pixel data a second time.
	ErrRowsConsumed = errors.New("xpm: pixel data already consumed")
	// ErrInvalidOptions is returned for negative subsampling factors or
	// a destination larger than MaxPixels.
	ErrInvalidOptions = errors.New("xpm: invalid decode options")
)

// DisplayType selects which of the colors defined for each pixel is used.
type DisplayType int

// The display types an XPM file can define colors for.
const (
	Color DisplayType = iota
	Grayscale
	FourLevelGrayscale
	Monochrome
)

var displayTypeNames = map[DisplayType]string{
	Color:              "color",
	Grayscale:          "grayscale",
	FourLevelGrayscale: "four-level-grayscale",
	Monochrome:         "monochrome",
}

func (d DisplayType) String() string {
	if s, ok := displayTypeNames[d]; ok {
		return s
	}
	return fmt.Sprintf("DisplayType(%d)", int(d))
}

// ParseDisplayType parses the name of a display type. Besides the names
// returned by String, the XPM keys c, g, g4 and m are accepted.
func ParseDisplayType(s string) (DisplayType, error) {
	switch s {
	case "color", "c":
		return Color, nil
	case "grayscale", "gray", "g":
		return Grayscale, nil
	case "four-level-grayscale", "g4":
		return FourLevelGrayscale, nil
	case "monochrome", "mono", "m":
		return Monochrome, nil
	}
	return Color, fmt.Errorf("xpm: unknown display type %q", s)
}

func defaultNames(logger *log.Logger) x11.Table {
	names, err := x11.Default()
	if err != nil {
		logger.Printf("Color names unavailable, named colors will be black: %v\n", err)
	}
	return names
}

func init() {
	image.RegisterFormat("xpm", Magic, Decode, DecodeConfig)
}

// Decode reads an XPM image from r and returns it as an image.Image using
// the color display type.
func Decode(r io.Reader) (image.Image, error) {
	return DecodeOptions(r, nil)
}

// DecodeOptions reads an XPM image from r applying the given options. A
// nil o is the same as the zero Options.
func DecodeOptions(r io.Reader, o *Options) (image.Image, error) {
	d := NewDecoder(r, nil, nil)
	m, err := d.Decode(o)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeConfig returns the color model and dimensions of an XPM image
// without decoding the color table or pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	d := NewDecoder(r, nil, nil)
	h, err := d.Header()
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      h.Width,
		Height:     h.Height,
	}, nil
}
