package image

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/bodgit/xpm/x11"
)

// ARGB is a non-premultiplied color packed as 8 bits each of alpha, red,
// green and blue, from most to least significant.
type ARGB uint32

const (
	transparent ARGB = 0x00000000
	opaqueBlack ARGB = 0xff000000
	alphaMask   ARGB = 0xff000000
	rgbMask     ARGB = 0x00ffffff
)

func packARGB(a, r, g, b uint8) ARGB {
	return ARGB(a)<<24 | ARGB(r)<<16 | ARGB(g)<<8 | ARGB(b)
}

// A returns the alpha component.
func (c ARGB) A() uint8 { return uint8(c >> 24) }

// R returns the red component.
func (c ARGB) R() uint8 { return uint8(c >> 16) }

// G returns the green component.
func (c ARGB) G() uint8 { return uint8(c >> 8) }

// B returns the blue component.
func (c ARGB) B() uint8 { return uint8(c) }

// NRGBA returns c as a color.NRGBA.
func (c ARGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

// RGBA implements the color.Color interface.
func (c ARGB) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// luma converts c to gray using the ITU-R 601 weights. Each term is rounded
// separately and alpha is kept.
func luma(c ARGB) ARGB {
	y := math.Round(float64(c.R())*0.299) + math.Round(float64(c.G())*0.587) + math.Round(float64(c.B())*0.114)
	v := uint8(y)
	return packARGB(c.A(), v, v, v)
}

// threshold turns c white if the low byte is above 127, otherwise it is
// returned unchanged.
func threshold(c ARGB) ARGB {
	if c&0xff > 127 {
		return c | rgbMask
	}
	return c
}

type variant struct {
	c   ARGB
	set bool
}

// PixelColor holds the colors defined for one pixel identifier, one per
// display type, and the effective color for each display type derived from
// them. It is immutable once parsed.
type PixelColor struct {
	rgb, gray, fourLevelGray, mono variant

	rgbComponentSize, grayComponentSize int

	effectiveGray, effectiveMono, effectiveARGB, effectiveRGB ARGB
}

var keys = map[string]struct{}{
	"s":  {},
	"m":  {},
	"g":  {},
	"g4": {},
	"c":  {},
}

var punctuation = strings.NewReplacer(`"`, "", ",", "")

func stripComments(line string) string {
	for {
		i := strings.Index(line, "/*")
		if i < 0 {
			return line
		}
		j := strings.Index(line[i+2:], "*/")
		if j < 0 {
			return line[:i]
		}
		line = line[:i] + " " + line[i+2+j+2:]
	}
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

// ParsePixelColor parses the colors from a color line with the leading
// quote and pixel identifier already removed, such as:
//
//	c red m white s light_color",
//
// Named colors are looked up in names; unknown names become opaque black.
func ParsePixelColor(line string, names x11.Table) (*PixelColor, error) {
	p := &PixelColor{
		rgbComponentSize:  8,
		grayComponentSize: 8,
	}

	tokens := strings.FieldsFunc(punctuation.Replace(stripComments(line)), isBlank)

	key := ""
	var value []string
	for _, token := range tokens {
		if _, ok := keys[token]; ok {
			if key != "" && len(value) > 0 {
				if err := p.set(key, strings.Join(value, " "), names); err != nil {
					return nil, err
				}
			}
			key, value = token, value[:0]
			continue
		}
		if key == "" {
			return nil, ErrInvalidDisplayType
		}
		value = append(value, token)
	}
	if key != "" && len(value) > 0 {
		if err := p.set(key, strings.Join(value, " "), names); err != nil {
			return nil, err
		}
	}

	p.resolve()

	return p, nil
}

func (p *PixelColor) set(key, value string, names x11.Table) error {
	if key == "s" {
		return nil
	}

	c, size, err := parseColorValue(value, names)
	if err != nil {
		return err
	}

	switch key {
	case "c":
		p.rgb = variant{c, true}
		p.rgbComponentSize = size
	case "g":
		p.gray = variant{c, true}
		p.grayComponentSize = size
	case "g4":
		p.fourLevelGray = variant{c, true}
	case "m":
		p.mono = variant{c, true}
	}
	return nil
}

func hexDigits(s string) (uint64, bool) {
	v, err := strconv.ParseUint(s, 16, 16)
	return v, err == nil
}

// parseColorValue returns the color and the number of bits per component it
// was specified with.
func parseColorValue(value string, names x11.Table) (ARGB, int, error) {
	switch {
	case strings.EqualFold(value, "none"):
		return transparent, 8, nil
	case strings.HasPrefix(value, "#"):
		return parseHex(value)
	}
	if c, ok := names.Lookup(value); ok {
		return ARGB(c), 8, nil
	}
	return opaqueBlack, 8, nil
}

func parseHex(value string) (ARGB, int, error) {
	var rgb [3]uint8
	switch n := len(value); {
	case n >= 13:
		// #rrrrggggbbbb
		for i := range rgb {
			v, ok := hexDigits(value[1+i*4 : 5+i*4])
			if !ok {
				return 0, 0, ErrInvalidColor
			}
			rgb[i] = uint8(math.Round(float64(v) / 65535 * 255))
		}
		return packARGB(0xff, rgb[0], rgb[1], rgb[2]), 16, nil
	case n >= 7:
		// #rrggbb
		for i := range rgb {
			v, ok := hexDigits(value[1+i*2 : 3+i*2])
			if !ok {
				return 0, 0, ErrInvalidColor
			}
			rgb[i] = uint8(v)
		}
	case n >= 4:
		// #rgb
		for i := range rgb {
			v, ok := hexDigits(value[1+i : 2+i])
			if !ok {
				return 0, 0, ErrInvalidColor
			}
			rgb[i] = uint8(v<<4 | v)
		}
	default:
		return 0, 0, ErrInvalidColor
	}
	return packARGB(0xff, rgb[0], rgb[1], rgb[2]), 8, nil
}

func (p *PixelColor) resolve() {
	switch {
	case p.gray.set:
		p.effectiveGray = p.gray.c
	case p.rgb.set:
		p.effectiveGray = luma(p.rgb.c)
	case p.fourLevelGray.set:
		p.effectiveGray = p.fourLevelGray.c
	default:
		p.effectiveGray = p.mono.c
	}

	switch {
	case p.mono.set:
		p.effectiveMono = p.mono.c
	case p.fourLevelGray.set:
		p.effectiveMono = threshold(p.fourLevelGray.c)
	case p.gray.set:
		p.effectiveMono = threshold(p.gray.c)
	default:
		p.effectiveMono = luma(p.rgb.c)
	}

	switch {
	case p.rgb.set:
		p.effectiveARGB = p.rgb.c
		p.effectiveRGB = p.rgb.c
	case p.gray.set:
		p.effectiveARGB = p.gray.c
		p.effectiveRGB = alphaMask | p.gray.c
	case p.fourLevelGray.set:
		p.effectiveARGB = p.fourLevelGray.c
		p.effectiveRGB = alphaMask | p.fourLevelGray.c
	case p.mono.set:
		p.effectiveARGB = p.mono.c
		p.effectiveRGB = alphaMask | p.mono.c
	default:
		// Nothing but a symbolic name, the pixel is left transparent.
		p.effectiveARGB = transparent
		p.effectiveRGB = transparent
	}
}

// RGB returns the color for color displays and whether one was defined.
func (p *PixelColor) RGB() (ARGB, bool) { return p.rgb.c, p.rgb.set }

// Gray returns the color for grayscale displays and whether one was
// defined.
func (p *PixelColor) Gray() (ARGB, bool) { return p.gray.c, p.gray.set }

// FourLevelGray returns the color for four-level grayscale displays and
// whether one was defined.
func (p *PixelColor) FourLevelGray() (ARGB, bool) { return p.fourLevelGray.c, p.fourLevelGray.set }

// Mono returns the color for monochrome displays and whether one was
// defined.
func (p *PixelColor) Mono() (ARGB, bool) { return p.mono.c, p.mono.set }

// RGBComponentSize returns the bits per component the color display value
// was written with, 8 or 16.
func (p *PixelColor) RGBComponentSize() int { return p.rgbComponentSize }

// GrayComponentSize returns the bits per component the grayscale display
// value was written with, 8 or 16.
func (p *PixelColor) GrayComponentSize() int { return p.grayComponentSize }

// EffectiveGray returns the grayscale color, falling back to the color
// value converted to gray, then four-level grayscale, then monochrome.
func (p *PixelColor) EffectiveGray() ARGB { return p.effectiveGray }

// EffectiveMono returns the monochrome color, falling back to four-level
// grayscale then grayscale, both thresholded to white above 127, then the
// color value converted to gray.
func (p *PixelColor) EffectiveMono() ARGB { return p.effectiveMono }

// EffectiveARGB returns the color value falling back to grayscale,
// four-level grayscale then monochrome, alpha untouched.
func (p *PixelColor) EffectiveARGB() ARGB { return p.effectiveARGB }

// EffectiveRGB is like EffectiveARGB except the fallbacks are made opaque.
// A color value of none stays transparent.
func (p *PixelColor) EffectiveRGB() ARGB { return p.effectiveRGB }

// Effective returns the color to use for the display type d.
func (p *PixelColor) Effective(d DisplayType) ARGB {
	switch d {
	case Grayscale, FourLevelGrayscale:
		return p.effectiveGray
	case Monochrome:
		return p.effectiveMono
	default:
		return p.effectiveRGB
	}
}
