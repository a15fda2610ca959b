package image_test

import (
	"image/color"
	"testing"

	xpm "github.com/bodgit/xpm/image"
	"github.com/bodgit/xpm/x11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultNames(t *testing.T) x11.Table {
	names, err := x11.Default()
	require.NoError(t, err)
	return names
}

func TestParsePixelColor(t *testing.T) {
	names := defaultNames(t)

	tables := map[string]struct {
		line                        string
		rgb                         xpm.ARGB
		rgbSet                      bool
		gray, mono, argb, effRGB    xpm.ARGB
		rgbComponent, grayComponent int
	}{
		"short hex": {
			line:          "\tc #fea\",",
			rgb:           0xffffeeaa,
			rgbSet:        true,
			gray:          0xffebebeb,
			mono:          0xffebebeb,
			argb:          0xffffeeaa,
			effRGB:        0xffffeeaa,
			rgbComponent:  8,
			grayComponent: 8,
		},
		"long hex": {
			line:          " c #ffc8a030ba34\",",
			rgb:           0xffffa0b9,
			rgbSet:        true,
			gray:          0xffbfbfbf,
			mono:          0xffbfbfbf,
			argb:          0xffffa0b9,
			effRGB:        0xffffa0b9,
			rgbComponent:  16,
			grayComponent: 8,
		},
		"none": {
			line:          " c None\",",
			rgb:           0x00000000,
			rgbSet:        true,
			rgbComponent:  8,
			grayComponent: 8,
		},
		"name": {
			line:          " c red\",",
			rgb:           0xffff0000,
			rgbSet:        true,
			gray:          0xff4c4c4c,
			mono:          0xff4c4c4c,
			argb:          0xffff0000,
			effRGB:        0xffff0000,
			rgbComponent:  8,
			grayComponent: 8,
		},
		"name with spaces": {
			line:          "\tc sea green\",",
			rgb:           0xff2e8b57,
			rgbSet:        true,
			gray:          0xff6a6a6a,
			mono:          0xff6a6a6a,
			argb:          0xff2e8b57,
			effRGB:        0xff2e8b57,
			rgbComponent:  8,
			grayComponent: 8,
		},
		"unknown name": {
			line:          " c NoSuchColor",
			rgb:           0xff000000,
			rgbSet:        true,
			gray:          0xff000000,
			mono:          0xff000000,
			argb:          0xff000000,
			effRGB:        0xff000000,
			rgbComponent:  8,
			grayComponent: 8,
		},
		"color and mono": {
			line:          " c red m white s light_color\",",
			rgb:           0xffff0000,
			rgbSet:        true,
			gray:          0xff4c4c4c,
			mono:          0xffffffff,
			argb:          0xffff0000,
			effRGB:        0xffff0000,
			rgbComponent:  8,
			grayComponent: 8,
		},
		"mono only": {
			line:          " m black s dark_color\",",
			gray:          0xff000000,
			mono:          0xff000000,
			argb:          0xff000000,
			effRGB:        0xff000000,
			rgbComponent:  8,
			grayComponent: 8,
		},
		"color and gray": {
			line:          " c #ff0000 g #808080",
			rgb:           0xffff0000,
			rgbSet:        true,
			gray:          0xff808080,
			mono:          0xffffffff,
			argb:          0xffff0000,
			effRGB:        0xffff0000,
			rgbComponent:  8,
			grayComponent: 8,
		},
		"dark gray": {
			line:          " g #404040",
			gray:          0xff404040,
			mono:          0xff404040,
			argb:          0xff404040,
			effRGB:        0xff404040,
			rgbComponent:  8,
			grayComponent: 8,
		},
		"long gray": {
			line:          " g #808080808080",
			gray:          0xff808080,
			mono:          0xffffffff,
			argb:          0xff808080,
			effRGB:        0xff808080,
			rgbComponent:  8,
			grayComponent: 16,
		},
		"four level gray": {
			line:          " g4 black",
			gray:          0xff000000,
			mono:          0xff000000,
			argb:          0xff000000,
			effRGB:        0xff000000,
			rgbComponent:  8,
			grayComponent: 8,
		},
		"symbolic only": {
			line:          " s dark_color\",",
			rgbComponent:  8,
			grayComponent: 8,
		},
		"inline comment": {
			line:          " c /* ignored */ blue\", /* trailing */",
			rgb:           0xff0000ff,
			rgbSet:        true,
			gray:          0xff1d1d1d,
			mono:          0xff1d1d1d,
			argb:          0xff0000ff,
			effRGB:        0xff0000ff,
			rgbComponent:  8,
			grayComponent: 8,
		},
		"key without value": {
			line:          " c",
			rgbComponent:  8,
			grayComponent: 8,
		},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			p, err := xpm.ParsePixelColor(table.line, names)
			require.NoError(t, err)

			rgb, ok := p.RGB()
			assert.Equal(t, table.rgbSet, ok)
			assert.Equal(t, table.rgb, rgb)

			assert.Equal(t, table.gray, p.EffectiveGray())
			assert.Equal(t, table.mono, p.EffectiveMono())
			assert.Equal(t, table.argb, p.EffectiveARGB())
			assert.Equal(t, table.effRGB, p.EffectiveRGB())
			assert.Equal(t, table.rgbComponent, p.RGBComponentSize())
			assert.Equal(t, table.grayComponent, p.GrayComponentSize())
		})
	}
}

func TestParsePixelColorVariants(t *testing.T) {
	p, err := xpm.ParsePixelColor(" c blue g #808080 g4 white m black s mask", defaultNames(t))
	require.NoError(t, err)

	c, ok := p.RGB()
	assert.True(t, ok)
	assert.Equal(t, xpm.ARGB(0xff0000ff), c)

	c, ok = p.Gray()
	assert.True(t, ok)
	assert.Equal(t, xpm.ARGB(0xff808080), c)

	c, ok = p.FourLevelGray()
	assert.True(t, ok)
	assert.Equal(t, xpm.ARGB(0xffffffff), c)

	c, ok = p.Mono()
	assert.True(t, ok)
	assert.Equal(t, xpm.ARGB(0xff000000), c)

	assert.Equal(t, xpm.ARGB(0xff0000ff), p.Effective(xpm.Color))
	assert.Equal(t, xpm.ARGB(0xff808080), p.Effective(xpm.Grayscale))
	assert.Equal(t, xpm.ARGB(0xff808080), p.Effective(xpm.FourLevelGrayscale))
	assert.Equal(t, xpm.ARGB(0xff000000), p.Effective(xpm.Monochrome))
}

func TestParsePixelColorCustomNames(t *testing.T) {
	names := x11.Table{"brand": 0xff123456}

	p, err := xpm.ParsePixelColor(" c brand", names)
	require.NoError(t, err)
	c, _ := p.RGB()
	assert.Equal(t, xpm.ARGB(0xff123456), c)

	// Lookups are case-sensitive
	p, err = xpm.ParsePixelColor(" c Brand", names)
	require.NoError(t, err)
	c, _ = p.RGB()
	assert.Equal(t, xpm.ARGB(0xff000000), c)
}

func TestParsePixelColorErrors(t *testing.T) {
	tables := map[string]struct {
		line string
		err  error
	}{
		"value before key": {" red c blue", xpm.ErrInvalidDisplayType},
		"too short":        {" c #12", xpm.ErrInvalidColor},
		"not hex":          {" c #gggggg", xpm.ErrInvalidColor},
		"not long hex":     {" g #ffff0000zzzz", xpm.ErrInvalidColor},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			p, err := xpm.ParsePixelColor(table.line, nil)
			assert.Nil(t, p)
			assert.Equal(t, table.err, err)
		})
	}
}

func TestARGB(t *testing.T) {
	c := xpm.ARGB(0x80ff4020)

	assert.Equal(t, uint8(0x80), c.A())
	assert.Equal(t, uint8(0xff), c.R())
	assert.Equal(t, uint8(0x40), c.G())
	assert.Equal(t, uint8(0x20), c.B())
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0x40, B: 0x20, A: 0x80}, c.NRGBA())
}

func TestParseDisplayType(t *testing.T) {
	tables := map[string]xpm.DisplayType{
		"color":                xpm.Color,
		"c":                    xpm.Color,
		"grayscale":            xpm.Grayscale,
		"gray":                 xpm.Grayscale,
		"g":                    xpm.Grayscale,
		"four-level-grayscale": xpm.FourLevelGrayscale,
		"g4":                   xpm.FourLevelGrayscale,
		"monochrome":           xpm.Monochrome,
		"mono":                 xpm.Monochrome,
		"m":                    xpm.Monochrome,
	}

	for s, want := range tables {
		d, err := xpm.ParseDisplayType(s)
		assert.NoError(t, err, s)
		assert.Equal(t, want, d, s)
	}

	_, err := xpm.ParseDisplayType("sepia")
	assert.Error(t, err)

	assert.Equal(t, "four-level-grayscale", xpm.FourLevelGrayscale.String())
	assert.Equal(t, "DisplayType(7)", xpm.DisplayType(7).String())
}
