package convert_test

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/bodgit/xpm/convert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func checkerboard(w, h int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				m.SetNRGBA(x, y, color.NRGBA{R: 0xff, A: 0xff})
			} else {
				m.SetNRGBA(x, y, color.NRGBA{B: 0xff, A: 0xff})
			}
		}
	}
	return m
}

// gradient has more colors than fit in a GIF palette.
func gradient() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			m.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 0x80, A: 0xff})
		}
	}
	return m
}

func TestFormatFromPath(t *testing.T) {
	tables := map[string]convert.Format{
		"out.png":      convert.PNG,
		"out.GIF":      convert.GIF,
		"dir/out.bmp":  convert.BMP,
		"out.tif":      convert.TIFF,
		"out.xpm.tiff": convert.TIFF,
	}

	for path, want := range tables {
		f, err := convert.FormatFromPath(path)
		assert.NoError(t, err, path)
		assert.Equal(t, want, f, path)
	}

	_, err := convert.FormatFromPath("out.jpg")
	assert.Equal(t, convert.ErrUnknownFormat, err)

	assert.Equal(t, "tiff", convert.TIFF.String())
}

func TestEncode(t *testing.T) {
	m := checkerboard(8, 4)

	tables := map[convert.Format]func(*bytes.Buffer) (image.Image, error){
		convert.PNG:  func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) },
		convert.BMP:  func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) },
		convert.TIFF: func(b *bytes.Buffer) (image.Image, error) { return tiff.Decode(b) },
	}

	for f, decode := range tables {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, convert.Encode(&buf, m, f))

			got, err := decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, m.Bounds(), got.Bounds())

			for _, p := range []image.Point{{0, 0}, {1, 0}, {7, 3}} {
				r1, g1, b1, a1 := m.At(p.X, p.Y).RGBA()
				r2, g2, b2, a2 := got.At(p.X, p.Y).RGBA()
				assert.Equal(t, []uint32{r1, g1, b1, a1}, []uint32{r2, g2, b2, a2}, "%v", p)
			}
		})
	}

	assert.Equal(t, convert.ErrUnknownFormat, convert.Encode(&bytes.Buffer{}, m, convert.Format(42)))
}

func TestEncodeGIF(t *testing.T) {
	tables := map[string]struct {
		m    image.Image
		a, b image.Point
	}{
		"checkerboard": {checkerboard(8, 4), image.Pt(0, 0), image.Pt(1, 0)},
		// Neighbouring gradient pixels may share a palette entry
		"gradient": {gradient(), image.Pt(0, 0), image.Pt(63, 63)},
	}

	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, convert.Encode(&buf, table.m, convert.GIF))

			got, err := gif.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, table.m.Bounds(), got.Bounds())
			assert.NotEqual(t, got.At(table.a.X, table.a.Y), got.At(table.b.X, table.b.Y))
		})
	}
}

func TestPaletted(t *testing.T) {
	palette := color.Palette{color.Gray{Y: 0}, color.Gray{Y: 0xff}}
	src := image.NewPaletted(image.Rect(0, 0, 2, 2), palette)
	assert.True(t, src == convert.Paletted(src))

	pm := convert.Paletted(checkerboard(4, 4))
	assert.NotEmpty(t, pm.Palette)
	assert.LessOrEqual(t, len(pm.Palette), 256)

	pm = convert.Paletted(gradient())
	assert.Equal(t, image.Rect(0, 0, 64, 64), pm.Bounds())
	assert.LessOrEqual(t, len(pm.Palette), 256)
}

func TestThumbnail(t *testing.T) {
	m := checkerboard(8, 4)
	assert.Equal(t, image.Image(m), convert.Thumbnail(m, 16))

	th := convert.Thumbnail(gradient(), 16)
	assert.Equal(t, image.Rect(0, 0, 16, 16), th.Bounds())

	th = convert.Thumbnail(checkerboard(100, 10), 20)
	assert.Equal(t, image.Rect(0, 0, 20, 2), th.Bounds())

	th = convert.Thumbnail(checkerboard(1, 100), 10)
	assert.Equal(t, image.Rect(0, 0, 1, 10), th.Bounds())
}
