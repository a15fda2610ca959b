package image

import (
	"bufio"
	"image/draw"
	"io"
	"io/ioutil"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/bodgit/xpm/x11"
)

var (
	valuesPattern = regexp.MustCompile(`"\s*(\d+)\s+(\d+)\s+(\d+)\s+(\d+)`)
	colorPattern  = regexp.MustCompile(`(?:^|\s)(?:m|s|g|g4|c)\s`)
)

// Header is the values line of an XPM image.
type Header struct {
	Width, Height int
	// NumColors is the number of lines in the color table.
	NumColors int
	// CharsPerPixel is the length of each pixel identifier.
	CharsPerPixel int
}

// ColorTable maps pixel identifiers to their colors.
type ColorTable map[string]*PixelColor

// BitsPerSample returns the largest number of bits per component any color
// or grayscale value in the table was written with, or 1 for an empty
// table.
func (t ColorTable) BitsPerSample() int {
	bps := 1
	for _, p := range t {
		if p.rgbComponentSize > bps {
			bps = p.rgbComponentSize
		}
		if p.grayComponentSize > bps {
			bps = p.grayComponentSize
		}
	}
	return bps
}

// Metadata describes a decoded image.
type Metadata struct {
	Width, Height int
	BitsPerSample int
}

type state int

const (
	seekingHeader state = iota
	headerParsed
	colorTableComplete
	streamingRows
	done
)

// Decoder is a decoding session over one XPM input. The input is read
// strictly forward, once; the header and color table are parsed on first
// use and cached.
type Decoder struct {
	r      *bufio.Reader
	names  x11.Table
	logger *log.Logger

	state     state
	inComment bool
	header    Header
	table     ColorTable
}

// NewDecoder returns a Decoder reading from r. Named colors are looked up
// in names; if nil the built-in X11 color names are used. A nil logger
// discards log output.
func NewDecoder(r io.Reader, names x11.Table, logger *log.Logger) *Decoder {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	if names == nil {
		names = defaultNames(logger)
	}
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Decoder{
		r:      br,
		names:  names,
		logger: logger,
	}
}

// readLine returns the next line without its line ending. io.EOF is only
// returned once no more data is available.
func (d *Decoder) readLine() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil {
		if err != io.EOF || line == "" {
			return "", err
		}
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// Header returns the values line, reading up to it if necessary.
func (d *Decoder) Header() (Header, error) {
	if d.state != seekingHeader {
		return d.header, nil
	}

	for {
		line, err := d.readLine()
		if err != nil {
			if err == io.EOF {
				return Header{}, ErrNoValues
			}
			return Header{}, err
		}
		line = strings.TrimSpace(line)
		if line == "" || d.comment(line) {
			continue
		}
		if m := valuesPattern.FindStringSubmatch(line); m != nil {
			h, err := parseValues(m[1:])
			if err != nil {
				return Header{}, err
			}
			d.trailingComment(line)
			d.header = h
			d.state = headerParsed
			return h, nil
		}
	}
}

func parseValues(groups []string) (Header, error) {
	var v [4]int
	for i, g := range groups {
		n, err := strconv.Atoi(g)
		if err != nil {
			return Header{}, ErrInvalidValues
		}
		v[i] = n
	}
	if v[3] < 1 {
		return Header{}, ErrInvalidValues
	}
	if v[0] > MaxPixels || v[1] > MaxPixels || uint64(v[0])*uint64(v[1]) > MaxPixels {
		return Header{}, ErrTooLarge
	}
	return Header{
		Width:         v[0],
		Height:        v[1],
		NumColors:     v[2],
		CharsPerPixel: v[3],
	}, nil
}

// ColorTable returns the color table, reading the header and color lines
// if necessary.
func (d *Decoder) ColorTable() (ColorTable, error) {
	h, err := d.Header()
	if err != nil {
		return nil, err
	}
	if d.state != headerParsed {
		return d.table, nil
	}

	d.table = make(ColorTable, min(h.NumColors, 1024))
	for n := 0; n < h.NumColors; {
		line, err := d.readLine()
		if err != nil {
			if err == io.EOF {
				d.logger.Printf("Color table ended after %d of %d colors\n", n, h.NumColors)
				break
			}
			return nil, err
		}

		id, rest, ok := d.colorLine(strings.TrimSpace(line), h.CharsPerPixel)
		if !ok {
			continue
		}
		p, err := ParsePixelColor(rest, d.names)
		if err != nil {
			return nil, err
		}
		d.table[id] = p
		n++
	}

	d.state = colorTableComplete
	return d.table, nil
}

// comment reports whether line is a comment or part of one, keeping track
// of block comments spanning lines.
func (d *Decoder) comment(line string) bool {
	if d.inComment {
		if strings.Contains(line, "*/") {
			d.inComment = false
		}
		return true
	}
	if strings.HasPrefix(line, "//") {
		return true
	}
	if strings.HasPrefix(line, "/*") {
		d.inComment = !strings.Contains(line[2:], "*/")
		return true
	}
	return false
}

// trailingComment notes a block comment opened after the content of a line
// and not closed on it.
func (d *Decoder) trailingComment(rest string) {
	if i := strings.LastIndex(rest, "/*"); i >= 0 && !strings.Contains(rest[i:], "*/") {
		d.inComment = true
	}
}

// colorLine splits a color line into the pixel identifier and the color
// definitions.
func (d *Decoder) colorLine(line string, cpp int) (string, string, bool) {
	if d.comment(line) {
		return "", "", false
	}
	if !strings.HasPrefix(line, `"`) || len(line) < 1+cpp {
		return "", "", false
	}

	id, rest := line[1:1+cpp], line[1+cpp:]
	if !colorPattern.MatchString(rest + " ") {
		return "", "", false
	}
	d.trailingComment(rest)

	return id, rest, true
}

// Metadata returns the image dimensions and bits per sample.
func (d *Decoder) Metadata() (Metadata, error) {
	t, err := d.ColorTable()
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{
		Width:         d.header.Width,
		Height:        d.header.Height,
		BitsPerSample: t.BitsPerSample(),
	}, nil
}

// nextRow returns the pixel identifiers of the next row, skipping comments.
// It returns false at the end of the pixel data.
func (d *Decoder) nextRow() (string, bool, error) {
	for {
		line, err := d.readLine()
		if err != nil {
			if err == io.EOF {
				return "", false, nil
			}
			return "", false, err
		}
		if d.comment(strings.TrimSpace(line)) {
			continue
		}
		i := strings.IndexByte(line, '"')
		if i < 0 {
			return "", false, nil
		}
		line = line[i+1:]
		if j := strings.IndexByte(line, '"'); j >= 0 {
			d.trailingComment(line[j+1:])
			line = line[:j]
		}
		return line, true, nil
	}
}

// DecodeInto decodes the pixel data into s. A nil o is the same as the zero
// Options. The pixel data can only be decoded once per Decoder.
func (d *Decoder) DecodeInto(s Sink, o *Options) error {
	if o == nil {
		o = &Options{}
	}
	if err := o.validate(); err != nil {
		return err
	}

	t, err := d.ColorTable()
	if err != nil {
		return err
	}
	if d.state != colorTableComplete {
		return ErrRowsConsumed
	}
	d.state = streamingRows
	defer func() { d.state = done }()

	r := newRasterizer(d.header, t, o, s, d.logger)

rows:
	for y := 0; y < d.header.Height; y += r.sy {
		row, ok, err := d.nextRow()
		if err != nil {
			return err
		}
		if !ok {
			d.logger.Printf("Pixel data ended before row %d of %d\n", y, d.header.Height)
			break
		}
		r.row(y, row)

		if y+r.sy >= d.header.Height || y+r.sy >= r.region.Max.Y {
			break
		}
		// Skip the rows dropped by subsampling
		for i := 1; i < r.sy; i++ {
			if _, ok, err := d.nextRow(); err != nil {
				return err
			} else if !ok {
				d.logger.Printf("Pixel data ended before row %d of %d\n", y+i, d.header.Height)
				break rows
			}
		}
	}

	return nil
}

// Decode decodes the pixel data into a new image with the layout, size and
// placement given by o. A nil o is the same as the zero Options.
func (d *Decoder) Decode(o *Options) (draw.Image, error) {
	if o == nil {
		o = &Options{}
	}
	h, err := d.Header()
	if err != nil {
		return nil, err
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	b := o.Bounds(h)
	if uint64(b.Dx())*uint64(b.Dy()) > MaxPixels {
		return nil, ErrInvalidOptions
	}
	m := o.Layout.NewImage(b)
	if err := d.DecodeInto(o.Layout.Sink(m), o); err != nil {
		return nil, err
	}
	return m, nil
}
