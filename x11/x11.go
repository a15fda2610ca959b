/*
Package x11 implements the X11 color name database as distributed in the
X.org rgb.txt file.

Each line of the file holds a red, green and blue value in the range 0-255
followed by a free-text color name which may contain spaces, for example:

	46 139  87		sea green

The names are mapped to packed 8-bit per channel ARGB values which are
always fully opaque.
*/
package x11

import (
	"bufio"
	"bytes"
	_ "embed" // rgb.txt
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

//go:embed rgb.txt
var rgbTxt []byte

var linePattern = regexp.MustCompile(`^\s*(\d+)\s+(\d+)\s+(\d+)\s+(.+)$`)

// Table maps color names to packed ARGB values.
type Table map[string]uint32

// Lookup returns the packed ARGB value for the named color. The match is
// case-sensitive.
func (t Table) Lookup(name string) (uint32, bool) {
	c, ok := t[name]
	return c, ok
}

func channel(s string) (uint32, bool) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v) & 0xff, true
}

// Parse reads an rgb.txt formatted color database from r. Lines that are
// not color definitions are ignored. If reading fails an empty table is
// returned along with the error.
func Parse(r io.Reader) (Table, error) {
	t := make(Table)
	s := bufio.NewScanner(r)
	for s.Scan() {
		m := linePattern.FindStringSubmatch(s.Text())
		if m == nil {
			continue
		}
		red, ok1 := channel(m[1])
		green, ok2 := channel(m[2])
		blue, ok3 := channel(m[3])
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		t[strings.TrimSpace(m[4])] = 0xff000000 | red<<16 | green<<8 | blue
	}
	if err := s.Err(); err != nil {
		return make(Table), err
	}
	return t, nil
}

var (
	once         sync.Once
	defaultTable Table
	defaultErr   error
)

// Default returns the table built from the embedded rgb.txt. It is parsed
// on first use and shared read-only by every caller afterwards. Should that
// fail, every caller gets an empty table and the same error.
func Default() (Table, error) {
	once.Do(func() {
		defaultTable, defaultErr = Parse(bytes.NewReader(rgbTxt))
	})
	return defaultTable, defaultErr
}
