package main

import (
	"fmt"
	goimage "image"
	"strconv"
	"strings"

	"github.com/bodgit/xpm/image"
	"github.com/urfave/cli/v2"
)

func parseInts(s string, n ...int) ([]int, error) {
	fields := strings.Split(s, ",")

	ok := false
	for _, i := range n {
		if len(fields) == i {
			ok = true
		}
	}
	if !ok {
		return nil, fmt.Errorf("wrong number of values in %q", s)
	}

	v := make([]int, len(fields))
	for i, f := range fields {
		x, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid value in %q: %w", s, err)
		}
		v[i] = x
	}
	return v, nil
}

// parseRegion parses "x,y,width,height".
func parseRegion(s string) (goimage.Rectangle, error) {
	v, err := parseInts(s, 4)
	if err != nil {
		return goimage.Rectangle{}, err
	}
	if v[2] < 1 || v[3] < 1 {
		return goimage.Rectangle{}, fmt.Errorf("empty region %q", s)
	}
	return goimage.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

// parsePoint parses "x,y".
func parsePoint(s string) (goimage.Point, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return goimage.Point{}, err
	}
	return goimage.Pt(v[0], v[1]), nil
}

// parseSubsample parses "n" or "x,y".
func parseSubsample(s string) (int, int, error) {
	v, err := parseInts(s, 1, 2)
	if err != nil {
		return 0, 0, err
	}
	if len(v) == 1 {
		v = append(v, v[0])
	}
	if v[0] < 1 || v[1] < 1 {
		return 0, 0, fmt.Errorf("subsampling must be at least 1 in %q", s)
	}
	return v[0], v[1], nil
}

func decodeOptions(c *cli.Context) (*image.Options, error) {
	o := new(image.Options)

	d, err := image.ParseDisplayType(c.String("display-type"))
	if err != nil {
		return nil, err
	}
	o.DisplayType = d

	l, ok := image.ParseLayout(c.String("layout"))
	if !ok {
		return nil, fmt.Errorf("unknown layout %q", c.String("layout"))
	}
	o.Layout = l

	if c.IsSet("region") {
		if o.Region, err = parseRegion(c.String("region")); err != nil {
			return nil, err
		}
	}

	if c.IsSet("offset") {
		if o.Offset, err = parsePoint(c.String("offset")); err != nil {
			return nil, err
		}
	}

	if c.IsSet("subsample") {
		if o.SubsampleX, o.SubsampleY, err = parseSubsample(c.String("subsample")); err != nil {
			return nil, err
		}
	}

	return o, nil
}
