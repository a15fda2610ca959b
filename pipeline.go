package xpm

import (
	"bytes"
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/xpm/convert"
	"github.com/bodgit/xpm/image"
)

const (
	numWorkers  = 10
	previewSize = 64
	// Ignore any file greater than 16 MB
	maxFileSize = 16 << (10 * 2)
)

func (c *Catalog) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() || info.Size() > maxFileSize {
				return nil
			}

			if !strings.EqualFold(filepath.Ext(file), ".xpm") {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

// decode reads file, returning its catalog entry. The SHA-1 covers the
// whole file, not just the part the decoder needed.
func (c *Catalog) decode(file string) (*Entry, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha1.New()
	r := io.TeeReader(f, h)

	d := image.NewDecoder(r, c.names, c.logger)
	header, err := d.Header()
	if err != nil {
		return nil, err
	}

	m, err := d.Decode(nil)
	if err != nil {
		return nil, err
	}
	md, err := d.Metadata()
	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(ioutil.Discard, r); err != nil {
		return nil, err
	}

	b := new(bytes.Buffer)
	if !m.Bounds().Empty() {
		if err := convert.Encode(b, convert.Thumbnail(m, previewSize), convert.PNG); err != nil {
			return nil, err
		}
	}

	return &Entry{
		Path:          file,
		SHA1:          fmt.Sprintf("%X", h.Sum(nil)),
		Width:         md.Width,
		Height:        md.Height,
		Colors:        header.NumColors,
		CharsPerPixel: header.CharsPerPixel,
		BitsPerSample: md.BitsPerSample,
		Preview:       b.Bytes(),
	}, nil
}

func (c *Catalog) decodeWorker(ctx context.Context, in <-chan string) (<-chan *Entry, <-chan error, error) {
	out := make(chan *Entry)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for file := range in {
			e, err := c.decode(file)
			if err != nil {
				var fe image.FormatError
				if errors.As(err, &fe) {
					c.logger.Printf("Skipping \"%s\": %v\n", file, err)
					continue
				}
				errc <- fmt.Errorf("%s: %w", file, err)
				return
			}

			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errc, nil
}

func (c *Catalog) store(in <-chan *Entry) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for e := range in {
			if _, err := c.db.AddPixmap(e); err != nil {
				errc <- err
				return
			}
			c.logger.Printf("Added \"%s\", with SHA1 \"%s\"\n", e.Path, e.SHA1)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func mergeEntries(ctx context.Context, cs ...<-chan *Entry) <-chan *Entry {
	var wg sync.WaitGroup
	out := make(chan *Entry)
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan *Entry) {
			defer wg.Done()
			for e := range c {
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path adding every XPM image found to the catalog. Files that
// aren't valid XPM images are logged and skipped.
func (c *Catalog) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := c.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	var entries []<-chan *Entry
	for i := 0; i < numWorkers; i++ {
		out, errc, err := c.decodeWorker(ctx, files)
		if err != nil {
			return err
		}
		entries = append(entries, out)
		errcList = append(errcList, errc)
	}

	errc, err = c.store(mergeEntries(ctx, entries...))
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	return waitForPipeline(errcList...)
}
