/*
Package xpm is a library for cataloguing XPM images.

A Catalog records the dimensions, colors and a PNG preview of every XPM
image found under a directory in a SQLite database, keyed by path and
searchable by the SHA-1 of the file.
*/
package xpm

import (
	"errors"
	"io/ioutil"
	"log"

	"github.com/bodgit/xpm/x11"
)

// ErrNotFound is returned when no catalogued image has the requested SHA-1.
var ErrNotFound = errors.New("xpm: image not found")

// Catalog maintains a database of XPM images.
type Catalog struct {
	db     *DB
	logger *log.Logger
	names  x11.Table
}

// New opens or creates the catalog database in file. A nil logger discards
// log output.
func New(file string, logger *log.Logger) (*Catalog, error) {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}

	db, err := NewDB(file)
	if err != nil {
		return nil, err
	}

	names, err := x11.Default()
	if err != nil {
		logger.Printf("Color names unavailable, named colors will be black: %v\n", err)
	}

	return &Catalog{
		db:     db,
		logger: logger,
		names:  names,
	}, nil
}

// Close closes the catalog database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Entries returns every catalogued image ordered by path, without previews.
func (c *Catalog) Entries() ([]Entry, error) {
	return c.db.Entries()
}

// Preview returns the PNG preview of the image with the given SHA-1.
func (c *Catalog) Preview(sha string) ([]byte, error) {
	e, err := c.db.FindBySHA1(sha)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e.Preview, nil
}
