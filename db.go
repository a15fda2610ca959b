package xpm

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is a catalogued image.
type Entry struct {
	ID            int64
	Path          string
	SHA1          string
	Width         int
	Height        int
	Colors        int
	CharsPerPixel int
	BitsPerSample int
	// Preview is a PNG thumbnail of the image.
	Preview []byte
}

// DB is the catalog database.
type DB struct {
	db *sql.DB
}

// NewDB opens the SQLite database in file, creating the schema if needed.
func NewDB(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS pixmap (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, colors INTEGER NOT NULL, chars_per_pixel INTEGER NOT NULL, bits_per_sample INTEGER NOT NULL, preview BLOB)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS pixmap_sha1 ON pixmap (sha1)"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.db.Close()
}

// AddPixmap adds e to the database, replacing any existing entry with the
// same path. The ID of the entry is returned and stored in e.
func (db *DB) AddPixmap(e *Entry) (int64, error) {
	sha := strings.ToUpper(e.SHA1)

	var id int64
	switch err := db.db.QueryRow("SELECT id FROM pixmap WHERE path = ?", e.Path).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO pixmap (path, sha1, width, height, colors, chars_per_pixel, bits_per_sample, preview) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", e.Path, sha, e.Width, e.Height, e.Colors, e.CharsPerPixel, e.BitsPerSample, e.Preview)
		if err != nil {
			return 0, err
		}
		if id, err = result.LastInsertId(); err != nil {
			return 0, err
		}
	case nil:
		if _, err := db.db.Exec("UPDATE pixmap SET sha1 = ?, width = ?, height = ?, colors = ?, chars_per_pixel = ?, bits_per_sample = ?, preview = ? WHERE id = ?", sha, e.Width, e.Height, e.Colors, e.CharsPerPixel, e.BitsPerSample, e.Preview, id); err != nil {
			return 0, err
		}
	default:
		return 0, err
	}

	e.ID = id
	return id, nil
}

// FindBySHA1 returns the first entry, ordered by path, whose file has the
// SHA-1 sha, or nil if there isn't one.
func (db *DB) FindBySHA1(sha string) (*Entry, error) {
	e := new(Entry)
	switch err := db.db.QueryRow("SELECT id, path, sha1, width, height, colors, chars_per_pixel, bits_per_sample, preview FROM pixmap WHERE sha1 = ? ORDER BY path LIMIT 1", strings.ToUpper(sha)).Scan(&e.ID, &e.Path, &e.SHA1, &e.Width, &e.Height, &e.Colors, &e.CharsPerPixel, &e.BitsPerSample, &e.Preview); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return e, nil
	default:
		return nil, err
	}
}

// Entries returns every entry ordered by path. Previews are not loaded.
func (db *DB) Entries() ([]Entry, error) {
	rows, err := db.db.Query("SELECT id, path, sha1, width, height, colors, chars_per_pixel, bits_per_sample FROM pixmap ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Path, &e.SHA1, &e.Width, &e.Height, &e.Colors, &e.CharsPerPixel, &e.BitsPerSample); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
