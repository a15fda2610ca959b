package main

import (
	"bytes"
	"fmt"
	goimage "image"
	_ "image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/xpm"
	"github.com/bodgit/xpm/convert"
	"github.com/bodgit/xpm/image"
	"github.com/urfave/cli/v2"
)

const defaultDB = "xpm.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c)

	for _, file := range c.Args().Slice() {
		f, err := os.Open(file)
		if err != nil {
			return cli.NewExitError(err, 1)
		}

		d := image.NewDecoder(f, nil, logger)
		h, err := d.Header()
		if err != nil {
			f.Close()
			return cli.NewExitError(fmt.Errorf("%s: %w", file, err), 1)
		}
		md, err := d.Metadata()
		f.Close()
		if err != nil {
			return cli.NewExitError(fmt.Errorf("%s: %w", file, err), 1)
		}

		fmt.Fprintf(c.App.Writer, "%s: %dx%d, %d colors, %d chars per pixel, %d bits per sample\n", file, h.Width, h.Height, h.NumColors, h.CharsPerPixel, md.BitsPerSample)
	}

	return nil
}

func writeImage(file string, m goimage.Image) error {
	format, err := convert.FormatFromPath(file)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := convert.Encode(f, m, format); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", file, err)
	}

	return f.Close()
}

func convertImage(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	o, err := decodeOptions(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	file := c.Args().Get(0)
	f, err := os.Open(file)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	m, err := image.NewDecoder(f, nil, newLogger(c)).Decode(o)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("%s: %w", file, err), 1)
	}

	if err := writeImage(c.Args().Get(1), m); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func scan(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	x, err := xpm.New(c.String("db"), newLogger(c))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer x.Close()

	if err := x.Scan(c.Args().First()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func list(c *cli.Context) error {
	x, err := xpm.New(c.String("db"), newLogger(c))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer x.Close()

	entries, err := x.Entries()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, e := range entries {
		fmt.Fprintf(c.App.Writer, "%s %4dx%-4d %4d %d %2d %s\n", e.SHA1, e.Width, e.Height, e.Colors, e.CharsPerPixel, e.BitsPerSample, e.Path)
	}

	return nil
}

func preview(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	x, err := xpm.New(c.String("db"), newLogger(c))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer x.Close()

	b, err := x.Preview(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	// Previews are stored as PNG
	m, _, err := goimage.Decode(bytes.NewReader(b))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if err := writeImage(c.Args().Get(1), m); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func newApp(cwd string) *cli.App {
	app := cli.NewApp()

	app.Name = "xpm"
	app.Usage = "XPM image conversion and cataloguing utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"XPM_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "info",
			Usage:       "Print the dimensions and colors of XPM images",
			Description: "",
			ArgsUsage:   "FILE...",
			Action:      info,
		},
		{
			Name:        "convert",
			Usage:       "Convert an XPM image to PNG, GIF, BMP or TIFF",
			Description: "The output format is chosen by the extension of OUTPUT.",
			ArgsUsage:   "FILE OUTPUT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "display-type",
					Value: image.Color.String(),
					Usage: "colors to use; color, grayscale, four-level-grayscale or monochrome",
				},
				&cli.StringFlag{
					Name:  "region",
					Usage: "only decode the region `X,Y,WIDTH,HEIGHT`",
				},
				&cli.StringFlag{
					Name:  "offset",
					Usage: "place the decoded region at `X,Y` in the output",
				},
				&cli.StringFlag{
					Name:  "subsample",
					Usage: "only decode every `N` or `X,Y` columns and rows",
				},
				&cli.StringFlag{
					Name:  "layout",
					Value: "argb",
					Usage: "pixel layout; argb, rgb, gray or binary",
				},
			},
			Action: convertImage,
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and catalog XPM images",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action:      scan,
		},
		{
			Name:        "list",
			Usage:       "List catalogued images",
			Description: "",
			Action:      list,
		},
		{
			Name:        "preview",
			Usage:       "Write the preview of a catalogued image",
			Description: "",
			ArgsUsage:   "SHA1 OUTPUT",
			Action:      preview,
		},
	}

	return app
}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	if err := newApp(cwd).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
