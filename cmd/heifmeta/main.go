// Command heifmeta prints the metadata of HEIF files.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"github.com/jdeng/heifmeta"
	"github.com/jdeng/heifmeta/heif"
)

func main() {
	var (
		verbose    bool
		makerNotes bool
		rawExif    string
	)
	flag.BoolVar(&verbose, "v", false, "Log every box visited")
	flag.BoolVar(&makerNotes, "makernotes", false, "Decode Canon and Nikon maker notes")
	flag.StringVar(&rawExif, "raw-exif", "", "Write the TIFF stream of the Exif item to this file (single input only)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] file...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if rawExif != "" && flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "error: -raw-exif needs exactly one input file\n")
		os.Exit(2)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	if verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowWarn())
	}

	if makerNotes {
		exif.RegisterParsers(mknote.All...)
	}

	status := 0
	for _, path := range flag.Args() {
		if err := printFile(os.Stdout, path, rawExif, logger); err != nil {
			level.Error(logger).Log("msg", "failed to read file", "path", path, "err", err)
			status = 1
		}
	}
	os.Exit(status)
}

func printFile(w io.Writer, path, rawExif string, logger log.Logger) error {
	res, err := heifmeta.ReadFile(path, heif.WithLogger(log.With(logger, "path", path)))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n", path)
	for _, d := range res.Metadata.Directories() {
		for _, tag := range d.Tags() {
			fmt.Fprintf(w, "[%s] %s - %s\n", d.Name(), d.TagName(tag), d.Description(tag))
		}
		for _, msg := range d.Errors() {
			fmt.Fprintf(w, "[%s] ERROR: %s\n", d.Name(), msg)
		}
	}
	for _, err := range res.Errors() {
		fmt.Fprintf(w, "ERROR: %v\n", err)
	}

	if rawExif != "" {
		if res.Exif == nil {
			return heifmeta.ErrNoEXIF
		}
		if err := os.WriteFile(rawExif, res.Exif, 0o644); err != nil {
			return err
		}
	}
	return nil
}
