package main

import (
	"flag"

	"github.com/LukiDS/mage/config"
	"github.com/pkg/errors"
)

func runConvert(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	output := fs.String("o", cfg.Output, "output file; its extension selects the format")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected one input file")
	}

	m, format, err := readImage(fs.Arg(0))
	if err != nil {
		return err
	}
	logf("decoded %s image %dx%d from %s", format, m.Bounds().Dx(), m.Bounds().Dy(), fs.Arg(0))

	if err := writeImage(*output, m); err != nil {
		return err
	}
	logf("wrote %s", *output)

	return nil
}
