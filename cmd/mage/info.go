package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/LukiDS/mage/bmp"
	"github.com/LukiDS/mage/config"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

func runInfo(_ config.Config, args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	asYAML := fs.Bool("yaml", false, "print the header as YAML")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("expected one input file")
	}

	data, err := ioutil.ReadFile(fs.Arg(0))
	if err != nil {
		return errors.Wrapf(err, "unable to read %s", fs.Arg(0))
	}

	h, err := bmp.ParseHeader(data)
	if err != nil {
		return err
	}

	if *asYAML {
		return printHeaderYAML(os.Stdout, h)
	}
	return printHeader(os.Stdout, h)
}

func printHeaderYAML(w io.Writer, h bmp.Header) error {
	out, err := yaml.Marshal(h)
	if err != nil {
		return errors.Wrap(err, "unable to marshal header")
	}
	_, err = w.Write(out)
	return err
}

func printHeader(w io.Writer, h bmp.Header) error {
	m := h.Format.Masks()
	_, err := fmt.Fprintf(w,
		"File size:\t%d bytes\n"+
			"Pixel offset:\t%d bytes\n"+
			"Header size:\t%d bytes\n"+
			"Width:\t\t%d px\n"+
			"Height:\t\t%d px\n"+
			"Bit count:\t%d bits\n"+
			"Compression:\t%s\n"+
			"Image bytes:\t%d bytes\n"+
			"Resolution:\t%dx%d px/m\n"+
			"Colors used:\t%d (%d important)\n"+
			"Format:\t\t%s (%08x %08x %08x %08x)\n",
		h.File.Size, h.File.Offset, h.Image.Size, h.Image.Width, h.Image.Height,
		h.Image.BitCount, h.Image.Compression, h.Image.ImageBytes,
		h.Image.XPixelsPerMeter, h.Image.YPixelsPerMeter,
		h.Image.ColorUsed, h.Image.ColorImportant,
		h.Format, m.R, m.G, m.B, m.A)
	return err
}
