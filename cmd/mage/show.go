package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/LukiDS/mage/config"
	"github.com/LukiDS/mage/imgconv"
	"github.com/LukiDS/mage/pixel"
	"github.com/pkg/errors"
)

func runShow(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	width := fs.Int("width", cfg.Preview.MaxWidth, "widest preview in pixels")
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
	logf("decoded %s image %dx%d", format, m.Bounds().Dx(), m.Bounds().Dy())

	w := bufio.NewWriter(os.Stdout)
	if err := preview(w, m, *width); err != nil {
		return err
	}
	return w.Flush()
}

// preview prints m as rows of two-space blocks with a 24-bit background
// colour, scaled down to at most maxWidth pixels across. Transparent pixels
// are blended over black.
func preview(w io.Writer, m image.Image, maxWidth int) error {
	b := imgconv.ToBuffer(m)
	if b.Width() == 0 || b.Height() == 0 {
		return nil
	}

	step := 1
	if maxWidth > 0 && b.Width() > maxWidth {
		step = (b.Width() + maxWidth - 1) / maxWidth
	}

	for y := 0; y < b.Height(); y += step {
		for x := 0; x < b.Width(); x += step {
			if _, err := io.WriteString(w, coloredBlock("  ", b.Read(x, y))); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}

func coloredBlock(block string, p pixel.RGBA) string {
	r := int(p.R) * int(p.A) / 255
	g := int(p.G) * int(p.A) / 255
	b := int(p.B) * int(p.A) / 255
	return fmt.Sprintf("\033[48;2;%d;%d;%dm%s\033[0m", r, g, b, block)
}
