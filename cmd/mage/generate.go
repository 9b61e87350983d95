package main

import (
	"flag"

	"github.com/LukiDS/mage/config"
	"github.com/LukiDS/mage/pattern"
	"github.com/pkg/errors"
)

func runGenerate(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	name := fs.String("pattern", config.DefaultPattern, "pattern from the configuration file")
	output := fs.String("o", cfg.Output, "output file; its extension selects the format")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return errors.Errorf("unexpected arguments %v", fs.Args())
	}

	p, ok := cfg.Patterns[*name]
	if !ok {
		return errors.Errorf("unknown pattern '%s', have %v", *name, cfg.PatternNames())
	}

	prog, err := pattern.Compile(p)
	if err != nil {
		return errors.Wrapf(err, "pattern '%s'", *name)
	}

	m, err := prog.Render()
	if err != nil {
		return errors.Wrapf(err, "pattern '%s'", *name)
	}
	logf("rendered pattern %s at %dx%d", *name, m.Width(), m.Height())

	if err := writeImage(*output, m); err != nil {
		return err
	}
	logf("wrote %s", *output)

	return nil
}
