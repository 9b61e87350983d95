// Command mage shows, inspects, converts and generates images.
//
//	mage [-config mage.yml] [-v] show <input>
//	mage [-config mage.yml] [-v] info [-yaml] <input.bmp>
//	mage [-config mage.yml] [-v] convert -o <output> <input>
//	mage [-config mage.yml] [-v] generate [-pattern name] [-o output]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/LukiDS/mage/config"
)

var verbose bool

type command struct {
	name  string
	usage string
	run   func(cfg config.Config, args []string) error
}

var commands = []command{
	{name: "show", usage: "show <input>", run: runShow},
	{name: "info", usage: "info [-yaml] <input.bmp>", run: runInfo},
	{name: "convert", usage: "convert -o <output> <input>", run: runConvert},
	{name: "generate", usage: "generate [-pattern name] [-o output]", run: runGenerate},
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: mage [flags] <command> [arguments]\n\ncommands:\n")
	for _, c := range commands {
		fmt.Fprintf(flag.CommandLine.Output(), "  %s\n", c.usage)
	}
	fmt.Fprintf(flag.CommandLine.Output(), "\nflags:\n")
	flag.PrintDefaults()
}

func logf(format string, args ...interface{}) {
	if verbose {
		log.Printf(format, args...)
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("mage: ")

	configPath := flag.String("config", "mage.yml", "YAML configuration file")
	flag.BoolVar(&verbose, "v", false, "log progress")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	logf("loaded configuration from %s", *configPath)

	name, args := flag.Arg(0), flag.Args()[1:]
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(cfg, args); err != nil {
			log.Fatalf("%s: %v", name, err)
		}
		return
	}

	fmt.Fprintf(flag.CommandLine.Output(), "mage: unknown command %q\n", name)
	usage()
	os.Exit(2)
}
