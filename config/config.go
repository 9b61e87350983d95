// Package config loads the YAML configuration of the mage command.
package config

import (
	"io/ioutil"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	DefaultOutput       = "out.bmp"
	DefaultPattern      = "gradient"
	DefaultPreviewWidth = 80
)

type Config struct {
	// Output is the file convert and generate write when -o is not given.
	Output   string             `yaml:"output"`
	Preview  Preview            `yaml:"preview"`
	Patterns map[string]Pattern `yaml:"patterns"`
}

type Preview struct {
	// MaxWidth is the widest terminal preview in pixels; larger images are
	// scaled down.
	MaxWidth int `yaml:"max_width"`
}

// Pattern describes a synthetic image. Each channel is an expression over
// x, y, width and height whose result is clamped to 0..255.
type Pattern struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Red    string `yaml:"red"`
	Green  string `yaml:"green"`
	Blue   string `yaml:"blue"`
	Alpha  string `yaml:"alpha"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Output:  DefaultOutput,
		Preview: Preview{MaxWidth: DefaultPreviewWidth},
		Patterns: map[string]Pattern{
			DefaultPattern: {
				Width:  255,
				Height: 200,
				Red:    "255",
				Green:  "x",
				Blue:   "y",
				Alpha:  "255",
			},
		},
	}
}

// Load reads the configuration at path. A missing file is not an error and
// yields Default. Settings the file leaves out keep their default values.
func Load(path string) (Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrapf(err, "failed to read configuration file '%s'", path)
	}

	return Parse(data)
}

// Parse decodes YAML configuration data and fills in defaults.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse configuration")
	}

	def := Default()
	if c.Output == "" {
		c.Output = def.Output
	}
	if c.Preview.MaxWidth == 0 {
		c.Preview.MaxWidth = def.Preview.MaxWidth
	}
	if c.Patterns == nil {
		c.Patterns = map[string]Pattern{}
	}
	for name, p := range def.Patterns {
		if _, ok := c.Patterns[name]; !ok {
			c.Patterns[name] = p
		}
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks the settings that do not need expression parsing.
func (c Config) Validate() error {
	if c.Preview.MaxWidth < 0 {
		return errors.Errorf("preview.max_width must not be negative, got %d", c.Preview.MaxWidth)
	}

	for _, name := range c.PatternNames() {
		p := c.Patterns[name]
		if p.Width <= 0 || p.Height <= 0 {
			return errors.Errorf("pattern '%s': size %dx%d is not positive", name, p.Width, p.Height)
		}

		for channel, expr := range p.Expressions() {
			if strings.TrimSpace(expr) == "" {
				return errors.Errorf("pattern '%s': %s expression is empty", name, channel)
			}
		}
	}

	return nil
}

// PatternNames returns the configured pattern names in sorted order.
func (c Config) PatternNames() []string {
	names := make([]string, 0, len(c.Patterns))
	for name := range c.Patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Expressions returns the channel expressions keyed by channel name.
func (p Pattern) Expressions() map[string]string {
	return map[string]string{
		"red":   p.Red,
		"green": p.Green,
		"blue":  p.Blue,
		"alpha": p.Alpha,
	}
}
