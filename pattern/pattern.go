// Package pattern renders synthetic images from per-channel expressions.
package pattern

import (
	"math"

	"github.com/LukiDS/mage/config"
	"github.com/LukiDS/mage/pixel"
	"github.com/knetic/govaluate"
	"github.com/pkg/errors"
)

// maxPixels matches the guard of the codecs; larger patterns could not be
// written anyway.
const maxPixels = 400_000_000

var channelNames = [4]string{"red", "green", "blue", "alpha"}

// Program is a compiled config.Pattern.
type Program struct {
	width    int
	height   int
	channels [4]*govaluate.EvaluableExpression
}

// Functions returns the functions channel expressions may call.
func Functions() map[string]govaluate.ExpressionFunction {
	return map[string]govaluate.ExpressionFunction{
		"clamp": func(args ...interface{}) (interface{}, error) {
			v, err := numbers("clamp", 1, args)
			if err != nil {
				return nil, err
			}
			return clamp(v[0]), nil
		},
		"mod": func(args ...interface{}) (interface{}, error) {
			v, err := numbers("mod", 2, args)
			if err != nil {
				return nil, err
			}
			if v[1] == 0 {
				return nil, errors.Errorf("mod: division by zero")
			}
			return math.Mod(v[0], v[1]), nil
		},
		"min": func(args ...interface{}) (interface{}, error) {
			v, err := numbers("min", 2, args)
			if err != nil {
				return nil, err
			}
			return math.Min(v[0], v[1]), nil
		},
		"max": func(args ...interface{}) (interface{}, error) {
			v, err := numbers("max", 2, args)
			if err != nil {
				return nil, err
			}
			return math.Max(v[0], v[1]), nil
		},
	}
}

// govaluate hands every numeric argument over as float64.
func numbers(name string, n int, args []interface{}) ([]float64, error) {
	if len(args) != n {
		return nil, errors.Errorf("%s expects %d arguments, got %d", name, n, len(args))
	}

	out := make([]float64, n)
	for i, arg := range args {
		v, ok := arg.(float64)
		if !ok {
			return nil, errors.Errorf("%s: argument %d must be numeric", name, i+1)
		}
		out[i] = v
	}
	return out, nil
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return v
	}
}

// Compile parses the channel expressions of p.
func Compile(p config.Pattern) (*Program, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, errors.Errorf("pattern size %dx%d is not positive", p.Width, p.Height)
	}
	if uint64(p.Width)*uint64(p.Height) > maxPixels {
		return nil, errors.Errorf("pattern size %dx%d is too large", p.Width, p.Height)
	}

	prog := &Program{
		width:  p.Width,
		height: p.Height,
	}

	exprs := [4]string{p.Red, p.Green, p.Blue, p.Alpha}
	for i, expr := range exprs {
		e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, Functions())
		if err != nil {
			return nil, errors.Wrapf(err, "%s expression %q", channelNames[i], expr)
		}
		prog.channels[i] = e
	}

	return prog, nil
}

// Render evaluates the program for every pixel.
func (p *Program) Render() (*pixel.Buffer, error) {
	m := pixel.New(p.width, p.height)
	params := map[string]interface{}{
		"width":  float64(p.width),
		"height": float64(p.height),
	}

	var values [4]uint8
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			params["x"] = float64(x)
			params["y"] = float64(y)

			for i, e := range p.channels {
				v, err := e.Evaluate(params)
				if err != nil {
					return nil, errors.Wrapf(err, "%s at (%d, %d)", channelNames[i], x, y)
				}

				f, err := toNumber(v)
				if err != nil {
					return nil, errors.Wrapf(err, "%s at (%d, %d)", channelNames[i], x, y)
				}
				values[i] = uint8(clamp(f))
			}

			m.Write(x, y, pixel.RGBA{R: values[0], G: values[1], B: values[2], A: values[3]})
		}
	}

	return m, nil
}

func toNumber(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case bool:
		if n {
			return 255, nil
		}
		return 0, nil
	default:
		return 0, errors.Errorf("expression result %v is not a number", v)
	}
}
