// Package imageedit provides image filters that scripts load with dllload.
// Every filter reads the image at its first argument and writes the result
// to its second; the output format follows the destination extension.
package imageedit

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/gosuda/variant/stdlib"
	"github.com/gosuda/variant/value"
)

type filter func(image.Image) image.Image

var filters = []struct {
	name string
	fn   filter
}{
	{"sepia", sepia},
	{"grayscale", func(img image.Image) image.Image { return imaging.Grayscale(img) }},
	{"invert", func(img image.Image) image.Image { return imaging.Invert(img) }},
	{"blur", func(img image.Image) image.Image { return imaging.Blur(img, 2) }},
	{"sharpen", func(img image.Image) image.Image { return imaging.Sharpen(img, 1.5) }},
	{"fliph", func(img image.Image) image.Image { return imaging.FlipH(img) }},
	{"flipv", func(img image.Image) image.Image { return imaging.FlipV(img) }},
	{"rotate90", func(img image.Image) image.Image { return imaging.Rotate90(img) }},
}

// Plugins returns one (string, string) -> void function per filter.
func Plugins() []*stdlib.Function {
	out := make([]*stdlib.Function, 0, len(filters))
	for _, f := range filters {
		out = append(out, plugin(f.name, f.fn))
	}
	return out
}

func plugin(name string, fn filter) *stdlib.Function {
	return &stdlib.Function{
		Name:   name,
		Params: []value.Type{value.String, value.String},
		Return: value.Void,
		Call: func(_ *stdlib.Host, args []value.Value) (value.Value, error) {
			if err := Apply(args[0].String(), args[1].String(), fn); err != nil {
				return value.InvalidValue(), fmt.Errorf("%s: %w", name, err)
			}
			return value.VoidValue(), nil
		},
	}
}

// Apply runs fn over the image stored at src and saves the result to dst.
func Apply(src, dst string, fn func(image.Image) image.Image) error {
	img, err := imaging.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	if err := imaging.Save(fn(img), dst); err != nil {
		return fmt.Errorf("save %s: %w", dst, err)
	}
	return nil
}

func sepia(img image.Image) image.Image {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		return color.NRGBA{
			R: clamp(0.393*r + 0.769*g + 0.189*b),
			G: clamp(0.349*r + 0.686*g + 0.168*b),
			B: clamp(0.272*r + 0.534*g + 0.131*b),
			A: c.A,
		}
	})
}

func clamp(v float64) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
