package theme

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// HSL is a color in hue/saturation/lightness space, with hue in whole
// degrees and saturation/lightness in whole percent.
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// String renders the color in CSS hsl() form.
func (c HSL) String() string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", c.H, c.S, c.L)
}

// Palette is the derived theme for one company accent color. Chrome and
// Background share the accent's hue and saturation and are darkened by
// fixed lightness offsets, background the darker of the two.
type Palette struct {
	Accent     HSL `json:"accent"`
	Chrome     HSL `json:"chrome"`
	Background HSL `json:"background"`
}

// Fixed lightness reductions off the accent.
const (
	chromeOffset     = 10
	backgroundOffset = 15
)

// Derive computes the palette for a 6-digit hex accent color. The
// derivation is pure: the same input always yields the same palette.
func Derive(hex string) (Palette, error) {
	base, err := HexToHSL(hex)
	if err != nil {
		return Palette{}, err
	}
	return Palette{
		Accent:     base,
		Chrome:     HSL{H: base.H, S: base.S, L: clamp(base.L - chromeOffset)},
		Background: HSL{H: base.H, S: base.S, L: clamp(base.L - backgroundOffset)},
	}, nil
}

// HexToHSL converts a "#RRGGBB" (or "RRGGBB") color to HSL, rounding to
// whole degrees and percent.
func HexToHSL(hex string) (HSL, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return HSL{}, fmt.Errorf("invalid hex color %q: want 6 digits", hex)
	}

	rv, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return HSL{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	gv, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return HSL{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	bv, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return HSL{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}

	r := float64(rv) / 255
	g := float64(gv) / 255
	b := float64(bv) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l := (max + min) / 2

	var h, s float64
	if max != min {
		d := max - min
		if l > 0.5 {
			s = d / (2 - max - min)
		} else {
			s = d / (max + min)
		}
		switch max {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h *= 60
	}

	return HSL{
		H: int(math.Round(h)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}, nil
}

func clamp(l int) int {
	if l < 0 {
		return 0
	}
	return l
}
