package celestial

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

type BodyType string

const (
	TypeStar      BodyType = "star"
	TypePlanet    BodyType = "planet"
	TypeGasGiant  BodyType = "gas_giant"
	TypeMoon      BodyType = "moon"
	TypeAsteroid  BodyType = "asteroid"
	TypeComet     BodyType = "comet"
	TypeBlackHole BodyType = "black_hole"
)

// Color is an 8-bit RGB colour with an optional alpha channel. HasAlpha
// records whether the source carried four components so that files round-trip.
type Color struct {
	R, G, B, A uint8
	HasAlpha   bool
}

var (
	defaultColor = Color{R: 255, G: 255, B: 255, A: 255}

	themes = map[BodyType]Color{
		TypeStar:      {R: 255, G: 255, B: 100, A: 255},
		TypePlanet:    {R: 100, G: 150, B: 255, A: 255},
		TypeGasGiant:  {R: 255, G: 150, B: 50, A: 255},
		TypeMoon:      {R: 200, G: 200, B: 200, A: 255},
		TypeAsteroid:  {R: 150, G: 100, B: 50, A: 255},
		TypeComet:     {R: 150, G: 200, B: 255, A: 255},
		TypeBlackHole: {R: 0, G: 0, B: 0, A: 255},
	}
)

const trailAlpha = 100

// Known reports whether t has a colour theme.
func (t BodyType) Known() bool {
	_, ok := themes[t]
	return ok
}

// ThemeColor returns the default colour of a body type, falling back to
// plain white for unknown types.
func (t BodyType) ThemeColor() Color {
	if c, ok := themes[t]; ok {
		return c
	}
	return defaultColor
}

func BodyTypes() []BodyType {
	return []BodyType{TypeStar, TypePlanet, TypeGasGiant, TypeMoon, TypeAsteroid, TypeComet, TypeBlackHole}
}

func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a, HasAlpha: true}
}

// ColorFromComponents accepts the 3- or 4-element integer form of the file schema.
func ColorFromComponents(c []int) (Color, error) {
	if len(c) != 3 && len(c) != 4 {
		return Color{}, fmt.Errorf("expected 3 or 4 components, got %d", len(c))
	}
	for _, v := range c {
		if v < 0 || v > 255 {
			return Color{}, fmt.Errorf("component %d out of range [0,255]", v)
		}
	}
	if len(c) == 4 {
		return RGBA(uint8(c[0]), uint8(c[1]), uint8(c[2]), uint8(c[3])), nil
	}
	return RGB(uint8(c[0]), uint8(c[1]), uint8(c[2])), nil
}

// ParseHex reads a "#rrggbb" colour, as used by preset definitions.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	r, g, b := c.RGB255()
	return RGB(r, g, b), nil
}

func (c Color) Components() []int {
	if c.HasAlpha {
		return []int{int(c.R), int(c.G), int(c.B), int(c.A)}
	}
	return []int{int(c.R), int(c.G), int(c.B)}
}

func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func (c Color) Hex() string {
	return c.Colorful().Hex()
}

// Trail is the semi-transparent variant drawn behind a moving body.
func (c Color) Trail() Color {
	return RGBA(c.R, c.G, c.B, trailAlpha)
}

// Fade blends c toward black by t in [0,1]; renderers use it for older trail points.
func (c Color) Fade(t float64) Color {
	r, g, b := c.Colorful().BlendLab(colorful.Color{}, t).Clamped().RGB255()
	out := c
	out.R, out.G, out.B = r, g, b
	return out
}
