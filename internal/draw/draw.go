// Package draw renders to a terminal with half-block characters and ANSI
// cursor moves.
package draw

// Point represents a 2D coordinate in canvas logical space.
type Point struct {
	X, Y float64
}

// Shade characters from lightest to darkest.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockLight     = '░'
	BlockMedium    = '▒'
	BlockDark      = '▓'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Bar returns a width-cell meter filled to frac, e.g. "████░░░░".
func Bar(frac float64, width int) string {
	if width <= 0 {
		return ""
	}
	if frac < 0 || frac != frac {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac*float64(width) + 0.5)
	out := make([]rune, width)
	for i := range out {
		if i < filled {
			out[i] = BlockFull
		} else {
			out[i] = BlockLight
		}
	}
	return string(out)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
