package render

import (
	"hash/fnv"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spreadingweeds/extension/pkg/core"
)

// ParseColor reads a tint color written as "R G B", "R G B A" or
// "#RRGGBB". Color names are not accepted.
func ParseColor(s string) (color.Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, false
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, true
	}

	fields := strings.Fields(s)
	if len(fields) != 3 && len(fields) != 4 {
		return nil, false
	}
	var parts [4]uint8
	parts[3] = 0xff
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 || n > 255 {
			return nil, false
		}
		parts[i] = uint8(n)
	}
	return color.NRGBA{R: parts[0], G: parts[1], B: parts[2], A: parts[3]}, true
}

// TintIndex picks one of n tint colors for a tile. The same tile on the
// same day of the month always gets the same color.
func TintIndex(tile core.TilePos, dayOfMonth, n int) int {
	if n <= 0 {
		return -1
	}
	h := fnv.New32a()
	for _, v := range []int{tile.X * 1000, tile.Y, dayOfMonth} {
		_, _ = h.Write([]byte(strconv.Itoa(v)))
		_, _ = h.Write([]byte{'/'})
	}
	return int(h.Sum32() % uint32(n))
}

// ChooseTint resolves the tint of a crop on a tile, or nil if none of the
// candidate colors parses.
func ChooseTint(tints []string, tile core.TilePos, dayOfMonth int) color.Color {
	idx := TintIndex(tile, dayOfMonth, len(tints))
	if idx < 0 {
		return nil
	}
	c, ok := ParseColor(tints[idx])
	if !ok {
		return nil
	}
	return c
}
