package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spreadingweeds/extension/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// Everything here works in world pixels with y growing downward. Tiles
// are core.TileSize pixels square.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// TileFromString parses a string in the format "x,y" into a tile position.
// Surrounding whitespace and a trailing ".0" from the host are tolerated.
func TileFromString(coords string) (core.TilePos, error) {
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) != 2 {
		return core.TilePos{}, ErrInvalidCoordinates
	}
	x, err := parseAxis(coordsSplit[0])
	if err != nil {
		return core.TilePos{}, ErrInvalidCoordinates
	}
	y, err := parseAxis(coordsSplit[1])
	if err != nil {
		return core.TilePos{}, ErrInvalidCoordinates
	}
	return core.TilePos{X: x, Y: y}, nil
}

func parseAxis(s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, ErrInvalidCoordinates
	}
	return int(f), nil
}

// Bounds is an axis-aligned rectangle in world pixels, edges included.
type Bounds struct {
	env geom.Envelope
}

// NewBounds returns the rectangle with top-left corner (x, y). It fails
// when any edge is NaN or infinite.
func NewBounds(x, y, width, height float64) (Bounds, error) {
	env, err := geom.NewEnvelope([]geom.XY{{X: x, Y: y}, {X: x + width, Y: y + height}})
	if err != nil {
		return Bounds{}, fmt.Errorf("invalid bounds: %w", err)
	}
	return Bounds{env: env}, nil
}

// Grow returns the bounds extended by margin on every side.
func (b Bounds) Grow(margin float64) (Bounds, error) {
	lo, hi, ok := b.env.MinMaxXYs()
	if !ok {
		return b, nil
	}
	return NewBounds(lo.X-margin, lo.Y-margin, hi.X-lo.X+2*margin, hi.Y-lo.Y+2*margin)
}

// Contains reports whether (x, y) lies inside or on the edge. The zero
// Bounds contains nothing.
func (b Bounds) Contains(x, y float64) bool {
	return b.env.Contains(geom.XY{X: x, Y: y})
}
