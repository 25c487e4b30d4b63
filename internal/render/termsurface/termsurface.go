// Package termsurface draws overlay sprites onto a tcell screen, one glyph
// per sprite, for previewing a location in a terminal.
package termsurface

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/spreadingweeds/extension/internal/render"
)

// Surface maps screen pixels onto terminal cells.
type Surface struct {
	Screen tcell.Screen
	// CellWidth and CellHeight are the pixel size of one cell.
	CellWidth  float64
	CellHeight float64
}

// New returns a surface where one 64 pixel tile spans two cells wide and
// one cell high.
func New(screen tcell.Screen) *Surface {
	return &Surface{Screen: screen, CellWidth: 32, CellHeight: 64}
}

var textureGlyphs = map[string]rune{
	render.TextureObjects:       '●',
	render.TextureBigCraftables: '▲',
	render.TextureCrops:         '♣',
	render.TextureHoeDirt:       '▒',
	render.TextureHoeDirtSnow:   '░',
	render.TextureEmotes:        'X',
}

var arrowGlyphs = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// ArrowGlyph returns the arrow closest to rotation, with 0 pointing east.
func ArrowGlyph(rotation float64) rune {
	step := int(math.Round(rotation/(math.Pi/4))) % len(arrowGlyphs)
	if step < 0 {
		step += len(arrowGlyphs)
	}
	return arrowGlyphs[step]
}

// Draw implements render.Surface.
func (s *Surface) Draw(sp render.Sprite, opts render.DrawOptions) error {
	var glyph rune
	if sp.Texture == render.TextureArrow {
		glyph = ArrowGlyph(opts.Rotation)
	} else {
		g, ok := textureGlyphs[sp.Texture]
		if !ok {
			return render.ErrMissingTexture
		}
		glyph = g
	}

	pos := opts.Position.Sub(opts.Origin.Scale(opts.Scale))
	col := int(math.Floor(pos.X / s.CellWidth))
	row := int(math.Floor(pos.Y / s.CellHeight))
	w, h := s.Screen.Size()
	if col < 0 || row < 0 || col >= w || row >= h {
		return nil
	}

	s.Screen.SetContent(col, row, glyph, nil, styleFor(sp.Texture, opts))
	return nil
}

func styleFor(texture string, opts render.DrawOptions) tcell.Style {
	style := tcell.StyleDefault
	switch {
	case opts.Tint != nil:
		style = style.Foreground(toTCell(opts.Tint))
	case texture == render.TextureCrops:
		style = style.Foreground(tcell.ColorGreen)
	case texture == render.TextureHoeDirt:
		style = style.Foreground(tcell.ColorOlive)
	case texture == render.TextureEmotes:
		style = style.Foreground(tcell.ColorRed)
	case texture == render.TextureArrow:
		style = style.Foreground(tcell.ColorYellow)
	}
	if opts.Alpha < 0.5 {
		style = style.Dim(true)
	}
	return style
}

func toTCell(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
