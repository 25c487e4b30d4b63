package render

import (
	"image"
	"image/color"

	"github.com/spreadingweeds/extension/pkg/core"
)

// CropSprite is the visual of a crop at a fixed growth phase. Row is the
// crop's row on the crop sheet; PhaseCount is the number of growth phases
// the crop defines. Tints are the candidate overlay colors and Tint the one
// chosen for drawing.
type CropSprite struct {
	Texture    string
	Row        int
	PhaseCount int
	Phase      int
	Tints      []string
	Tint       color.Color
}

// Tinted returns a copy with the tint chosen for a tile on a day.
func (c CropSprite) Tinted(tile core.TilePos, dayOfMonth int) CropSprite {
	c.Tint = ChooseTint(c.Tints, tile, dayOfMonth)
	return c
}

func (c CropSprite) rowOffset() int {
	if c.Row%2 != 0 {
		return 128
	}
	return 0
}

// SourceRect returns the base sprite rectangle for the crop's phase.
func (c CropSprite) SourceRect() image.Rectangle {
	x := min(240, (c.Phase+1)*SourceTile+c.rowOffset())
	y := c.Row / 2 * 2 * SourceTile
	return image.Rect(x, y, x+SourceTile, y+2*SourceTile)
}

// TintRect returns the rectangle of the colored overlay layer, which sits
// after the last growth phase on the same row.
func (c CropSprite) TintRect() image.Rectangle {
	base := c.SourceRect()
	x := (c.PhaseCount+2)*SourceTile + c.rowOffset()
	return image.Rect(x, base.Min.Y, x+SourceTile, base.Max.Y)
}

// Draw implements Drawable. The crop stands one tile above its anchor and
// the tint layer is drawn first.
func (c CropSprite) Draw(dst Surface, pos Vec2, alpha float64) error {
	tex := c.Texture
	if tex == "" {
		tex = TextureCrops
	}
	top := pos.Add(Vec2{Y: -64})
	if c.Tint != nil {
		if err := dst.Draw(Sprite{Texture: tex, Src: c.TintRect()}, DrawOptions{
			Position: top, Scale: PixelScale, Tint: c.Tint, Alpha: alpha,
		}); err != nil {
			return err
		}
	}
	return dst.Draw(Sprite{Texture: tex, Src: c.SourceRect()}, DrawOptions{
		Position: top, Scale: PixelScale, Alpha: alpha,
	})
}
