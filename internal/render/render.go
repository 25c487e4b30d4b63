// Package render holds the drawing contract shared by the overlay and the
// concrete surfaces (ebiten window, tcell terminal).
package render

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/spreadingweeds/extension/pkg/core"
)

// ErrMissingTexture is returned by surfaces asked to draw an unknown texture.
var ErrMissingTexture = errors.New("missing texture")

// Texture names understood by every surface.
const (
	TextureObjects        = "Maps/springobjects"
	TextureBigCraftables  = "TileSheets/Craftables"
	TextureCrops          = "TileSheets/crops"
	TextureHoeDirt        = "TerrainFeatures/hoeDirt"
	TextureHoeDirtSnow    = "TerrainFeatures/hoeDirtSnow"
	TextureEmotes         = "TileSheets/emotes"
	TextureArrow          = "LooseSprites/arrow"
	PixelScale            = 4.0
	SourceTile            = 16
	objectSheetColumns    = 24
	bigCraftableSheetCols = 8
)

// Vec2 is a point or offset in pixels.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// TileOrigin returns the world pixel position of the tile's top-left corner.
func TileOrigin(t core.TilePos) Vec2 {
	return Vec2{X: float64(t.X * core.TileSize), Y: float64(t.Y * core.TileSize)}
}

// TileCenter returns the world pixel position of the tile's center.
func TileCenter(t core.TilePos) Vec2 {
	return TileOrigin(t).Add(Vec2{X: core.TileSize / 2, Y: core.TileSize / 2})
}

// Sprite is a rectangle on a named texture.
type Sprite struct {
	Texture string
	Src     image.Rectangle
}

// DrawOptions places a sprite on a surface. Origin is in source pixels and
// is the pivot for Rotation and the anchor placed at Position. A nil Tint
// draws untinted; Alpha multiplies the result.
type DrawOptions struct {
	Position Vec2
	Origin   Vec2
	Scale    float64
	Rotation float64
	Tint     color.Color
	Alpha    float64
}

// Surface is a sprite batch.
type Surface interface {
	Draw(s Sprite, opts DrawOptions) error
}

// Drawable is anything that knows how to draw itself on a tile. pos is the
// screen position of the tile's top-left corner.
type Drawable interface {
	Draw(dst Surface, pos Vec2, alpha float64) error
}

// ItemSprite is the drawable of a registry item. Tall sprites (big
// craftables) extend one tile above their anchor.
type ItemSprite struct {
	Sprite Sprite
	Tall   bool
}

// Draw implements Drawable.
func (i ItemSprite) Draw(dst Surface, pos Vec2, alpha float64) error {
	if i.Tall {
		pos.Y -= core.TileSize
	}
	return dst.Draw(i.Sprite, DrawOptions{Position: pos, Scale: PixelScale, Alpha: alpha})
}

// ObjectSprite returns the sprite of a plain object by its sheet index.
func ObjectSprite(index int) Sprite {
	return Sprite{
		Texture: TextureObjects,
		Src:     image.Rect(0, 0, SourceTile, SourceTile).Add(image.Pt(index%objectSheetColumns*SourceTile, index/objectSheetColumns*SourceTile)),
	}
}

// BigCraftableSprite returns the sprite of a big craftable by its sheet index.
func BigCraftableSprite(index int) Sprite {
	return Sprite{
		Texture: TextureBigCraftables,
		Src:     image.Rect(0, 0, SourceTile, 2*SourceTile).Add(image.Pt(index%bigCraftableSheetCols*SourceTile, index/bigCraftableSheetCols*2*SourceTile)),
	}
}

// DirtSprite is the tilled soil patch.
func DirtSprite(winter bool) Sprite {
	tex := TextureHoeDirt
	if winter {
		tex = TextureHoeDirtSnow
	}
	return Sprite{Texture: tex, Src: image.Rect(0, 0, SourceTile, SourceTile)}
}

// EmoteSprite returns one frame of the emote sheet, which is sheetWidth
// pixels wide.
func EmoteSprite(index, sheetWidth int) Sprite {
	if sheetWidth <= 0 {
		sheetWidth = 4 * SourceTile
	}
	x := index * SourceTile % sheetWidth
	y := index * SourceTile / sheetWidth * SourceTile
	return Sprite{Texture: TextureEmotes, Src: image.Rect(x, y, x+SourceTile, y+SourceTile)}
}

// ArrowSprite is the off-screen indicator icon. It points east.
func ArrowSprite(width, height int) Sprite {
	return Sprite{Texture: TextureArrow, Src: image.Rect(0, 0, width, height)}
}
