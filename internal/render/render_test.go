package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/spreadingweeds/extension/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawCall struct {
	sprite Sprite
	opts   DrawOptions
}

type recordingSurface struct {
	calls []drawCall
}

func (r *recordingSurface) Draw(s Sprite, opts DrawOptions) error {
	r.calls = append(r.calls, drawCall{sprite: s, opts: opts})
	return nil
}

func TestTileGeometry(t *testing.T) {
	tile := core.TilePos{X: 2, Y: 3}
	assert.Equal(t, Vec2{X: 128, Y: 192}, TileOrigin(tile))
	assert.Equal(t, Vec2{X: 160, Y: 224}, TileCenter(tile))
	assert.InDelta(t, 5.0, Vec2{X: 3, Y: 4}.Len(), 1e-9)
}

func TestItemSprite_Draw(t *testing.T) {
	tests := []struct {
		name  string
		item  ItemSprite
		wantY float64
	}{
		{name: "plain", item: ItemSprite{Sprite: ObjectSprite(25)}, wantY: 100},
		{name: "tall", item: ItemSprite{Sprite: BigCraftableSprite(13), Tall: true}, wantY: 36},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &recordingSurface{}
			require.NoError(t, tt.item.Draw(s, Vec2{X: 10, Y: 100}, 0.5))
			require.Len(t, s.calls, 1)
			assert.Equal(t, tt.wantY, s.calls[0].opts.Position.Y)
			assert.Equal(t, PixelScale, s.calls[0].opts.Scale)
			assert.Equal(t, 0.5, s.calls[0].opts.Alpha)
		})
	}
}

func TestSheetSprites(t *testing.T) {
	assert.Equal(t, image.Rect(16, 16, 32, 32), ObjectSprite(25).Src)
	assert.Equal(t, image.Rect(80, 32, 96, 64), BigCraftableSprite(13).Src)
	assert.Equal(t, TextureHoeDirtSnow, DirtSprite(true).Texture)
	assert.Equal(t, TextureHoeDirt, DirtSprite(false).Texture)

	// frame 37 on a 64 pixel wide sheet is row 9, column 1
	assert.Equal(t, image.Rect(16, 144, 32, 160), EmoteSprite(37, 64).Src)
}

func TestCropSprite_Rects(t *testing.T) {
	tests := []struct {
		name     string
		crop     CropSprite
		wantBase image.Rectangle
		wantTint image.Rectangle
	}{
		{
			name:     "even row",
			crop:     CropSprite{Row: 4, PhaseCount: 4, Phase: 2},
			wantBase: image.Rect(48, 64, 64, 96),
			wantTint: image.Rect(96, 64, 112, 96),
		},
		{
			name:     "odd row",
			crop:     CropSprite{Row: 5, PhaseCount: 4, Phase: 0},
			wantBase: image.Rect(144, 64, 160, 96),
			wantTint: image.Rect(224, 64, 240, 96),
		},
		{
			name:     "capped at last column",
			crop:     CropSprite{Row: 1, PhaseCount: 5, Phase: 9},
			wantBase: image.Rect(240, 0, 256, 32),
			wantTint: image.Rect(240, 0, 256, 32),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantBase, tt.crop.SourceRect())
			assert.Equal(t, tt.wantTint, tt.crop.TintRect())
		})
	}
}

func TestCropSprite_DrawOrder(t *testing.T) {
	s := &recordingSurface{}
	crop := CropSprite{Row: 0, PhaseCount: 4, Phase: 1, Tint: color.NRGBA{R: 255, A: 255}}
	require.NoError(t, crop.Draw(s, Vec2{X: 64, Y: 128}, 1))

	require.Len(t, s.calls, 2)
	assert.NotNil(t, s.calls[0].opts.Tint)
	assert.Nil(t, s.calls[1].opts.Tint)
	assert.Equal(t, TextureCrops, s.calls[1].sprite.Texture)
	assert.Equal(t, Vec2{X: 64, Y: 64}, s.calls[1].opts.Position)

	s = &recordingSurface{}
	crop.Tint = nil
	require.NoError(t, crop.Draw(s, Vec2{}, 1))
	assert.Len(t, s.calls, 1)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.Color
		ok   bool
	}{
		{in: "255 128 0", want: color.NRGBA{R: 255, G: 128, B: 0, A: 255}, ok: true},
		{in: "10 20 30 40", want: color.NRGBA{R: 10, G: 20, B: 30, A: 40}, ok: true},
		{in: "#00ff00", want: color.NRGBA{G: 255, A: 255}, ok: true},
		{in: "Red"},
		{in: "256 0 0"},
		{in: "1 2"},
		{in: "#zzzzzz"},
		{in: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTintIndex_Deterministic(t *testing.T) {
	tile := core.TilePos{X: 12, Y: 30}
	first := TintIndex(tile, 7, 5)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, TintIndex(tile, 7, 5))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 5)
	assert.Equal(t, -1, TintIndex(tile, 7, 0))
}

func TestChooseTint(t *testing.T) {
	tile := core.TilePos{X: 1, Y: 1}
	assert.Nil(t, ChooseTint(nil, tile, 1))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, ChooseTint([]string{"0 0 255"}, tile, 1))
	assert.Nil(t, ChooseTint([]string{"not a color"}, tile, 1))
}
