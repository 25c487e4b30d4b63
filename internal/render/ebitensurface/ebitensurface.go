// Package ebitensurface draws overlay sprites into an ebiten image.
package ebitensurface

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spreadingweeds/extension/internal/render"
)

// Surface draws onto Target using the named textures.
type Surface struct {
	Target   *ebiten.Image
	Textures map[string]*ebiten.Image
}

// New returns a surface drawing onto target.
func New(target *ebiten.Image, textures map[string]*ebiten.Image) *Surface {
	if textures == nil {
		textures = make(map[string]*ebiten.Image)
	}
	return &Surface{Target: target, Textures: textures}
}

// Draw implements render.Surface.
func (s *Surface) Draw(sp render.Sprite, opts render.DrawOptions) error {
	tex, ok := s.Textures[sp.Texture]
	if !ok || tex == nil {
		return fmt.Errorf("%w: %s", render.ErrMissingTexture, sp.Texture)
	}
	if s.Target == nil {
		return nil
	}

	src := tex
	if !sp.Src.Empty() {
		src = tex.SubImage(sp.Src).(*ebiten.Image)
	}

	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-opts.Origin.X, -opts.Origin.Y)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Rotate(opts.Rotation)
	op.GeoM.Translate(opts.Position.X, opts.Position.Y)
	if opts.Tint != nil {
		op.ColorScale.ScaleWithColor(opts.Tint)
	}
	op.ColorScale.ScaleAlpha(float32(opts.Alpha))
	s.Target.DrawImage(src, op)
	return nil
}

// Placeholders builds flat-colored stand-ins for every texture the overlay
// uses, for running without the game's content files.
func Placeholders() map[string]*ebiten.Image {
	fill := func(w, h int, c color.Color) *ebiten.Image {
		img := ebiten.NewImage(w, h)
		img.Fill(c)
		return img
	}
	return map[string]*ebiten.Image{
		render.TextureObjects:       fill(384, 624, color.NRGBA{R: 0x9a, G: 0x9a, B: 0x9a, A: 0xff}),
		render.TextureBigCraftables: fill(128, 1152, color.NRGBA{R: 0x8b, G: 0x5a, B: 0x2b, A: 0xff}),
		render.TextureCrops:         fill(256, 1024, color.NRGBA{R: 0x3c, G: 0xb0, B: 0x43, A: 0xff}),
		render.TextureHoeDirt:       fill(16, 16, color.NRGBA{R: 0x6b, G: 0x4a, B: 0x2b, A: 0xff}),
		render.TextureHoeDirtSnow:   fill(16, 16, color.NRGBA{R: 0xe8, G: 0xf0, B: 0xff, A: 0xff}),
		render.TextureEmotes:        fill(64, 256, color.NRGBA{R: 0xe0, G: 0x30, B: 0x30, A: 0xff}),
		render.TextureArrow:         fill(12, 8, color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}),
	}
}
