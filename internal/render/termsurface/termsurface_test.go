package termsurface

import (
	"image/color"
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/spreadingweeds/extension/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(40, 12)
	t.Cleanup(screen.Fini)
	return screen
}

func TestArrowGlyph(t *testing.T) {
	tests := []struct {
		rotation float64
		want     rune
	}{
		{0, '→'},
		{math.Pi / 2, '↓'},
		{math.Pi, '←'},
		{-math.Pi / 2, '↑'},
		{-math.Pi / 4, '↗'},
		{math.Pi / 4, '↘'},
		{3 * math.Pi / 4, '↙'},
		{-3 * math.Pi / 4, '↖'},
	}
	for _, tt := range tests {
		assert.Equal(t, string(tt.want), string(ArrowGlyph(tt.rotation)), "rotation %v", tt.rotation)
	}
}

func TestSurface_Draw(t *testing.T) {
	screen := newScreen(t)
	s := New(screen)

	err := s.Draw(render.ObjectSprite(0), render.DrawOptions{Position: render.Vec2{X: 64, Y: 128}, Scale: 4, Alpha: 1})
	require.NoError(t, err)
	screen.Show()

	mainc, _, _, _ := screen.GetContent(2, 2)
	assert.Equal(t, '●', mainc)
}

func TestSurface_DrawArrowWithOrigin(t *testing.T) {
	screen := newScreen(t)
	s := New(screen)

	err := s.Draw(render.ArrowSprite(8, 8), render.DrawOptions{
		Position: render.Vec2{X: 100, Y: 100},
		Origin:   render.Vec2{X: 4, Y: 4},
		Scale:    4,
		Rotation: math.Pi,
		Alpha:    1,
	})
	require.NoError(t, err)
	screen.Show()

	mainc, _, _, _ := screen.GetContent(2, 1)
	assert.Equal(t, '←', mainc)
}

func TestSurface_Tint(t *testing.T) {
	screen := newScreen(t)
	s := New(screen)

	err := s.Draw(render.Sprite{Texture: render.TextureCrops}, render.DrawOptions{Tint: color.NRGBA{R: 255, A: 255}, Alpha: 1})
	require.NoError(t, err)
	screen.Show()

	_, _, style, _ := screen.GetContent(0, 0)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
}

func TestSurface_OutOfBoundsAndUnknown(t *testing.T) {
	screen := newScreen(t)
	s := New(screen)

	assert.NoError(t, s.Draw(render.ObjectSprite(0), render.DrawOptions{Position: render.Vec2{X: -100, Y: 0}}))
	assert.NoError(t, s.Draw(render.ObjectSprite(0), render.DrawOptions{Position: render.Vec2{X: 1e6, Y: 0}}))
	assert.ErrorIs(t, s.Draw(render.Sprite{Texture: "nope"}, render.DrawOptions{}), render.ErrMissingTexture)
}
