package main

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/spreadingweeds/extension/internal/render/ebitensurface"
	"github.com/spreadingweeds/extension/pkg/core"
)

const (
	viewerWidth  = 1280
	viewerHeight = 720
)

var groundColor = color.NRGBA{R: 0x5d, G: 0x8a, B: 0x3a, A: 0xff}

// viewerGame draws the overlay over a flat ground with placeholder
// textures.
type viewerGame struct {
	app      *app
	scene    *scene
	textures map[string]*ebiten.Image
}

var walkKeys = map[ebiten.Key][2]int{
	ebiten.KeyArrowUp:    {0, -1},
	ebiten.KeyArrowDown:  {0, 1},
	ebiten.KeyArrowLeft:  {-1, 0},
	ebiten.KeyArrowRight: {1, 0},
}

// Update walks the player and quits on Escape.
func (g *viewerGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	for key, d := range walkKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.scene.move(d[0], d[1])
		}
	}
	return nil
}

// Draw renders one frame of world markers and HUD arrows.
func (g *viewerGame) Draw(screen *ebiten.Image) {
	screen.Fill(groundColor)
	f := g.scene.frame(ebitensurface.New(screen, g.textures))
	g.app.manager.DrawWorld(f)
	g.app.manager.DrawHUD(f)
}

// Layout returns the logical screen size.
func (g *viewerGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return viewerWidth, viewerHeight
}

func newViewerCmd() *cobra.Command {
	var flags sceneFlags
	cmd := &cobra.Command{
		Use:   "viewer",
		Short: "Show today's overlay for a location in a window",
		Long:  "viewer draws the overlay with flat placeholder textures. Arrow keys walk, Escape quits.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), appOptions{})
			if err != nil {
				return err
			}
			defer a.close()
			if err := flags.enter(a); err != nil {
				return err
			}

			game := &viewerGame{
				app: a,
				scene: &scene{
					location: flags.location,
					player:   core.TilePos{X: flags.x, Y: flags.y},
					width:    viewerWidth,
					height:   viewerHeight,
				},
				textures: ebitensurface.Placeholders(),
			}

			ebiten.SetWindowSize(viewerWidth, viewerHeight)
			ebiten.SetWindowTitle("Spreading Weeds: " + flags.location)
			if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
				return err
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func init() {
	rootCmd.AddCommand(newViewerCmd())
}
