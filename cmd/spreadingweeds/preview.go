package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/spreadingweeds/extension/internal/handlers"
	"github.com/spreadingweeds/extension/internal/render/termsurface"
	"github.com/spreadingweeds/extension/pkg/core"
)

// sceneFlags selects the location and start tile of a preview.
type sceneFlags struct {
	dateFlags
	location    string
	displayName string
	x, y        int
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	f.dateFlags.register(cmd)
	cmd.Flags().StringVar(&f.location, "location", "Farm", "location to show")
	cmd.Flags().StringVar(&f.displayName, "display-name", "", "label used in the report")
	cmd.Flags().IntVar(&f.x, "x", 0, "player tile x")
	cmd.Flags().IntVar(&f.y, "y", 0, "player tile y")
}

// enter starts the day and warps the player into the location.
func (f *sceneFlags) enter(a *app) error {
	if f.displayName != "" {
		a.setDisplayName(f.location, f.displayName)
	}
	if err := f.startDay(a); err != nil {
		return err
	}
	if _, err := a.dispatch(handlers.CmdWarp, f.location, f.displayName); err != nil {
		return err
	}
	a.watchConfig()
	return nil
}

func newPreviewCmd() *cobra.Command {
	var flags sceneFlags
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show today's overlay for a location in the terminal",
		Long:  "preview draws the in-world markers and off-screen arrows as glyphs. Arrow keys walk, q quits.",
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

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("failed to init screen: %w", err)
			}
			defer screen.Fini()

			return runPreview(a, screen, &scene{location: flags.location, player: core.TilePos{X: flags.x, Y: flags.y}})
		},
	}
	flags.register(cmd)
	return cmd
}

func runPreview(a *app, screen tcell.Screen, s *scene) error {
	surface := termsurface.New(screen)

	ticker := time.NewTicker(16 * time.Millisecond) // ~60 FPS
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !handlePreviewKey(ev, s) {
				return nil
			}

		case <-ticker.C:
			w, h := screen.Size()
			s.width = float64(w) * surface.CellWidth
			s.height = float64(h) * surface.CellHeight

			screen.Clear()
			f := s.frame(surface)
			a.manager.DrawWorld(f)
			a.manager.DrawHUD(f)
			screen.Show()
		}
	}
}

// handlePreviewKey applies one input event and reports whether the
// preview keeps running.
func handlePreviewKey(ev tcell.Event, s *scene) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return true
	}
	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		s.move(0, -1)
	case tcell.KeyDown:
		s.move(0, 1)
	case tcell.KeyLeft:
		s.move(-1, 0)
	case tcell.KeyRight:
		s.move(1, 0)
	case tcell.KeyRune:
		if key.Rune() == 'q' {
			return false
		}
	}
	return true
}

func init() {
	rootCmd.AddCommand(newPreviewCmd())
}
