package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spreadingweeds/extension/internal/config"
	"github.com/spreadingweeds/extension/internal/monitor"
	"github.com/spreadingweeds/extension/pkg/core"
)

// optionFlags edits the player-facing options. Only flags given on the
// command line change anything.
type optionFlags struct {
	showX           bool
	newObjectResets bool
	showHUD         bool
	showOverlay     bool
	cropImages      string
}

func (f *optionFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.showX, "show-x", true, "draw the red X under markers")
	cmd.Flags().BoolVar(&f.newObjectResets, "new-object-resets", true, "placing an object clears the marker")
	cmd.Flags().BoolVar(&f.showHUD, "show-report", true, "show the damage report each morning")
	cmd.Flags().BoolVar(&f.showOverlay, "show-overlay", true, "draw markers in the world")
	cmd.Flags().StringVar(&f.cropImages, "crop-images", string(core.CropGrowingPlant),
		fmt.Sprintf("crop marker style: %q, %q or %q", core.CropGrowingPlant, core.CropSeedPacket, core.CropHarvestedProduce))
}

func (f *optionFlags) apply(cfg config.ModConfig, changed func(string) bool) (config.ModConfig, error) {
	if changed("show-x") {
		cfg.ShowX = f.showX
	}
	if changed("new-object-resets") {
		cfg.NewObjectResets = f.newObjectResets
	}
	if changed("show-report") {
		cfg.ShowHUDDamageReport = f.showHUD
	}
	if changed("show-overlay") {
		cfg.ShowInWorldOverlay = f.showOverlay
	}
	if changed("crop-images") {
		if core.ParseCropDisplayMode(f.cropImages) != core.CropDisplayMode(f.cropImages) {
			return cfg, fmt.Errorf("unknown crop image style %q", f.cropImages)
		}
		cfg.CropImages = f.cropImages
	}
	return cfg, nil
}

func newConfigCmd() *cobra.Command {
	var flags optionFlags
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the player options",
		Long:  "config prints the current options. Any option flag given is saved to the config file first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), appOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			cfg, err := flags.apply(a.manager.Settings(), cmd.Flags().Changed)
			if err != nil {
				return err
			}
			if cmd.Flags().NFlag() > 0 {
				if err := a.manager.SaveConfig(cfg); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), monitor.ConfigLine(a.manager.Settings()))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func init() {
	rootCmd.AddCommand(newConfigCmd())
}
