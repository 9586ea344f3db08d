// Package config builds the wcompd CLI: a cobra.Command with flags
// bound through viper so they can also come from a config file or
// WCOMP_-prefixed environment variables. Grounded on the cobra+viper
// manifest pulled in by bnema/waymon (its go.mod lists both side by
// side), since the teacher itself takes no flags at all.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the fully resolved set of knobs the Pipeline and the
// Surface Manager need at startup.
type Config struct {
	// FrameRate paces internal/pipeline.Clock, in frames per second.
	FrameRate int

	// BorderGrace overrides surface.DefaultBorderGrace.
	BorderGrace int32

	// Verbose holds the --verbose flag. wcompd does not read it; the
	// wlog loggers keep their default level.
	Verbose bool

	// WaylandDisplay is passed through to the platform backend, empty
	// meaning "use $WAYLAND_DISPLAY".
	WaylandDisplay string
}

const envPrefix = "WCOMP"

// NewRootCommand builds the `wcompd` root command. run is invoked with
// the resolved Config once flags/env/config-file are all merged.
func NewRootCommand(run func(Config) error) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	// Map hyphenated keys such as frame-rate onto WCOMP_FRAME_RATE.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "wcompd",
		Short: "wcomp compositor core daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("config: reading %s: %w", cfgFile, err)
				}
			}
			return run(Config{
				FrameRate:      v.GetInt("frame-rate"),
				BorderGrace:    int32(v.GetInt("border-grace")),
				Verbose:        v.GetBool("verbose"),
				WaylandDisplay: v.GetString("wayland-display"),
			})
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "path to a config file (yaml/toml/json)")
	flags.Int("frame-rate", 60, "target redraw frame rate")
	flags.Int("border-grace", 10, "pixels of hit-test grace around a surface's border")
	flags.Bool("verbose", false, "recorded in the resolved config; does not change the log level")
	flags.String("wayland-display", "", "WAYLAND_DISPLAY override for the platform backend")

	for _, name := range []string{"frame-rate", "border-grace", "verbose", "wayland-display"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	return cmd
}
