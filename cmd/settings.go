// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cmd

import (
	"encoding/json"
	"fmt"
	"simon-weij/flux/lib"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the saved settings",
}

var settingsLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Print the saved settings, or the defaults if none were saved",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := newBackend().LoadSettings()
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

// settingsFlags mirrors lib.Settings; only flags set on the command line
// replace the currently loaded values.
type settingsFlags struct {
	lib.Settings
}

var saveFlags settingsFlags

var settingsSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save settings; fields without a flag keep their current value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := newBackend()

		// An unreadable file is replaced, starting from the defaults.
		settings, err := backend.LoadSettings()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Existing settings ignored: %v\n", err)
			settings = lib.DefaultSettings()
		}
		saveFlags.apply(cmd, &settings)

		if err := backend.SaveSettings(settings); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings saved")
		return nil
	},
}

func (f *settingsFlags) apply(cmd *cobra.Command, settings *lib.Settings) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		settings.Backend = f.Backend
	}
	if flags.Changed("clip-length") {
		settings.ClipLength = f.ClipLength
	}
	if flags.Changed("clip-hotkey") {
		settings.ClipHotkey = f.ClipHotkey
	}
	if flags.Changed("framerate") {
		settings.Framerate = f.Framerate
	}
	if flags.Changed("replay-time") {
		settings.ReplayTime = f.ReplayTime
	}
	if flags.Changed("container") {
		settings.Container = f.Container
	}
	if flags.Changed("output") {
		settings.Output = f.Output
	}
	if flags.Changed("codec") {
		settings.Codec = f.Codec
	}
	if flags.Changed("quality") {
		settings.Quality = f.Quality
	}
	if flags.Changed("framerate-mode") {
		settings.FramerateMode = f.FramerateMode
	}
	if flags.Changed("bitrate-mode") {
		settings.BitrateMode = f.BitrateMode
	}
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsLoadCmd, settingsSaveCmd)

	defaults := lib.DefaultSettings()
	flags := settingsSaveCmd.Flags()
	flags.StringVar(&saveFlags.Backend, "backend", defaults.Backend, "Recording backend: gpu-screen-recorder or obs")
	flags.Uint32Var(&saveFlags.ClipLength, "clip-length", defaults.ClipLength, "Clip length in seconds")
	flags.StringSliceVar(&saveFlags.ClipHotkey, "clip-hotkey", defaults.ClipHotkey, "Hotkey chord as key names (e.g., KEY_LEFTALT,KEY_Z)")
	flags.Uint32Var(&saveFlags.Framerate, "framerate", defaults.Framerate, "Capture framerate")
	flags.Uint32Var(&saveFlags.ReplayTime, "replay-time", defaults.ReplayTime, "Replay buffer duration in seconds")
	flags.StringVar(&saveFlags.Container, "container", defaults.Container, "Container format: mp4, mkv, flv, webm")
	flags.StringVar(&saveFlags.Output, "output", defaults.Output, "Output directory for saved clips")
	flags.StringVar(&saveFlags.Codec, "codec", defaults.Codec, "Video codec: h264, hevc, av1, vp8, vp9")
	flags.Uint32Var(&saveFlags.Quality, "quality", defaults.Quality, "Encoder quality")
	flags.StringVar(&saveFlags.FramerateMode, "framerate-mode", defaults.FramerateMode, "Framerate mode: cfr, vfr, content")
	flags.StringVar(&saveFlags.BitrateMode, "bitrate-mode", defaults.BitrateMode, "Bitrate mode: auto, qp, vbr, cbr, cqp")
}
