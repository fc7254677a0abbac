// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cmd

import (
	"log"
	"simon-weij/flux/lib"

	"github.com/spf13/cobra"
)

var (
	window      string
	audioSource string
)

func fatalIfError(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

var recordCmd = &cobra.Command{
	Use:     "record",
	Short:   "Start the replay buffer using the saved settings",
	Args:    cobra.NoArgs,
	PreRunE: requireWaylandSession,
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := newBackend().LoadSettings()
		fatalIfError(err)

		fatalIfError(lib.RunReplay(settings, lib.ReplayOptions{
			Window:      window,
			AudioSource: audioSource,
		}))
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().StringVarP(&window, "window", "w", lib.CaptureOptionScreen, "Capture source (see 'flux capture-options')")
	recordCmd.Flags().StringVarP(&audioSource, "audio", "a", lib.DefaultAudioSource, "Audio source passed to gpu-screen-recorder")
}
