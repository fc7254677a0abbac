// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"simon-weij/flux/lib"

	"github.com/spf13/cobra"
)

// newBackend is swapped out in tests.
var newBackend = lib.NewBackend

var rootCmd = &cobra.Command{
	Use:          "flux",
	Short:        "Clip capture backend for the flux desktop app",
	SilenceUsage: true,
}

// requireWaylandSession guards commands that talk to the compositor and PipeWire.
func requireWaylandSession(cmd *cobra.Command, args []string) error {
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		return fmt.Errorf("requires Wayland session")
	}
	if exec.Command("pgrep", "-f", "pipewire").Run() != nil {
		return fmt.Errorf("requires PipeWire")
	}
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
