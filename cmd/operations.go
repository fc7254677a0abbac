// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var greetCmd = &cobra.Command{
	Use:   "greet NAME",
	Short: "Print a greeting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), newBackend().Greet(args[0]))
	},
}

var runCmd = &cobra.Command{
	Use:   "run COMMAND",
	Short: "Run a shell command and print its output",
	Long:  "Run a shell command through 'sh -c'. The command is not escaped or sandboxed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := newBackend().RunTerminalCommand(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	},
}

var captureOptionsCmd = &cobra.Command{
	Use:   "capture-options",
	Short: "List the sources gpu-screen-recorder can capture",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		options, err := newBackend().GetCaptureOptions()
		if err != nil {
			return err
		}
		for _, option := range options {
			fmt.Fprintln(cmd.OutOrStdout(), option)
		}
		return nil
	},
}

var selectFolderCmd = &cobra.Command{
	Use:   "select-folder",
	Short: "Open the desktop folder picker and print the chosen path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, err := newBackend().SelectFolder()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), folder)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(greetCmd, runCmd, captureOptionsCmd, selectFolderCmd)
}
