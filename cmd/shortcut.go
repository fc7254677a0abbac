// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cmd

import (
	"fmt"
	"simon-weij/flux/lib"

	"github.com/spf13/cobra"
)

var (
	shortcutKey string
)

var shortcutCmd = &cobra.Command{
	Use:     "shortcut",
	Short:   "Register the global clip shortcut",
	Args:    cobra.NoArgs,
	PreRunE: requireWaylandSession,
	Run: func(cmd *cobra.Command, args []string) {
		trigger, err := resolveTrigger(shortcutKey)
		fatalIfError(err)

		fmt.Printf("Using shortcut: %s\n", trigger)
		fatalIfError(lib.RegisterShortcut(trigger, "Save clip"))
	},
}

// resolveTrigger prefers --key and falls back to clip_hotkey from settings.
func resolveTrigger(key string) (string, error) {
	if key != "" {
		return lib.ParseShortcut(key)
	}

	settings, err := newBackend().LoadSettings()
	if err != nil {
		return "", err
	}
	trigger, err := lib.TriggerFromKeyNames(settings.ClipHotkey)
	if err != nil {
		return "", fmt.Errorf("invalid clip_hotkey in settings.json: %w", err)
	}
	return trigger, nil
}

func init() {
	rootCmd.AddCommand(shortcutCmd)

	shortcutCmd.Flags().StringVarP(&shortcutKey, "key", "k", "", "Shortcut key combination (e.g., 'alt+z'); defaults to clip_hotkey")
}
