// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cmd

import (
	"log/slog"
	"os"
	"simon-weij/flux/server"

	"github.com/spf13/cobra"
)

var (
	serveAddr  string
	serveDebug bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the invoke API for the front-end",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if serveDebug {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		return server.ListenAndServe(serveAddr, logger, newBackend(), serveDebug)
	},
}

func defaultServeAddr() string {
	if addr := os.Getenv("FLUX_ADDR"); addr != "" {
		return addr
	}
	return server.DefaultAddr
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", defaultServeAddr(), "Address to listen on (env FLUX_ADDR)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging and request logs")
}
