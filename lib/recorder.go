// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

const (
	DefaultAudioSource = "default_output"
	pidFileName        = "recorder.pid"
)

type ReplayOptions struct {
	Window      string
	AudioSource string
}

// BuildRecorderArgs turns a settings record into gpu-screen-recorder replay
// buffer arguments. homeDir is used to expand a leading "~" in the output path.
func BuildRecorderArgs(settings Settings, opts ReplayOptions, homeDir string) ([]string, error) {
	if settings.Backend != RecorderCommand {
		return nil, fmt.Errorf("backend %s not supported", settings.Backend)
	}

	window := opts.Window
	if window == "" {
		window = CaptureOptionScreen
	}
	audio := opts.AudioSource
	if audio == "" {
		audio = DefaultAudioSource
	}

	return []string{
		"-w", window,
		"-f", strconv.FormatUint(uint64(settings.Framerate), 10),
		"-r", strconv.FormatUint(uint64(settings.ReplayTime), 10),
		"-c", settings.Container,
		"-o", expandHome(settings.Output, homeDir),
		"-a", audio,
		"-k", settings.Codec,
		"-q", strconv.FormatUint(uint64(settings.Quality), 10),
		"-fm", settings.FramerateMode,
		"-bm", settings.BitrateMode,
	}, nil
}

func expandHome(path, homeDir string) string {
	if homeDir == "" {
		return path
	}
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// RecorderPidFilePath is where a running replay recorder leaves its pid.
func RecorderPidFilePath() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = os.TempDir()
	}
	return filepath.Join(runtimeDir, ConfigDirName, pidFileName)
}

func writePidFile(pid int) error {
	pidFile := RecorderPidFilePath()
	if err := os.MkdirAll(filepath.Dir(pidFile), 0700); err != nil {
		return err
	}
	return os.WriteFile(pidFile, []byte(strconv.Itoa(pid)), 0600)
}

// RunReplay starts the replay buffer and blocks until the recorder exits.
// SIGINT and SIGTERM are forwarded as SIGINT so the recorder can finish cleanly.
func RunReplay(settings Settings, opts ReplayOptions) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	args, err := BuildRecorderArgs(settings, opts, homeDir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(expandHome(settings.Output, homeDir), DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	command := exec.Command(RecorderCommand, args...)
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr

	fmt.Printf("Starting recorder with command: %s %s\n", RecorderCommand, strings.Join(args, " "))
	if err := command.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", RecorderCommand, err)
	}

	if err := writePidFile(command.Process.Pid); err != nil {
		fmt.Printf("Failed to write pid file: %v\n", err)
	}
	defer os.Remove(RecorderPidFilePath())

	interruptSignal := make(chan os.Signal, 1)
	signal.Notify(interruptSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interruptSignal)

	finished := make(chan error, 1)
	go func() {
		finished <- command.Wait()
	}()

	select {
	case <-interruptSignal:
		fmt.Println("\nStopping replay buffer...")
		command.Process.Signal(syscall.SIGINT)
		<-finished
		fmt.Println("Stopped")
	case err := <-finished:
		if err != nil {
			return fmt.Errorf("%s exited: %w", RecorderCommand, err)
		}
		fmt.Println("Done")
	}
	return nil
}
