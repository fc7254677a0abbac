// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// fakeRecorder writes an executable shell script standing in for gpu-screen-recorder.
func fakeRecorder(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gpu-screen-recorder")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCaptureOptions(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{
			name:   "empty output",
			output: "",
			want:   []string{"screen", "portal"},
		},
		{
			name:   "monitors",
			output: "DP-1|2560x1440\nHDMI-A-1|1920x1080\n",
			want:   []string{"screen", "portal", "DP-1", "HDMI-A-1"},
		},
		{
			name:   "lines without delimiter are skipped",
			output: "window\nfocused\nDP-1|2560x1440\n\n",
			want:   []string{"screen", "portal", "DP-1"},
		},
		{
			name:   "name is trimmed and split on the first delimiter",
			output: "  eDP-1  |1920x1080|extra\r\n",
			want:   []string{"screen", "portal", "eDP-1"},
		},
		{
			name:   "no deduplication",
			output: "screen|1920x1080\nDP-1|a\nDP-1|b\n",
			want:   []string{"screen", "portal", "screen", "DP-1", "DP-1"},
		},
		{
			name:   "empty name is kept",
			output: "|1920x1080\n",
			want:   []string{"screen", "portal", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCaptureOptions(tt.output); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCaptureOptions() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCaptureOptionsLongLine(t *testing.T) {
	output := strings.Repeat("x", 128*1024) + "\nDP-1|2560x1440\n"

	got := ParseCaptureOptions(output)
	want := []string{"screen", "portal", "DP-1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Options after a long line were dropped: %q", got)
	}
}

func TestCaptureOptionListerList(t *testing.T) {
	binary := fakeRecorder(t, `[ "$1" = "--list-capture-options" ] || exit 9
echo "window"
echo "DP-1|2560x1440"`)

	options, err := (&CaptureOptionLister{Binary: binary}).List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	want := []string{"screen", "portal", "DP-1"}
	if !reflect.DeepEqual(options, want) {
		t.Errorf("List() = %q, want %q", options, want)
	}
}

func TestCaptureOptionListerNonZeroExit(t *testing.T) {
	binary := fakeRecorder(t, `echo "failed to connect to display" >&2
exit 1`)

	_, err := (&CaptureOptionLister{Binary: binary}).List()
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("Expected *CommandError, got %v", err)
	}
	if !strings.Contains(cmdErr.Stderr, "failed to connect to display") {
		t.Errorf("Expected stderr to be propagated, got %q", cmdErr.Stderr)
	}
}

func TestCaptureOptionListerMissingBinary(t *testing.T) {
	binary := filepath.Join(t.TempDir(), "missing")

	_, err := (&CaptureOptionLister{Binary: binary}).List()
	if err == nil {
		t.Fatal("Expected spawn error")
	}
	if !strings.HasPrefix(err.Error(), "failed to run") {
		t.Errorf("Unexpected error: %v", err)
	}
}
