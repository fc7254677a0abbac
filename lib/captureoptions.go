// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const (
	RecorderCommand        = "gpu-screen-recorder"
	ListCaptureOptionsFlag = "--list-capture-options"
	CaptureOptionScreen    = "screen"
	CaptureOptionPortal    = "portal"
	captureOptionDelimiter = "|"
)

type CaptureOptionLister struct {
	Binary string
}

func NewCaptureOptionLister() *CaptureOptionLister {
	return &CaptureOptionLister{Binary: RecorderCommand}
}

func (l *CaptureOptionLister) List() ([]string, error) {
	binary := l.Binary
	if binary == "" {
		binary = RecorderCommand
	}

	var stdout, stderr bytes.Buffer
	process := exec.Command(binary, ListCaptureOptionsFlag)
	process.Stdout = &stdout
	process.Stderr = &stderr

	if err := process.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &CommandError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   decodeLossy(stderr.Bytes()),
			}
		}
		return nil, fmt.Errorf("failed to run %s: %w", binary, err)
	}

	return ParseCaptureOptions(decodeLossy(stdout.Bytes())), nil
}

// ParseCaptureOptions keeps the name part of every "name|..." line, after the
// two options every recorder supports. Duplicates are kept.
func ParseCaptureOptions(output string) []string {
	options := []string{CaptureOptionScreen, CaptureOptionPortal}

	for _, line := range strings.Split(output, "\n") {
		name, _, found := strings.Cut(line, captureOptionDelimiter)
		if !found {
			continue
		}
		options = append(options, strings.TrimSpace(name))
	}

	return options
}
