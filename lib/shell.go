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

	"golang.org/x/text/encoding/unicode"
)

const DefaultShell = "sh"

// CommandError is returned when a process ran but exited non-zero.
// Its message is the process's stderr, unmodified.
type CommandError struct {
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	return e.Stderr
}

// Executor runs caller-supplied command lines through a shell.
// The command string is passed to the shell as-is: it must come from a trusted caller.
type Executor struct {
	Shell string
}

func NewExecutor() *Executor {
	return &Executor{Shell: DefaultShell}
}

func (e *Executor) Run(command string) (string, error) {
	shell := e.Shell
	if shell == "" {
		shell = DefaultShell
	}

	var stdout, stderr bytes.Buffer
	process := exec.Command(shell, "-c", command)
	process.Stdout = &stdout
	process.Stderr = &stderr

	if err := process.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &CommandError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   decodeLossy(stderr.Bytes()),
			}
		}
		return "", fmt.Errorf("failed to execute command: %w", err)
	}

	return decodeLossy(stdout.Bytes()), nil
}

// decodeLossy never fails: ill-formed UTF-8 becomes U+FFFD.
func decodeLossy(output []byte) string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(output)
	if err != nil {
		return strings.ToValidUTF8(string(output), "�")
	}
	return string(decoded)
}
