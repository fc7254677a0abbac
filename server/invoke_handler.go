// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"simon-weij/flux/lib"

	"github.com/gin-gonic/gin"
)

type argumentError struct {
	err error
}

func (e *argumentError) Error() string {
	return fmt.Sprintf("invalid arguments: %v", e.err)
}

type command func(args []byte) (any, error)

// InvokeHandler dispatches POST /invoke/:command to an operation.
type InvokeHandler struct {
	logger   *slog.Logger
	ops      Operations
	commands map[string]command
}

func NewInvokeHandler(logger *slog.Logger, ops Operations) *InvokeHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	h := &InvokeHandler{logger: logger, ops: ops}
	h.commands = map[string]command{
		"greet":                h.greet,
		"run_terminal_command": h.runTerminalCommand,
		"save_settings":        h.saveSettings,
		"load_settings":        h.loadSettings,
		"get_capture_options":  h.getCaptureOptions,
		"select_folder":        h.selectFolder,
	}
	return h
}

func (h *InvokeHandler) Invoke(c *gin.Context) {
	name := c.Param("command")
	logger := h.logger.With("command", name, "requestID", c.GetString("requestID"))

	run, ok := h.commands[name]
	if !ok {
		logger.Warn("Unknown command")
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown command: %s", name)})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	result, err := run(body)
	if err != nil {
		if argErr, isArgErr := err.(*argumentError); isArgErr {
			logger.Warn("Rejected arguments", "error", argErr.err)
			c.JSON(http.StatusBadRequest, gin.H{"error": argErr.Error()})
			return
		}
		logger.Info("Command failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logger.Debug("Command succeeded")
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// bindArgs decodes a JSON object into target, rejecting unknown keys.
// An empty body decodes to the zero value.
func bindArgs(body []byte, target any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return &argumentError{err: err}
	}
	return nil
}

func (h *InvokeHandler) greet(body []byte) (any, error) {
	var args struct {
		Name *string `json:"name"`
	}
	if err := bindArgs(body, &args); err != nil {
		return nil, err
	}
	if args.Name == nil {
		return nil, &argumentError{err: fmt.Errorf("missing field `name`")}
	}
	return h.ops.Greet(*args.Name), nil
}

func (h *InvokeHandler) runTerminalCommand(body []byte) (any, error) {
	var args struct {
		Command *string `json:"command"`
	}
	if err := bindArgs(body, &args); err != nil {
		return nil, err
	}
	if args.Command == nil {
		return nil, &argumentError{err: fmt.Errorf("missing field `command`")}
	}
	return h.ops.RunTerminalCommand(*args.Command)
}

func (h *InvokeHandler) saveSettings(body []byte) (any, error) {
	settings, err := lib.DecodeSettings(body)
	if err != nil {
		return nil, &argumentError{err: err}
	}
	if err := h.ops.SaveSettings(settings); err != nil {
		return nil, err
	}
	return nil, nil
}

func (h *InvokeHandler) loadSettings(body []byte) (any, error) {
	if err := bindArgs(body, &struct{}{}); err != nil {
		return nil, err
	}
	return h.ops.LoadSettings()
}

func (h *InvokeHandler) getCaptureOptions(body []byte) (any, error) {
	if err := bindArgs(body, &struct{}{}); err != nil {
		return nil, err
	}
	return h.ops.GetCaptureOptions()
}

func (h *InvokeHandler) selectFolder(body []byte) (any, error) {
	if err := bindArgs(body, &struct{}{}); err != nil {
		return nil, err
	}
	return h.ops.SelectFolder()
}
