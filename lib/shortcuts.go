// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/godbus/dbus/v5"
)

const (
	GlobalShortcutsPortal = "org.freedesktop.portal.GlobalShortcuts"
	ClipShortcutID        = "save-clip"
)

type shortcutStruct struct {
	ID   string
	Data map[string]dbus.Variant
}

var modifierMap = map[string]string{
	"ctrl":    "Control",
	"control": "Control",
	"alt":     "Alt",
	"shift":   "Shift",
	"super":   "Super",
	"meta":    "Super",
	"win":     "Super",
}

// evdev modifier names as stored in clip_hotkey.
var keyNameModifiers = map[string]string{
	"KEY_LEFTALT":    "alt",
	"KEY_RIGHTALT":   "alt",
	"KEY_LEFTCTRL":   "ctrl",
	"KEY_RIGHTCTRL":  "ctrl",
	"KEY_LEFTSHIFT":  "shift",
	"KEY_RIGHTSHIFT": "shift",
	"KEY_LEFTMETA":   "super",
	"KEY_RIGHTMETA":  "super",
}

// ParseShortcut converts "alt+z" style input to a portal trigger such as "<Alt>Z".
func ParseShortcut(shortcut string) (string, error) {
	normalized := strings.TrimSpace(strings.ReplaceAll(shortcut, " + ", "+"))
	if normalized == "" {
		return "", fmt.Errorf("empty shortcut")
	}

	var modifiers []string
	var key string

	for _, part := range strings.Split(normalized, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			return "", fmt.Errorf("invalid shortcut format: %s", shortcut)
		}

		if modifier, ok := modifierMap[strings.ToLower(part)]; ok {
			modifiers = append(modifiers, modifier)
			continue
		}
		if key != "" {
			return "", fmt.Errorf("multiple keys specified: %s and %s", key, part)
		}
		if len(part) == 1 {
			key = strings.ToUpper(part)
		} else {
			key = part
		}
	}

	if key == "" {
		return "", fmt.Errorf("no key specified in shortcut")
	}

	var builder strings.Builder
	for _, mod := range modifiers {
		builder.WriteString("<")
		builder.WriteString(mod)
		builder.WriteString(">")
	}
	builder.WriteString(key)

	return builder.String(), nil
}

// TriggerFromKeyNames converts a clip_hotkey chord like
// ["KEY_LEFTALT", "KEY_Z"] to a portal trigger.
func TriggerFromKeyNames(keys []string) (string, error) {
	if len(keys) == 0 {
		return "", fmt.Errorf("empty shortcut")
	}

	parts := make([]string, 0, len(keys))
	for _, name := range keys {
		if modifier, ok := keyNameModifiers[strings.ToUpper(name)]; ok {
			parts = append(parts, modifier)
			continue
		}
		parts = append(parts, strings.TrimPrefix(strings.ToUpper(name), "KEY_"))
	}

	return ParseShortcut(strings.Join(parts, "+"))
}

func createShortcutSession(conn *dbus.Conn) (dbus.ObjectPath, error) {
	sessionOptions := map[string]dbus.Variant{
		"session_handle_token": dbus.MakeVariant(generateToken()),
		"handle_token":         dbus.MakeVariant(generateToken()),
	}

	response, err := portalCall(conn, GlobalShortcutsPortal+".CreateSession", sessionOptions)
	if err != nil {
		return "", fmt.Errorf("failed to create shortcuts session: %w", err)
	}

	sessionHandle, ok := response["session_handle"].Value().(string)
	if !ok {
		return "", fmt.Errorf("portal returned no session handle")
	}
	return dbus.ObjectPath(sessionHandle), nil
}

func bindShortcut(conn *dbus.Conn, sessionPath dbus.ObjectPath, trigger, description string) error {
	shortcuts := []shortcutStruct{{
		ID: ClipShortcutID,
		Data: map[string]dbus.Variant{
			"description":       dbus.MakeVariant(description),
			"preferred_trigger": dbus.MakeVariant(trigger),
		},
	}}

	bindOptions := map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(generateToken()),
	}

	response, err := portalCall(conn, GlobalShortcutsPortal+".BindShortcuts", sessionPath, shortcuts, "", bindOptions)
	if err != nil {
		return fmt.Errorf("failed to bind shortcut: %w", err)
	}

	if bound, ok := response["shortcuts"].Value().([][]interface{}); ok && len(bound) > 0 {
		fmt.Printf("Shortcut registered: %s\n", trigger)
	}
	return nil
}

func listenForActivation(conn *dbus.Conn, sessionPath dbus.ObjectPath) error {
	signalChannel := make(chan *dbus.Signal, 10)
	conn.Signal(signalChannel)
	defer conn.RemoveSignal(signalChannel)

	matchOptions := []dbus.MatchOption{
		dbus.WithMatchInterface(GlobalShortcutsPortal),
		dbus.WithMatchMember("Activated"),
	}
	if err := conn.AddMatchSignal(matchOptions...); err != nil {
		return fmt.Errorf("failed to subscribe to shortcut activations: %w", err)
	}
	defer conn.RemoveMatchSignal(matchOptions...)

	fmt.Println("Listening for shortcut activation... (Press Ctrl+C to stop)")

	for signal := range signalChannel {
		if signal.Name != GlobalShortcutsPortal+".Activated" || len(signal.Body) < 2 {
			continue
		}
		if session, ok := signal.Body[0].(dbus.ObjectPath); ok && session != sessionPath {
			continue
		}
		if id, ok := signal.Body[1].(string); ok && id == ClipShortcutID {
			handleShortcutActivation()
		}
	}

	return nil
}

func handleShortcutActivation() {
	pid, err := findRecorderProcess()
	if err != nil {
		fmt.Printf("Failed to find recorder process: %v\n", err)
		return
	}

	if err := SaveClip(pid); err != nil {
		fmt.Printf("Failed to signal recorder %d: %v\n", pid, err)
		return
	}

	fmt.Printf("Clip signal sent to process %d\n", pid)
	if err := Notify("Clip saved", "The replay buffer was saved"); err != nil {
		fmt.Printf("Failed to send notification: %v\n", err)
	}
}

// SaveClip asks a gpu-screen-recorder replay process to write its buffer to disk.
func SaveClip(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return process.Signal(syscall.SIGUSR1)
}

func findRecorderProcess() (int, error) {
	if pid, err := pidFromFile(RecorderPidFilePath()); err == nil {
		return pid, nil
	}

	if pid, err := pidFromProcScan(); err == nil {
		return pid, nil
	}

	return 0, fmt.Errorf("no replay recorder running; start one with 'flux record'")
}

func pidFromFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, err
	}

	cmdline, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil || !isReplayCmdline(cmdline) {
		return 0, fmt.Errorf("pid file does not point to a replay recorder")
	}

	return pid, nil
}

func pidFromProcScan() (int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return 0, err
	}

	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		cmdline, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
		if err == nil && isReplayCmdline(cmdline) {
			return pid, nil
		}
	}

	return 0, fmt.Errorf("no replay recorder in /proc")
}

// isReplayCmdline reports whether a NUL-separated /proc cmdline belongs to a
// gpu-screen-recorder running with a replay buffer (-r).
func isReplayCmdline(cmdline []byte) bool {
	args := bytes.Split(bytes.TrimRight(cmdline, "\x00"), []byte{0})
	if len(args) == 0 || filepath.Base(string(args[0])) != RecorderCommand {
		return false
	}
	for _, arg := range args[1:] {
		if string(arg) == "-r" {
			return true
		}
	}
	return false
}

// RegisterShortcut binds trigger through the GlobalShortcuts portal and
// saves a clip every time it fires. It blocks for the life of the session.
func RegisterShortcut(trigger, description string) error {
	if trigger == "" {
		return fmt.Errorf("empty shortcut")
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	sessionPath, err := createShortcutSession(conn)
	if err != nil {
		return err
	}

	if err := bindShortcut(conn, sessionPath, trigger, description); err != nil {
		return err
	}

	return listenForActivation(conn, sessionPath)
}
