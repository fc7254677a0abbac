// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"simon-weij/flux/lib"
	"strings"
	"testing"
)

func useTestBackend(t *testing.T) *lib.Backend {
	t.Helper()
	base := t.TempDir()
	backend := &lib.Backend{
		Executor: lib.NewExecutor(),
		Store:    lib.NewStore(func() (string, error) { return base, nil }),
		Lister:   lib.NewCaptureOptionLister(),
	}

	previous := newBackend
	newBackend = func() *lib.Backend { return backend }
	t.Cleanup(func() { newBackend = previous })
	return backend
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGreetCommand(t *testing.T) {
	useTestBackend(t)

	out, err := execute(t, "greet", "flux")
	if err != nil {
		t.Fatalf("greet returned error: %v", err)
	}
	if out != "Hello, flux! You've been greeted from Go!\n" {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestRunCommand(t *testing.T) {
	useTestBackend(t)

	out, err := execute(t, "run", "echo hello")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if out != "hello\n" {
		t.Errorf("Unexpected output %q", out)
	}

	if _, err := execute(t, "run", "exit 1"); err == nil {
		t.Error("Expected error for failing command")
	}
}

func TestSettingsSaveAndLoadCommands(t *testing.T) {
	backend := useTestBackend(t)

	out, err := execute(t, "settings", "load")
	if err != nil {
		t.Fatalf("settings load returned error: %v", err)
	}
	if !strings.Contains(out, `"backend": "gpu-screen-recorder"`) {
		t.Errorf("Expected defaults, got %s", out)
	}

	if _, err := execute(t, "settings", "save", "--backend", "obs", "--framerate", "144", "--clip-hotkey", "KEY_LEFTCTRL,KEY_F9"); err != nil {
		t.Fatalf("settings save returned error: %v", err)
	}

	saved, err := backend.Store.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := lib.DefaultSettings()
	want.Backend = "obs"
	want.Framerate = 144
	want.ClipHotkey = []string{"KEY_LEFTCTRL", "KEY_F9"}
	if !reflect.DeepEqual(saved, want) {
		t.Errorf("Saved settings %+v, want %+v", saved, want)
	}
}

func TestSettingsSaveReplacesCorruptFile(t *testing.T) {
	backend := useTestBackend(t)

	settingsPath, err := backend.Store.Path()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(settingsPath, []byte("{garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "settings", "save", "--backend", "obs")
	if err != nil {
		t.Fatalf("settings save returned error: %v", err)
	}
	if !strings.Contains(out, "Settings saved") {
		t.Errorf("Unexpected output %q", out)
	}

	saved, err := backend.Store.Load()
	if err != nil {
		t.Fatalf("Saved file should load, got %v", err)
	}
	if saved.Backend != "obs" {
		t.Errorf("Expected backend obs, got %q", saved.Backend)
	}
}

func TestResolveTriggerFromSettings(t *testing.T) {
	useTestBackend(t)

	trigger, err := resolveTrigger("")
	if err != nil {
		t.Fatalf("resolveTrigger returned error: %v", err)
	}
	if trigger != "<Alt>Z" {
		t.Errorf("Expected default hotkey trigger, got %q", trigger)
	}

	trigger, err = resolveTrigger("ctrl+shift+r")
	if err != nil || trigger != "<Control><Shift>R" {
		t.Errorf("resolveTrigger(flag) = %q, %v", trigger, err)
	}
}

func TestDefaultServeAddr(t *testing.T) {
	t.Setenv("FLUX_ADDR", "127.0.0.1:9000")
	if got := defaultServeAddr(); got != "127.0.0.1:9000" {
		t.Errorf("defaultServeAddr() = %q", got)
	}

	t.Setenv("FLUX_ADDR", "")
	if got := defaultServeAddr(); got != "127.0.0.1:7878" {
		t.Errorf("defaultServeAddr() = %q", got)
	}
}
