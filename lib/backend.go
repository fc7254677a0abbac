// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import "fmt"

// Backend holds the operations the front-end can invoke. Each call is
// independent; the settings file is the only state shared between calls.
type Backend struct {
	Executor *Executor
	Store    *Store
	Lister   *CaptureOptionLister
	Chooser  FolderChooser
}

func NewBackend() *Backend {
	return &Backend{
		Executor: NewExecutor(),
		Store:    NewStore(nil),
		Lister:   NewCaptureOptionLister(),
		Chooser:  PortalFolderChooser{},
	}
}

func (b *Backend) Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from Go!", name)
}

func (b *Backend) RunTerminalCommand(command string) (string, error) {
	return b.Executor.Run(command)
}

func (b *Backend) SaveSettings(settings Settings) error {
	return b.Store.Save(settings)
}

func (b *Backend) LoadSettings() (Settings, error) {
	return b.Store.Load()
}

func (b *Backend) GetCaptureOptions() ([]string, error) {
	return b.Lister.List()
}

func (b *Backend) SelectFolder() (string, error) {
	return SelectFolder(b.Chooser)
}
