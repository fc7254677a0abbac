// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/godbus/dbus/v5"
)

const (
	FileChooserOpenFileMethod = "org.freedesktop.portal.FileChooser.OpenFile"
	DefaultFolderDialogTitle  = "Select folder"
)

// ErrNoFolderSelected is returned when the dialog is dismissed without a choice.
var ErrNoFolderSelected = errors.New("No folder selected")

type FolderChooser interface {
	ChooseFolder() (string, error)
}

// PortalFolderChooser opens the desktop's directory picker through
// xdg-desktop-portal and blocks until the user answers.
type PortalFolderChooser struct {
	Title string
}

func (c PortalFolderChooser) ChooseFolder() (string, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return "", fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	title := c.Title
	if title == "" {
		title = DefaultFolderDialogTitle
	}

	options := map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(generateToken()),
		"directory":    dbus.MakeVariant(true),
		"modal":        dbus.MakeVariant(true),
	}

	response, err := portalCall(conn, FileChooserOpenFileMethod, "", title, options)
	if err != nil {
		var responseErr *PortalResponseError
		if errors.As(err, &responseErr) && responseErr.Cancelled() {
			return "", ErrNoFolderSelected
		}
		return "", fmt.Errorf("failed to open folder dialog: %w", err)
	}

	return folderFromResponse(response)
}

func folderFromResponse(response map[string]dbus.Variant) (string, error) {
	urisVariant, ok := response["uris"]
	if !ok {
		return "", ErrNoFolderSelected
	}
	uris, ok := urisVariant.Value().([]string)
	if !ok || len(uris) == 0 {
		return "", ErrNoFolderSelected
	}
	return pathFromURI(uris[0])
}

func pathFromURI(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid folder uri %q: %w", uri, err)
	}
	if parsed.Scheme != "file" {
		return "", fmt.Errorf("unsupported folder uri scheme: %s", parsed.Scheme)
	}
	return parsed.Path, nil
}

func SelectFolder(chooser FolderChooser) (string, error) {
	if chooser == nil {
		return "", fmt.Errorf("no folder chooser available")
	}
	return chooser.ChooseFolder()
}
