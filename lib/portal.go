// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"
)

const (
	PortalServiceName = "org.freedesktop.portal.Desktop"
	PortalObjectPath  = "/org/freedesktop/portal/desktop"
	PortalRequest     = "org.freedesktop.portal.Request"
)

// Response codes of org.freedesktop.portal.Request.Response.
const (
	PortalResponseSuccess   uint32 = 0
	PortalResponseCancelled uint32 = 1
	PortalResponseOther     uint32 = 2
)

type PortalResponseError struct {
	Code uint32
}

func (e *PortalResponseError) Error() string {
	return fmt.Sprintf("portal request failed with code %d", e.Code)
}

func (e *PortalResponseError) Cancelled() bool {
	return e.Code == PortalResponseCancelled
}

func generateToken() string {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Sprintf("flux%d", os.Getpid())
	}
	return "flux" + hex.EncodeToString(randomBytes)
}

// portalCall invokes a portal method that returns a Request handle and blocks
// until the matching Response signal arrives. The subscription is set up
// before the call so a fast response cannot be missed.
func portalCall(conn *dbus.Conn, method string, args ...interface{}) (map[string]dbus.Variant, error) {
	if conn == nil {
		return nil, fmt.Errorf("nil connection")
	}

	signalChannel := make(chan *dbus.Signal, 10)
	conn.Signal(signalChannel)
	defer conn.RemoveSignal(signalChannel)

	matchOptions := []dbus.MatchOption{
		dbus.WithMatchInterface(PortalRequest),
		dbus.WithMatchMember("Response"),
	}
	if err := conn.AddMatchSignal(matchOptions...); err != nil {
		return nil, fmt.Errorf("failed to subscribe to portal responses: %w", err)
	}
	defer conn.RemoveMatchSignal(matchOptions...)

	var requestPath dbus.ObjectPath
	desktopPortal := conn.Object(PortalServiceName, PortalObjectPath)
	if err := desktopPortal.Call(method, 0, args...).Store(&requestPath); err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}

	return waitForResponse(signalChannel, requestPath)
}

func waitForResponse(signalChannel <-chan *dbus.Signal, path dbus.ObjectPath) (map[string]dbus.Variant, error) {
	if path == "" {
		return nil, fmt.Errorf("empty object path")
	}

	for signal := range signalChannel {
		if signal.Path != path || signal.Name != PortalRequest+".Response" {
			continue
		}
		return parseResponse(signal.Body)
	}
	return nil, fmt.Errorf("no response received from portal")
}

func parseResponse(body []interface{}) (map[string]dbus.Variant, error) {
	if len(body) < 2 {
		return nil, fmt.Errorf("invalid signal body")
	}
	responseCode, ok := body[0].(uint32)
	if !ok {
		return nil, fmt.Errorf("invalid response code %v", body[0])
	}
	if responseCode != PortalResponseSuccess {
		return nil, &PortalResponseError{Code: responseCode}
	}
	responseData, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("invalid response results")
	}
	return responseData, nil
}
