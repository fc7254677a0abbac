// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"errors"
	"strings"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestParseResponseSuccess(t *testing.T) {
	results := map[string]dbus.Variant{"session_handle": dbus.MakeVariant("/session/1")}

	got, err := parseResponse([]interface{}{uint32(0), results})
	if err != nil {
		t.Fatalf("parseResponse returned error: %v", err)
	}
	if got["session_handle"].Value() != "/session/1" {
		t.Errorf("Unexpected results: %v", got)
	}
}

func TestParseResponseCodes(t *testing.T) {
	tests := []struct {
		code      uint32
		cancelled bool
	}{
		{PortalResponseCancelled, true},
		{PortalResponseOther, false},
	}

	for _, tt := range tests {
		_, err := parseResponse([]interface{}{tt.code, map[string]dbus.Variant{}})
		var responseErr *PortalResponseError
		if !errors.As(err, &responseErr) {
			t.Fatalf("Expected *PortalResponseError for code %d, got %v", tt.code, err)
		}
		if responseErr.Cancelled() != tt.cancelled {
			t.Errorf("Code %d: Cancelled() = %v", tt.code, responseErr.Cancelled())
		}
	}
}

func TestParseResponseMalformed(t *testing.T) {
	bodies := [][]interface{}{
		nil,
		{uint32(0)},
		{"0", map[string]dbus.Variant{}},
		{uint32(0), "results"},
	}

	for _, body := range bodies {
		if _, err := parseResponse(body); err == nil {
			t.Errorf("Expected error for body %v", body)
		}
	}
}

func TestWaitForResponseMatchesPath(t *testing.T) {
	signals := make(chan *dbus.Signal, 3)
	signals <- &dbus.Signal{Path: "/other", Name: PortalRequest + ".Response", Body: []interface{}{uint32(2), map[string]dbus.Variant{}}}
	signals <- &dbus.Signal{Path: "/request/1", Name: "org.example.Unrelated", Body: []interface{}{uint32(2)}}
	signals <- &dbus.Signal{Path: "/request/1", Name: PortalRequest + ".Response", Body: []interface{}{uint32(0), map[string]dbus.Variant{}}}
	close(signals)

	if _, err := waitForResponse(signals, "/request/1"); err != nil {
		t.Errorf("Expected matching response, got %v", err)
	}
}

func TestWaitForResponseClosedChannel(t *testing.T) {
	signals := make(chan *dbus.Signal)
	close(signals)

	if _, err := waitForResponse(signals, "/request/1"); err == nil {
		t.Error("Expected error when no response arrives")
	}
}

func TestGenerateTokenIsValidPathElement(t *testing.T) {
	token := generateToken()
	if !strings.HasPrefix(token, "flux") {
		t.Errorf("Unexpected token %q", token)
	}
	for _, r := range token {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			t.Fatalf("Token %q contains %q", token, r)
		}
	}
	if generateToken() == token {
		t.Error("Expected unique tokens")
	}
}
