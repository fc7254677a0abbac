// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package lib

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	NotificationsServiceName = "org.freedesktop.Notifications"
	NotificationsObjectPath  = "/org/freedesktop/Notifications"
	NotifyMethod             = "org.freedesktop.Notifications.Notify"
	NotificationAppName      = "flux"
	NotificationTimeoutMs    = int32(5000)
)

func Notify(summary, body string) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	notifications := conn.Object(NotificationsServiceName, NotificationsObjectPath)

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(1)),
	}

	var id uint32
	err = notifications.Call(NotifyMethod, 0,
		NotificationAppName, uint32(0), "", summary, body, []string{}, hints, NotificationTimeoutMs).Store(&id)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
