package notifications

import "errors"

var ErrNotificationNotFound = errors.New("Notification not found")
