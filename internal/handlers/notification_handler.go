// File: internal/handlers/notification_handler.go
package handlers

import (
	"net/http"
	"sync"

	statesync "github.com/ampersand-labs/homework/internal/sync"
)

const notificationBufferCap = 50

// NotificationBuffer collects transient notifications from background sync
// until the client polls them. Reading drains the buffer, which is what
// makes the notifications auto-dismissing.
type NotificationBuffer struct {
	mu      sync.Mutex
	pending []statesync.Notification
}

func NewNotificationBuffer() *NotificationBuffer {
	return &NotificationBuffer{}
}

// Push adds a notification, dropping the oldest when full. Safe for use as
// the coordinator's notify callback.
func (b *NotificationBuffer) Push(n statesync.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) >= notificationBufferCap {
		b.pending = b.pending[1:]
	}
	b.pending = append(b.pending, n)
}

// Drain returns and clears the pending notifications.
func (b *NotificationBuffer) Drain() []statesync.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.pending
	b.pending = nil
	return out
}

// PollNotifications returns pending notifications and clears them.
func (b *NotificationBuffer) PollNotifications(w http.ResponseWriter, r *http.Request) {
	notifications := b.Drain()
	if notifications == nil {
		notifications = []statesync.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}
