// File: internal/domain/user.go
package domain

import "github.com/google/uuid"

// User identifies the current session. IsCloud=false keeps all persistence
// local to the device; IsCloud=true additionally targets the remote store
// under partition key ID.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	IsCloud bool   `json:"isCloud"`
}

// NewLocalUser creates a device-local user with a fresh identity.
func NewLocalUser(name string) User {
	return User{
		ID:      uuid.NewString(),
		Name:    name,
		IsCloud: false,
	}
}
