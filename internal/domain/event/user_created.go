package event

import (
	"context"
	"encoding/json"
)

// UserCreatedName is the event category published after a user row is committed.
const UserCreatedName = "user.created"

// UserCreated is the minimal projection sent to the broker.
type UserCreated struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// Body returns the JSON wire body.
func (e UserCreated) Body() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers a UserCreated event to a broker destination.
type Publisher interface {
	PublishUserCreated(ctx context.Context, evt UserCreated) error
}
