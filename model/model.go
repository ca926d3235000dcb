package model

import (
	"time"

	"github.com/google/uuid"
)

// StatusCheck records that a client reached the API.
type StatusCheck struct {
	ID         string    `json:"id" bson:"id"`
	ClientName string    `json:"client_name" bson:"client_name"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

// StatusCheckCreate is the request body for creating a StatusCheck.
type StatusCheckCreate struct {
	ClientName string `json:"client_name"`
}

// NewStatusCheck stamps a new check with a random ID and the current UTC time.
func NewStatusCheck(clientName string) *StatusCheck {
	return &StatusCheck{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  time.Now().UTC(),
	}
}
