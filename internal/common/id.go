package common

import (
	"github.com/google/uuid"
)

// NewCallID generates a unique tool-call correlation ID with the "call_" prefix
// Format: call_<uuid>
func NewCallID() string {
	return "call_" + uuid.New().String()
}
