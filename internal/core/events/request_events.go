package events

import (
	"time"

	"github.com/google/uuid"
)

// EventTypeRequestsChanged signals that the equipment request collection
// changed. Consumers refetch the collection; the event carries no state.
const EventTypeRequestsChanged = "requests.changed"

const (
	RequestChangeSubmitted = "submitted"
	RequestChangeResponded = "responded"
	RequestChangeDeleted   = "deleted"
)

type RequestsChangedEvent struct {
	BaseEvent
	RequestID int64  `json:"request_id"`
	Change    string `json:"change"`
}

func NewRequestsChangedEvent(requestID int64, change string) *RequestsChangedEvent {
	return &RequestsChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRequestsChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id": requestID,
				"change":     change,
			},
		},
		RequestID: requestID,
		Change:    change,
	}
}
