package response

import "film-social/internal/data/entity"

type EventResponse struct {
	ID        string `json:"eventId"`
	Timestamp int64  `json:"timestamp"` // epoch millis
	UserID    string `json:"userId"`
	EventType string `json:"eventType"`
	Operation string `json:"operation"`
	EntityID  string `json:"entityId"`
}

func EventToResponse(event *entity.UserEvent) EventResponse {
	return EventResponse{
		ID:        event.ID.String(),
		Timestamp: event.Timestamp.UnixMilli(),
		UserID:    event.UserID.String(),
		EventType: string(event.EventType),
		Operation: string(event.Operation),
		EntityID:  event.EntityID.String(),
	}
}
