package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	TeacherCreated         EventType = "teacher.created"
	TeacherInvited         EventType = "teacher.invited"
	TeacherUpdated         EventType = "teacher.updated"
	WorkSubmitted          EventType = "work.submitted"
	WorkReviewed           EventType = "work.reviewed"
	PasswordResetRequested EventType = "auth.password_reset_requested"
)

const (
	EventSource  = "school-admin-service"
	EventVersion = "1.0"
)

// Event is the envelope published for every domain change.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	SubjectID string                 `json:"subject_id"`
	ActorID   string                 `json:"actor_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

func NewEvent(eventType EventType, subjectID, actorID string, data map[string]interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		SubjectID: subjectID,
		ActorID:   actorID,
		Data:      data,
	}
}
