package events

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated       EventType = "issue_created"
	EventIssueAssigned      EventType = "issue_assigned"
	EventIssueWaitlisted    EventType = "issue_waitlisted"
	EventIssueResolved      EventType = "issue_resolved"
	EventIssueStatusChanged EventType = "issue_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueID   string      `json:"issue_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueCreatedPayload payload.
type IssueCreatedPayload struct {
	IssueType     domain.IssueType `json:"issue_type"`
	Subject       string           `json:"subject"`
	ReporterEmail string           `json:"reporter_email"`
}

// IssueAssignedPayload payload. Drained marks assignments made by the
// waitlist drain rather than a direct assignment request.
type IssueAssignedPayload struct {
	AgentID string `json:"agent_id"`
	Drained bool   `json:"drained"`
}

// IssueWaitlistedPayload payload.
type IssueWaitlistedPayload struct {
	IssueType domain.IssueType `json:"issue_type"`
	Position  int              `json:"position"`
}

// IssueResolvedPayload payload.
type IssueResolvedPayload struct {
	AgentID    string `json:"agent_id"`
	Resolution string `json:"resolution"`
}

// IssueStatusChangedPayload payload.
type IssueStatusChangedPayload struct {
	OldStatus domain.IssueStatus `json:"old_status"`
	NewStatus domain.IssueStatus `json:"new_status"`
}
