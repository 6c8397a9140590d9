package domain

import "time"

// Agent models a support agent able to work issues of its expertise types.
type Agent struct {
	ID             string
	Name           string
	Email          string
	Expertise      []IssueType
	Available      bool
	CurrentIssueID *string
	History        []WorkHistoryEntry
	CreatedAt      time.Time
}

// Supports reports whether the agent can work issues of the given type.
func (a *Agent) Supports(t IssueType) bool {
	for _, e := range a.Expertise {
		if e == t {
			return true
		}
	}
	return false
}

// Workload is the number of issues the agent has resolved so far. It is the
// signal the least-workload policy ranks candidates by.
func (a *Agent) Workload() int {
	return len(a.History)
}

// WorkHistoryEntry is an immutable summary of a resolved issue, appended to
// an agent's history when the issue is resolved.
type WorkHistoryEntry struct {
	IssueID       string
	TransactionID string
	Type          IssueType
	Subject       string
	Resolution    string
	ResolvedAt    time.Time
}
