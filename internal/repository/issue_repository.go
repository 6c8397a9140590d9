package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// IssueFilter captures search parameters. Unset fields match every issue;
// set fields are combined as a conjunction.
type IssueFilter struct {
	ID            *string
	ReporterEmail *string
	Type          *domain.IssueType
	Status        *domain.IssueStatus
	AssigneeID    *string
}

// IssueRepository holds issue records and enforces their lifecycle
// transitions. Implementations are safe for concurrent use and return
// copies of stored issues.
type IssueRepository interface {
	Create(ctx context.Context, transactionID string, issueType domain.IssueType, subject, description, reporterEmail string) (*domain.Issue, error)
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	// SetStatus applies a lifecycle transition. ASSIGNED requires an
	// assignee; RESOLVED requires a resolution text and stamps ResolvedAt.
	SetStatus(ctx context.Context, id string, status domain.IssueStatus, resolution, assigneeID *string) (*domain.Issue, error)
	// ListWithFilter scans issues in insertion order; O(number of issues).
	ListWithFilter(ctx context.Context, filter IssueFilter) ([]*domain.Issue, error)
}

type issueRepository struct {
	mu     sync.RWMutex
	issues map[string]*domain.Issue
	order  []string
}

// NewIssueRepository instantiates an in-memory repository.
func NewIssueRepository() IssueRepository {
	return &issueRepository{
		issues: make(map[string]*domain.Issue),
	}
}

func (r *issueRepository) Create(ctx context.Context, transactionID string, issueType domain.IssueType, subject, description, reporterEmail string) (*domain.Issue, error) {
	if !issueType.Valid() {
		return nil, apperrors.NewValidationError("unknown issue type", map[string]any{"issue_type": string(issueType)})
	}
	issue := &domain.Issue{
		ID:            uuid.NewString(),
		TransactionID: transactionID,
		Type:          issueType,
		Subject:       subject,
		Description:   description,
		ReporterEmail: reporterEmail,
		Status:        domain.IssueStatusOpen,
		CreatedAt:     time.Now(),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issues[issue.ID] = issue
	r.order = append(r.order, issue.ID)
	return cloneIssue(issue), nil
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	issue, ok := r.issues[id]
	if !ok {
		return nil, apperrors.NewNotFound("issue", map[string]any{"issue_id": id})
	}
	return cloneIssue(issue), nil
}

func (r *issueRepository) SetStatus(ctx context.Context, id string, status domain.IssueStatus, resolution, assigneeID *string) (*domain.Issue, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown issue status", map[string]any{"status": string(status)})
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.issues[id]
	if !ok {
		return nil, apperrors.NewNotFound("issue", map[string]any{"issue_id": id})
	}
	if !transitionAllowed(issue.Status, status) {
		return nil, apperrors.NewInvalidTransition("illegal status transition", map[string]any{
			"issue_id": id,
			"from":     string(issue.Status),
			"to":       string(status),
		})
	}
	switch status {
	case domain.IssueStatusAssigned:
		if assigneeID == nil || *assigneeID == "" {
			return nil, apperrors.NewInvalidTransition("assignment requires an agent", map[string]any{"issue_id": id})
		}
		agentID := *assigneeID
		issue.AssigneeID = &agentID
	case domain.IssueStatusResolved:
		if resolution == nil || *resolution == "" {
			return nil, apperrors.NewInvalidTransition("resolution text required", map[string]any{"issue_id": id})
		}
		if issue.AssigneeID == nil {
			return nil, apperrors.NewInvariantViolation("resolving issue with no assignee", map[string]any{"issue_id": id})
		}
		text := *resolution
		now := time.Now()
		issue.Resolution = &text
		issue.ResolvedAt = &now
	}
	issue.Status = status
	return cloneIssue(issue), nil
}

func (r *issueRepository) ListWithFilter(ctx context.Context, filter IssueFilter) ([]*domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Issue
	for _, id := range r.order {
		issue := r.issues[id]
		if !matchesFilter(issue, filter) {
			continue
		}
		out = append(out, cloneIssue(issue))
	}
	return out, nil
}

func transitionAllowed(from, to domain.IssueStatus) bool {
	switch from {
	case domain.IssueStatusOpen:
		return to == domain.IssueStatusAssigned
	case domain.IssueStatusAssigned:
		return to == domain.IssueStatusResolved
	}
	// RESOLVED is terminal.
	return false
}

func matchesFilter(issue *domain.Issue, filter IssueFilter) bool {
	if filter.ID != nil && issue.ID != *filter.ID {
		return false
	}
	if filter.ReporterEmail != nil && issue.ReporterEmail != *filter.ReporterEmail {
		return false
	}
	if filter.Type != nil && issue.Type != *filter.Type {
		return false
	}
	if filter.Status != nil && issue.Status != *filter.Status {
		return false
	}
	if filter.AssigneeID != nil {
		if issue.AssigneeID == nil || *issue.AssigneeID != *filter.AssigneeID {
			return false
		}
	}
	return true
}

func cloneIssue(i *domain.Issue) *domain.Issue {
	clone := *i
	if i.AssigneeID != nil {
		id := *i.AssigneeID
		clone.AssigneeID = &id
	}
	if i.Resolution != nil {
		text := *i.Resolution
		clone.Resolution = &text
	}
	if i.ResolvedAt != nil {
		at := *i.ResolvedAt
		clone.ResolvedAt = &at
	}
	return &clone
}
