package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// AssignmentOutcome distinguishes the two valid results of an assignment
// request. Waitlisting is an expected outcome, not a failure.
type AssignmentOutcome string

const (
	OutcomeAssigned   AssignmentOutcome = "ASSIGNED"
	OutcomeWaitlisted AssignmentOutcome = "WAITLISTED"
)

// Operation labels used for error counters.
const (
	opAssign  = "assign_issue"
	opResolve = "resolve_issue"
	opUpdate  = "update_issue_status"
)

// AssignmentResult reports what happened to an assignment request. AgentID
// is set only when Outcome is OutcomeAssigned.
type AssignmentResult struct {
	Outcome AssignmentOutcome
	IssueID string
	AgentID *string
}

// AssignmentService is the resolution coordinator: it binds issues to
// agents, waitlists issues with no free candidate, and on resolution frees
// the agent and pulls the next waitlisted issue of the same type.
//
// A single service-wide mutex makes each operation atomic with respect to
// the others: no caller ever observes an agent busy with no current issue
// or an issue assigned with no agent.
type AssignmentService struct {
	mu         sync.Mutex
	issues     repository.IssueRepository
	agents     repository.AgentRepository
	waitlist   *repository.Waitlist
	policy     AssignmentPolicy
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	IssueRepo  repository.IssueRepository
	AgentRepo  repository.AgentRepository
	Waitlist   *repository.Waitlist
	Policy     AssignmentPolicy
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewAssignmentService creates the service. The policy is fixed for the
// service's lifetime; swap policies by constructing a new service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		issues:     deps.IssueRepo,
		agents:     deps.AgentRepo,
		waitlist:   deps.Waitlist,
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		metrics:    deps.Metrics,
	}
}

// AssignIssue finds an agent for an OPEN issue. If no supporting agent is
// free, the issue is waitlisted on its type's queue and the result says so.
func (s *AssignmentService) AssignIssue(ctx context.Context, issueID string) (*AssignmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		return nil, s.fail(opAssign, err)
	}
	if issue.Status != domain.IssueStatusOpen {
		return nil, s.fail(opAssign, apperrors.NewInvalidTransition("issue is not open for assignment", map[string]any{
			"issue_id": issueID,
			"status":   string(issue.Status),
		}))
	}

	candidates, err := s.agents.FindCandidates(ctx, issue.Type)
	if err != nil {
		return nil, s.fail(opAssign, err)
	}
	var free []*domain.Agent
	for _, agent := range candidates {
		if agent.Available {
			free = append(free, agent)
		}
	}

	if len(free) == 0 {
		s.waitlist.Push(issue.Type, issue.ID)
		position := s.waitlist.Len(issue.Type)
		s.logger.Info("issue waitlisted",
			zap.String("issue_id", issue.ID),
			zap.String("issue_type", string(issue.Type)),
			zap.Int("position", position))
		s.metrics.RecordAssignment(string(OutcomeWaitlisted))
		s.publish(ctx, events.EventIssueWaitlisted, issue.ID, events.IssueWaitlistedPayload{
			IssueType: issue.Type,
			Position:  position,
		})
		return &AssignmentResult{Outcome: OutcomeWaitlisted, IssueID: issue.ID}, nil
	}

	agent := s.policy.SelectAgent(issue.Type, free, candidates)
	if err := s.bind(ctx, issue.ID, agent.ID); err != nil {
		return nil, err
	}
	s.logger.Info("issue assigned",
		zap.String("issue_id", issue.ID),
		zap.String("agent_id", agent.ID),
		zap.String("policy", s.policy.Name()))
	s.metrics.RecordAssignment(string(OutcomeAssigned))
	s.publish(ctx, events.EventIssueAssigned, issue.ID, events.IssueAssignedPayload{AgentID: agent.ID})
	agentID := agent.ID
	return &AssignmentResult{Outcome: OutcomeAssigned, IssueID: issue.ID, AgentID: &agentID}, nil
}

// ResolveIssue closes an ASSIGNED issue, credits the agent's history, frees
// the agent, and drains the waitlist queue of the resolved issue's type: the
// freed agent only reabsorbs work of the kind it just finished; queues for
// its other expertise types are left for future assignment requests. The
// drained issue is bound to the freed agent directly, without a candidate
// search.
func (s *AssignmentService) ResolveIssue(ctx context.Context, issueID, resolutionText string) (*domain.Issue, error) {
	resolutionText = strings.TrimSpace(resolutionText)
	if resolutionText == "" {
		return nil, s.fail(opResolve, apperrors.NewValidationError("resolution text required", map[string]any{"issue_id": issueID}))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		return nil, s.fail(opResolve, err)
	}
	if issue.Status != domain.IssueStatusAssigned {
		return nil, s.fail(opResolve, apperrors.NewInvalidTransition("only assigned issues can be resolved", map[string]any{
			"issue_id": issueID,
			"status":   string(issue.Status),
		}))
	}

	resolved, err := s.issues.SetStatus(ctx, issueID, domain.IssueStatusResolved, &resolutionText, issue.AssigneeID)
	if err != nil {
		return nil, s.fail(opResolve, err)
	}
	agentID := *resolved.AssigneeID
	if err := s.release(ctx, agentID, resolved); err != nil {
		return nil, err
	}
	s.logger.Info("issue resolved",
		zap.String("issue_id", resolved.ID),
		zap.String("agent_id", agentID))
	s.metrics.RecordResolution()
	s.publish(ctx, events.EventIssueResolved, resolved.ID, events.IssueResolvedPayload{
		AgentID:    agentID,
		Resolution: resolutionText,
	})

	if nextID, ok := s.waitlist.Pop(resolved.Type); ok {
		if err := s.bind(ctx, nextID, agentID); err != nil {
			return nil, err
		}
		s.logger.Info("waitlisted issue drained",
			zap.String("issue_id", nextID),
			zap.String("agent_id", agentID),
			zap.String("issue_type", string(resolved.Type)))
		s.metrics.RecordAssignment(string(OutcomeAssigned))
		s.publish(ctx, events.EventIssueAssigned, nextID, events.IssueAssignedPayload{AgentID: agentID, Drained: true})
	}
	return resolved, nil
}

// UpdateIssueStatus is the administrative status setter. It enforces the
// same transition rules as resolution but never drains the waitlist. An
// issue corrected out of OPEN is removed from its queue; resolving through
// this path still credits and frees the assigned agent.
func (s *AssignmentService) UpdateIssueStatus(ctx context.Context, issueID string, status domain.IssueStatus, resolution *string) (*domain.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		return nil, s.fail(opUpdate, err)
	}
	oldStatus := issue.Status
	updated, err := s.issues.SetStatus(ctx, issueID, status, resolution, issue.AssigneeID)
	if err != nil {
		return nil, s.fail(opUpdate, err)
	}
	if oldStatus == domain.IssueStatusOpen && status != domain.IssueStatusOpen {
		s.waitlist.Remove(issueID)
	}
	if status == domain.IssueStatusResolved {
		if err := s.release(ctx, *updated.AssigneeID, updated); err != nil {
			return nil, err
		}
	}
	s.logger.Info("issue status updated",
		zap.String("issue_id", issueID),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(status)))
	s.publish(ctx, events.EventIssueStatusChanged, issueID, events.IssueStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: status,
	})
	return updated, nil
}

// bind marks the agent busy with the issue and the issue assigned to the
// agent. A previously waitlisted issue is dequeued so a retry after new
// agent registrations cannot leave a stale entry behind. Callers hold s.mu.
func (s *AssignmentService) bind(ctx context.Context, issueID, agentID string) error {
	if _, err := s.issues.SetStatus(ctx, issueID, domain.IssueStatusAssigned, nil, &agentID); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.agents.MarkBusy(ctx, agentID, issueID); err != nil {
		return apperrors.MapError(err)
	}
	s.waitlist.Remove(issueID)
	return nil
}

// release appends the resolved summary to the agent's history and frees it.
// Callers hold s.mu.
func (s *AssignmentService) release(ctx context.Context, agentID string, resolved *domain.Issue) error {
	entry := domain.WorkHistoryEntry{
		IssueID:       resolved.ID,
		TransactionID: resolved.TransactionID,
		Type:          resolved.Type,
		Subject:       resolved.Subject,
		Resolution:    *resolved.Resolution,
		ResolvedAt:    *resolved.ResolvedAt,
	}
	if err := s.agents.AppendHistory(ctx, agentID, entry); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.agents.MarkFree(ctx, agentID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// fail normalizes an error and counts it against the operation.
func (s *AssignmentService) fail(operation string, err error) error {
	mapped := apperrors.ToDomainError(err)
	s.metrics.RecordError(operation, mapped.Code)
	return mapped
}

func (s *AssignmentService) publish(ctx context.Context, eventType events.EventType, issueID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		IssueID:   issueID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	_ = s.dispatcher.Publish(ctx, event)
}
