package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// AgentRepository holds agent records and their availability state.
//
// Implementations are safe for concurrent use. Returned agents are copies;
// mutating them does not affect stored state.
type AgentRepository interface {
	Register(ctx context.Context, name, email string, expertise []domain.IssueType) (*domain.Agent, error)
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	GetByEmail(ctx context.Context, email string) (*domain.Agent, error)
	// FindCandidates returns every agent whose expertise includes issueType,
	// regardless of availability, in registration order.
	FindCandidates(ctx context.Context, issueType domain.IssueType) ([]*domain.Agent, error)
	MarkBusy(ctx context.Context, agentID, issueID string) error
	MarkFree(ctx context.Context, agentID string) error
	AppendHistory(ctx context.Context, agentID string, entry domain.WorkHistoryEntry) error
	History(ctx context.Context, agentID string) ([]domain.WorkHistoryEntry, error)
	List(ctx context.Context) ([]*domain.Agent, error)
}

type agentRepository struct {
	mu      sync.RWMutex
	agents  map[string]*domain.Agent
	byEmail map[string]string
	order   []string
}

// NewAgentRepository instantiates an in-memory repository.
func NewAgentRepository() AgentRepository {
	return &agentRepository{
		agents:  make(map[string]*domain.Agent),
		byEmail: make(map[string]string),
	}
}

func (r *agentRepository) Register(ctx context.Context, name, email string, expertise []domain.IssueType) (*domain.Agent, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, apperrors.NewValidationError("agent name required", nil)
	}
	if email == "" {
		return nil, apperrors.NewValidationError("agent email required", nil)
	}
	if len(expertise) == 0 {
		return nil, apperrors.NewValidationError("expertise set must not be empty", map[string]any{"email": email})
	}
	seen := make(map[domain.IssueType]struct{}, len(expertise))
	deduped := make([]domain.IssueType, 0, len(expertise))
	for _, t := range expertise {
		if !t.Valid() {
			return nil, apperrors.NewValidationError("unknown issue type in expertise", map[string]any{"issue_type": string(t)})
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		deduped = append(deduped, t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[email]; exists {
		return nil, apperrors.NewValidationError("agent email already registered", map[string]any{"email": email})
	}
	agent := &domain.Agent{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Expertise: deduped,
		Available: true,
		CreatedAt: time.Now(),
	}
	r.agents[agent.ID] = agent
	r.byEmail[email] = agent.ID
	r.order = append(r.order, agent.ID)
	return cloneAgent(agent), nil
}

func (r *agentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[id]
	if !ok {
		return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": id})
	}
	return cloneAgent(agent), nil
}

func (r *agentRepository) GetByEmail(ctx context.Context, email string) (*domain.Agent, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.NewNotFound("agent", map[string]any{"email": email})
	}
	return cloneAgent(r.agents[id]), nil
}

func (r *agentRepository) FindCandidates(ctx context.Context, issueType domain.IssueType) ([]*domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Agent
	for _, id := range r.order {
		agent := r.agents[id]
		if agent.Supports(issueType) {
			out = append(out, cloneAgent(agent))
		}
	}
	return out, nil
}

func (r *agentRepository) MarkBusy(ctx context.Context, agentID, issueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	agent, ok := r.agents[agentID]
	if !ok {
		return apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
	}
	if !agent.Available || agent.CurrentIssueID != nil {
		return apperrors.NewInvariantViolation("agent already busy", map[string]any{
			"agent_id": agentID,
			"issue_id": issueID,
		})
	}
	agent.Available = false
	agent.CurrentIssueID = &issueID
	return nil
}

func (r *agentRepository) MarkFree(ctx context.Context, agentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	agent, ok := r.agents[agentID]
	if !ok {
		return apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
	}
	if agent.Available || agent.CurrentIssueID == nil {
		return apperrors.NewInvariantViolation("agent not busy", map[string]any{"agent_id": agentID})
	}
	agent.Available = true
	agent.CurrentIssueID = nil
	return nil
}

func (r *agentRepository) AppendHistory(ctx context.Context, agentID string, entry domain.WorkHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	agent, ok := r.agents[agentID]
	if !ok {
		return apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
	}
	agent.History = append(agent.History, entry)
	return nil
}

func (r *agentRepository) History(ctx context.Context, agentID string) ([]domain.WorkHistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[agentID]
	if !ok {
		return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
	}
	out := make([]domain.WorkHistoryEntry, len(agent.History))
	copy(out, agent.History)
	return out, nil
}

func (r *agentRepository) List(ctx context.Context) ([]*domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Agent, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneAgent(r.agents[id]))
	}
	return out, nil
}

func cloneAgent(a *domain.Agent) *domain.Agent {
	clone := *a
	clone.Expertise = make([]domain.IssueType, len(a.Expertise))
	copy(clone.Expertise, a.Expertise)
	clone.History = make([]domain.WorkHistoryEntry, len(a.History))
	copy(clone.History, a.History)
	if a.CurrentIssueID != nil {
		id := *a.CurrentIssueID
		clone.CurrentIssueID = &id
	}
	return &clone
}
