package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// AgentService manages the agent roster.
type AgentService struct {
	agents repository.AgentRepository
	logger *zap.Logger
}

// NewAgentService constructs the service.
func NewAgentService(agents repository.AgentRepository, logger *zap.Logger) *AgentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgentService{agents: agents, logger: logger}
}

// RegisterAgent adds a new free agent with the given expertise.
func (s *AgentService) RegisterAgent(ctx context.Context, name, email string, expertise []domain.IssueType) (*domain.Agent, error) {
	agent, err := s.agents.Register(ctx, name, email, expertise)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("agent registered",
		zap.String("agent_id", agent.ID),
		zap.String("email", agent.Email),
		zap.Int("expertise_count", len(agent.Expertise)))
	return agent, nil
}

// GetAgent fetches an agent by ID.
func (s *AgentService) GetAgent(ctx context.Context, id string) (*domain.Agent, error) {
	agent, err := s.agents.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// ListAgents returns all agents in registration order.
func (s *AgentService) ListAgents(ctx context.Context) ([]*domain.Agent, error) {
	agents, err := s.agents.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}

// WorkHistory returns the agent's resolved-issue log, oldest first.
func (s *AgentService) WorkHistory(ctx context.Context, agentID string) ([]domain.WorkHistoryEntry, error) {
	history, err := s.agents.History(ctx, agentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return history, nil
}
