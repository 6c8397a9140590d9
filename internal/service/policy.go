package service

import (
	"fmt"
	"sync"

	"github.com/spec-kit/support-desk/internal/domain"
)

// AssignmentPolicy selects one agent for an issue. free holds the eligible
// agents that are currently available; all holds every agent supporting the
// type, busy or not, so that position-based strategies can keep a stable
// cursor. Both slices preserve registration order and free is never empty.
// Selection must be deterministic given the same inputs and policy state.
type AssignmentPolicy interface {
	Name() string
	SelectAgent(issueType domain.IssueType, free, all []*domain.Agent) *domain.Agent
}

// PolicyForKind builds the policy matching the configured kind.
func PolicyForKind(kind domain.AssignmentPolicyKind) (AssignmentPolicy, error) {
	switch kind {
	case domain.PolicyLeastWorkload:
		return NewLeastWorkloadPolicy(), nil
	case domain.PolicyRoundRobin:
		return NewRoundRobinPolicy(), nil
	}
	return nil, fmt.Errorf("unsupported assignment policy %q", kind)
}

type leastWorkloadPolicy struct{}

// NewLeastWorkloadPolicy picks the free agent with the fewest resolved
// issues. Ties go to the earliest-registered agent.
func NewLeastWorkloadPolicy() AssignmentPolicy {
	return leastWorkloadPolicy{}
}

func (leastWorkloadPolicy) Name() string {
	return string(domain.PolicyLeastWorkload)
}

func (leastWorkloadPolicy) SelectAgent(issueType domain.IssueType, free, all []*domain.Agent) *domain.Agent {
	best := free[0]
	for _, agent := range free[1:] {
		if agent.Workload() < best.Workload() {
			best = agent
		}
	}
	return best
}

type roundRobinPolicy struct {
	mu sync.Mutex
	// cursor holds, per issue type, the index of the previously chosen
	// agent within the full supporting roster.
	cursor map[domain.IssueType]int
}

// NewRoundRobinPolicy rotates through the full roster of agents supporting
// a type, skipping busy ones. Cursor state lives on the policy value, so a
// reconstructed service starts the rotation over.
func NewRoundRobinPolicy() AssignmentPolicy {
	return &roundRobinPolicy{
		cursor: make(map[domain.IssueType]int),
	}
}

func (*roundRobinPolicy) Name() string {
	return string(domain.PolicyRoundRobin)
}

func (p *roundRobinPolicy) SelectAgent(issueType domain.IssueType, free, all []*domain.Agent) *domain.Agent {
	freeIDs := make(map[string]*domain.Agent, len(free))
	for _, agent := range free {
		freeIDs[agent.ID] = agent
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	last, seen := p.cursor[issueType]
	if !seen {
		last = -1
	}
	for step := 1; step <= len(all); step++ {
		idx := (last + step) % len(all)
		if agent, ok := freeIDs[all[idx].ID]; ok {
			p.cursor[issueType] = idx
			return agent
		}
	}
	// free is a subset of all, so the scan above always hits.
	return free[0]
}
