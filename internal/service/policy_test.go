package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
)

func testAgent(id string, history int) *domain.Agent {
	agent := &domain.Agent{
		ID:        id,
		Name:      id,
		Email:     id + "@desk.test",
		Expertise: []domain.IssueType{domain.IssueTypePaymentGateway},
		Available: true,
	}
	for i := 0; i < history; i++ {
		agent.History = append(agent.History, domain.WorkHistoryEntry{})
	}
	return agent
}

func TestPolicyForKind(t *testing.T) {
	policy, err := PolicyForKind(domain.PolicyLeastWorkload)
	require.NoError(t, err)
	assert.Equal(t, string(domain.PolicyLeastWorkload), policy.Name())

	policy, err = PolicyForKind(domain.PolicyRoundRobin)
	require.NoError(t, err)
	assert.Equal(t, string(domain.PolicyRoundRobin), policy.Name())

	_, err = PolicyForKind("FANCY")
	assert.Error(t, err)
}

func TestLeastWorkloadPicksFewestResolved(t *testing.T) {
	policy := NewLeastWorkloadPolicy()
	a := testAgent("a", 2)
	b := testAgent("b", 0)
	free := []*domain.Agent{a, b}

	picked := policy.SelectAgent(domain.IssueTypePaymentGateway, free, free)
	assert.Equal(t, "b", picked.ID)
}

func TestLeastWorkloadTieBreaksByRegistrationOrder(t *testing.T) {
	policy := NewLeastWorkloadPolicy()
	a := testAgent("a", 1)
	b := testAgent("b", 1)
	c := testAgent("c", 1)
	free := []*domain.Agent{a, b, c}

	// Deterministic: same input, same pick, every time.
	for i := 0; i < 3; i++ {
		picked := policy.SelectAgent(domain.IssueTypePaymentGateway, free, free)
		assert.Equal(t, "a", picked.ID)
	}
}

func TestRoundRobinCyclesThroughRoster(t *testing.T) {
	policy := NewRoundRobinPolicy()
	a := testAgent("a", 0)
	b := testAgent("b", 0)
	c := testAgent("c", 0)
	all := []*domain.Agent{a, b, c}

	var picks []string
	for i := 0; i < 4; i++ {
		picks = append(picks, policy.SelectAgent(domain.IssueTypePaymentGateway, all, all).ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "a"}, picks)
}

func TestRoundRobinSkipsBusyAgents(t *testing.T) {
	policy := NewRoundRobinPolicy()
	a := testAgent("a", 0)
	b := testAgent("b", 0)
	c := testAgent("c", 0)
	all := []*domain.Agent{a, b, c}

	picked := policy.SelectAgent(domain.IssueTypePaymentGateway, all, all)
	assert.Equal(t, "a", picked.ID)

	// b is busy now: the cursor advances past b's slot to c.
	picked = policy.SelectAgent(domain.IssueTypePaymentGateway, []*domain.Agent{a, c}, all)
	assert.Equal(t, "c", picked.ID)

	// Cycling continues from c.
	picked = policy.SelectAgent(domain.IssueTypePaymentGateway, []*domain.Agent{a, b}, all)
	assert.Equal(t, "a", picked.ID)
}

func TestRoundRobinCursorIsPerType(t *testing.T) {
	policy := NewRoundRobinPolicy()
	a := testAgent("a", 0)
	b := testAgent("b", 0)
	all := []*domain.Agent{a, b}

	assert.Equal(t, "a", policy.SelectAgent(domain.IssueTypePaymentGateway, all, all).ID)
	// A different type starts its own rotation.
	assert.Equal(t, "a", policy.SelectAgent(domain.IssueTypeGoldRelated, all, all).ID)
	assert.Equal(t, "b", policy.SelectAgent(domain.IssueTypePaymentGateway, all, all).ID)
}
