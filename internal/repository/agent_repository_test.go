package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

func TestAgentRegisterValidation(t *testing.T) {
	ctx := context.Background()
	repo := NewAgentRepository()

	tests := map[string]struct {
		name      string
		email     string
		expertise []domain.IssueType
	}{
		"empty name":      {"", "a@desk.test", []domain.IssueType{domain.IssueTypeMutualFund}},
		"empty email":     {"Asha", "", []domain.IssueType{domain.IssueTypeMutualFund}},
		"empty expertise": {"Asha", "a@desk.test", nil},
		"unknown type":    {"Asha", "a@desk.test", []domain.IssueType{"BROKEN"}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Register(ctx, tc.name, tc.email, tc.expertise)
			assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestAgentRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewAgentRepository()

	_, err := repo.Register(ctx, "Asha", "asha@desk.test", []domain.IssueType{domain.IssueTypeMutualFund})
	require.NoError(t, err)

	_, err = repo.Register(ctx, "Other", "ASHA@desk.test", []domain.IssueType{domain.IssueTypeGoldRelated})
	assert.True(t, apperrors.IsValidation(err), "duplicate email must be rejected case-insensitively")
}

func TestFindCandidatesRegistrationOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewAgentRepository()

	a, err := repo.Register(ctx, "A", "a@desk.test", []domain.IssueType{domain.IssueTypePaymentGateway})
	require.NoError(t, err)
	_, err = repo.Register(ctx, "B", "b@desk.test", []domain.IssueType{domain.IssueTypeGoldRelated})
	require.NoError(t, err)
	c, err := repo.Register(ctx, "C", "c@desk.test", []domain.IssueType{domain.IssueTypePaymentGateway, domain.IssueTypeGoldRelated})
	require.NoError(t, err)

	candidates, err := repo.FindCandidates(ctx, domain.IssueTypePaymentGateway)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, a.ID, candidates[0].ID)
	assert.Equal(t, c.ID, candidates[1].ID)

	// Availability does not narrow the candidate set.
	require.NoError(t, repo.MarkBusy(ctx, a.ID, "issue-1"))
	candidates, err = repo.FindCandidates(ctx, domain.IssueTypePaymentGateway)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestMarkBusyMarkFreeInvariants(t *testing.T) {
	ctx := context.Background()
	repo := NewAgentRepository()
	agent, err := repo.Register(ctx, "Asha", "asha@desk.test", []domain.IssueType{domain.IssueTypeMutualFund})
	require.NoError(t, err)

	// Freeing a free agent is a coordinator bug.
	err = repo.MarkFree(ctx, agent.ID)
	assert.True(t, apperrors.IsInvariantViolation(err))

	require.NoError(t, repo.MarkBusy(ctx, agent.ID, "issue-1"))
	got, err := repo.GetByID(ctx, agent.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)
	require.NotNil(t, got.CurrentIssueID)
	assert.Equal(t, "issue-1", *got.CurrentIssueID)

	err = repo.MarkBusy(ctx, agent.ID, "issue-2")
	assert.True(t, apperrors.IsInvariantViolation(err))

	require.NoError(t, repo.MarkFree(ctx, agent.ID))
	got, err = repo.GetByID(ctx, agent.ID)
	require.NoError(t, err)
	assert.True(t, got.Available)
	assert.Nil(t, got.CurrentIssueID)

	err = repo.MarkBusy(ctx, "missing", "issue-1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAppendHistoryIsAppendOnlyCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewAgentRepository()
	agent, err := repo.Register(ctx, "Asha", "asha@desk.test", []domain.IssueType{domain.IssueTypeMutualFund})
	require.NoError(t, err)

	require.NoError(t, repo.AppendHistory(ctx, agent.ID, domain.WorkHistoryEntry{IssueID: "i1", Subject: "first"}))
	require.NoError(t, repo.AppendHistory(ctx, agent.ID, domain.WorkHistoryEntry{IssueID: "i2", Subject: "second"}))

	history, err := repo.History(ctx, agent.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "i1", history[0].IssueID)
	assert.Equal(t, "i2", history[1].IssueID)

	// Mutating the returned slice must not leak into the store.
	history[0].Subject = "tampered"
	fresh, err := repo.History(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", fresh[0].Subject)
}
