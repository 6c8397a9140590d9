package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

func TestCreateIssueValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewIssueService(repository.NewIssueRepository(), nil, nil)

	tests := map[string]IssueCreateInput{
		"unknown type": {Type: "BROKEN", Subject: "s", ReporterEmail: "a@b.c"},
		"no subject":   {Type: domain.IssueTypeMutualFund, Subject: "   ", ReporterEmail: "a@b.c"},
		"bad email":    {Type: domain.IssueTypeMutualFund, Subject: "s", ReporterEmail: "not-an-email"},
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateIssue(ctx, input)
			assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestCreateIssueNormalizesAndPublishes(t *testing.T) {
	ctx := context.Background()
	dispatcher := events.NewInMemoryDispatcher()
	var published []events.Event
	dispatcher.Subscribe(events.EventIssueCreated, func(_ context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	})
	svc := NewIssueService(repository.NewIssueRepository(), dispatcher, nil)

	issue, err := svc.CreateIssue(ctx, IssueCreateInput{
		TransactionID: " TXN-9 ",
		Type:          domain.IssueTypeAccountAccess,
		Subject:       "  Locked out  ",
		ReporterEmail: "Priya@Example.COM",
	})
	require.NoError(t, err)
	assert.Equal(t, "TXN-9", issue.TransactionID)
	assert.Equal(t, "Locked out", issue.Subject)
	assert.Equal(t, "priya@example.com", issue.ReporterEmail)

	require.Len(t, published, 1)
	assert.Equal(t, issue.ID, published[0].IssueID)
}

func TestGetIssueNotFound(t *testing.T) {
	svc := NewIssueService(repository.NewIssueRepository(), nil, nil)
	_, err := svc.GetIssue(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))
}
