package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// IssueService handles issue creation and lookup.
type IssueService struct {
	issues     repository.IssueRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// IssueCreateInput describes issue creation payload.
type IssueCreateInput struct {
	TransactionID string
	Type          domain.IssueType
	Subject       string
	Description   string
	ReporterEmail string
}

// NewIssueService constructs the service.
func NewIssueService(issues repository.IssueRepository, dispatcher events.Dispatcher, logger *zap.Logger) *IssueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IssueService{issues: issues, dispatcher: dispatcher, logger: logger}
}

// CreateIssue registers a new OPEN issue.
func (s *IssueService) CreateIssue(ctx context.Context, input IssueCreateInput) (*domain.Issue, error) {
	if !input.Type.Valid() {
		return nil, apperrors.NewValidationError("unknown issue type", map[string]any{"issue_type": string(input.Type)})
	}
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject required", nil)
	}
	email := strings.ToLower(strings.TrimSpace(input.ReporterEmail))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("valid reporter email required", map[string]any{"email": input.ReporterEmail})
	}

	issue, err := s.issues.Create(ctx, strings.TrimSpace(input.TransactionID), input.Type, subject, input.Description, email)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("issue created",
		zap.String("issue_id", issue.ID),
		zap.String("issue_type", string(issue.Type)))
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventIssueCreated,
			IssueID:   issue.ID,
			Timestamp: time.Now(),
			Payload: events.IssueCreatedPayload{
				IssueType:     issue.Type,
				Subject:       issue.Subject,
				ReporterEmail: issue.ReporterEmail,
			},
		})
	}
	return issue, nil
}

// GetIssue fetches an issue by ID.
func (s *IssueService) GetIssue(ctx context.Context, id string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issue, nil
}

// ListIssues returns issues matching the filter in creation order.
func (s *IssueService) ListIssues(ctx context.Context, filter repository.IssueFilter) ([]*domain.Issue, error) {
	issues, err := s.issues.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}
