package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/worker"
)

// deskd wires the assignment core and walks through a scripted scenario:
// assignment by policy, waitlisting when everyone is busy, and the drain
// that pulls a waitlisted issue when its agent frees up.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("policy", string(cfg.Assignment.Policy)))

	policy, err := service.PolicyForKind(cfg.Assignment.Policy)
	if err != nil {
		logger.Fatal("failed to build policy", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	agentRepo := repository.NewAgentRepository()
	issueRepo := repository.NewIssueRepository()
	waitlist := repository.NewWaitlist()

	agentService := service.NewAgentService(agentRepo, logger)
	issueService := service.NewIssueService(issueRepo, dispatcher, logger)
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		IssueRepo:  issueRepo,
		AgentRepo:  agentRepo,
		Waitlist:   waitlist,
		Policy:     policy,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	ctx := context.Background()

	agents := []struct {
		name      string
		email     string
		expertise []domain.IssueType
	}{
		{"Asha Rao", "asha@support.example.com", []domain.IssueType{domain.IssueTypePaymentGateway, domain.IssueTypeAccountAccess}},
		{"Ben Okafor", "ben@support.example.com", []domain.IssueType{domain.IssueTypePaymentGateway}},
		{"Carla Diaz", "carla@support.example.com", []domain.IssueType{domain.IssueTypeGoldRelated, domain.IssueTypeMutualFund}},
	}
	for _, a := range agents {
		if _, err := agentService.RegisterAgent(ctx, a.name, a.email, a.expertise); err != nil {
			logger.Fatal("failed to register agent", zap.Error(err))
		}
	}

	issues := []service.IssueCreateInput{
		{TransactionID: "T1", Type: domain.IssueTypePaymentGateway, Subject: "Payment failed", Description: "UPI debit without credit", ReporterEmail: "priya@example.com"},
		{TransactionID: "T2", Type: domain.IssueTypePaymentGateway, Subject: "Double charge", Description: "Charged twice for one order", ReporterEmail: "amit@example.com"},
		{TransactionID: "T3", Type: domain.IssueTypePaymentGateway, Subject: "Refund stuck", Description: "Refund pending ten days", ReporterEmail: "priya@example.com"},
		{TransactionID: "T4", Type: domain.IssueTypeGoldRelated, Subject: "Gold sale not settled", Description: "Sale proceeds missing", ReporterEmail: "noor@example.com"},
	}
	var issueIDs []string
	for _, input := range issues {
		issue, err := issueService.CreateIssue(ctx, input)
		if err != nil {
			logger.Fatal("failed to create issue", zap.Error(err))
		}
		issueIDs = append(issueIDs, issue.ID)
	}

	// Two payment agents, three payment issues: the third lands on the
	// waitlist.
	for _, id := range issueIDs {
		result, err := assignmentService.AssignIssue(ctx, id)
		if err != nil {
			logger.Fatal("failed to assign issue", zap.Error(err))
		}
		logger.Info("assignment result",
			zap.String("issue_id", result.IssueID),
			zap.String("outcome", string(result.Outcome)))
	}

	// Resolving the first payment issue frees its agent, who immediately
	// absorbs the waitlisted one.
	first, err := issueService.GetIssue(ctx, issueIDs[0])
	if err != nil {
		logger.Fatal("failed to load issue", zap.Error(err))
	}
	if _, err := assignmentService.ResolveIssue(ctx, first.ID, "Reversed the failed debit"); err != nil {
		logger.Fatal("failed to resolve issue", zap.Error(err))
	}

	statusAssigned := domain.IssueStatusAssigned
	assigned, err := issueService.ListIssues(ctx, repository.IssueFilter{Status: &statusAssigned})
	if err != nil {
		logger.Fatal("failed to list issues", zap.Error(err))
	}
	for _, issue := range assigned {
		logger.Info("still assigned",
			zap.String("issue_id", issue.ID),
			zap.String("subject", issue.Subject),
			zap.Stringp("agent_id", issue.AssigneeID))
	}

	roster, err := agentService.ListAgents(ctx)
	if err != nil {
		logger.Fatal("failed to list agents", zap.Error(err))
	}
	for _, agent := range roster {
		history, err := agentService.WorkHistory(ctx, agent.ID)
		if err != nil {
			logger.Fatal("failed to load history", zap.Error(err))
		}
		logger.Info("agent summary",
			zap.String("agent", agent.Name),
			zap.Bool("available", agent.Available),
			zap.Int("resolved", len(history)))
	}

	logger.Info("metrics", zap.Any("counters", metrics.Snapshot()))
}
