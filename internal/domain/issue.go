package domain

import (
	"fmt"
	"time"
)

// IssueStatus enumerates lifecycle states for issues.
type IssueStatus string

const (
	IssueStatusOpen     IssueStatus = "OPEN"
	IssueStatusAssigned IssueStatus = "ASSIGNED"
	IssueStatusResolved IssueStatus = "RESOLVED"
)

// Valid reports whether the status is a known lifecycle state.
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusOpen, IssueStatusAssigned, IssueStatusResolved:
		return true
	}
	return false
}

// IssueType enumerates supported issue categories. Adding a category means
// adding a constant here and to issueTypes below.
type IssueType string

const (
	IssueTypePaymentGateway IssueType = "PAYMENT_GATEWAY"
	IssueTypeMutualFund     IssueType = "MUTUAL_FUND"
	IssueTypeGoldRelated    IssueType = "GOLD_RELATED"
	IssueTypeInsuranceClaim IssueType = "INSURANCE_CLAIM"
	IssueTypeAccountAccess  IssueType = "ACCOUNT_ACCESS"
)

var issueTypes = []IssueType{
	IssueTypePaymentGateway,
	IssueTypeMutualFund,
	IssueTypeGoldRelated,
	IssueTypeInsuranceClaim,
	IssueTypeAccountAccess,
}

// IssueTypes returns all supported categories in declaration order.
func IssueTypes() []IssueType {
	out := make([]IssueType, len(issueTypes))
	copy(out, issueTypes)
	return out
}

// Valid reports whether the type is a known category.
func (t IssueType) Valid() bool {
	for _, known := range issueTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseIssueType converts a raw string into an IssueType.
func ParseIssueType(raw string) (IssueType, error) {
	t := IssueType(raw)
	if !t.Valid() {
		return "", fmt.Errorf("unknown issue type %q", raw)
	}
	return t, nil
}

// Issue is the aggregate for customer-reported problems.
type Issue struct {
	ID            string
	TransactionID string
	Type          IssueType
	Subject       string
	Description   string
	ReporterEmail string
	Status        IssueStatus
	AssigneeID    *string
	Resolution    *string
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}
