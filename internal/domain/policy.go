package domain

import "fmt"

// AssignmentPolicyKind selects the agent-selection strategy at construction
// time. The coordinator holds one policy for its whole lifetime.
type AssignmentPolicyKind string

const (
	PolicyLeastWorkload AssignmentPolicyKind = "LEAST_WORKLOAD"
	PolicyRoundRobin    AssignmentPolicyKind = "ROUND_ROBIN"
)

// ParseAssignmentPolicyKind converts a raw string into a policy kind.
func ParseAssignmentPolicyKind(raw string) (AssignmentPolicyKind, error) {
	switch AssignmentPolicyKind(raw) {
	case PolicyLeastWorkload:
		return PolicyLeastWorkload, nil
	case PolicyRoundRobin:
		return PolicyRoundRobin, nil
	}
	return "", fmt.Errorf("unknown assignment policy %q", raw)
}
