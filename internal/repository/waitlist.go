package repository

import (
	"sync"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Waitlist keeps one FIFO queue of issue IDs per issue type. Issues sit
// here while OPEN and unassigned; an issue is queued at most once.
type Waitlist struct {
	mu     sync.Mutex
	queues map[domain.IssueType][]string
	queued map[string]domain.IssueType
}

// NewWaitlist creates an empty waitlist.
func NewWaitlist() *Waitlist {
	return &Waitlist{
		queues: make(map[domain.IssueType][]string),
		queued: make(map[string]domain.IssueType),
	}
}

// Push appends the issue to its type's queue. Pushing an already-queued
// issue is a no-op and reports false.
func (w *Waitlist) Push(issueType domain.IssueType, issueID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.queued[issueID]; exists {
		return false
	}
	w.queues[issueType] = append(w.queues[issueType], issueID)
	w.queued[issueID] = issueType
	return true
}

// Pop removes and returns the head of the type's queue.
func (w *Waitlist) Pop(issueType domain.IssueType) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	queue := w.queues[issueType]
	if len(queue) == 0 {
		return "", false
	}
	issueID := queue[0]
	w.queues[issueType] = queue[1:]
	delete(w.queued, issueID)
	return issueID, true
}

// Remove drops the issue from whichever queue holds it.
func (w *Waitlist) Remove(issueID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	issueType, exists := w.queued[issueID]
	if !exists {
		return false
	}
	queue := w.queues[issueType]
	for i, id := range queue {
		if id == issueID {
			w.queues[issueType] = append(queue[:i], queue[i+1:]...)
			break
		}
	}
	delete(w.queued, issueID)
	return true
}

// Contains reports whether the issue sits in any queue.
func (w *Waitlist) Contains(issueID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, exists := w.queued[issueID]
	return exists
}

// Len returns the depth of the type's queue.
func (w *Waitlist) Len(issueType domain.IssueType) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queues[issueType])
}
