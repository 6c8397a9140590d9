package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
)

func TestWaitlistFIFO(t *testing.T) {
	w := NewWaitlist()

	assert.True(t, w.Push(domain.IssueTypePaymentGateway, "i1"))
	assert.True(t, w.Push(domain.IssueTypePaymentGateway, "i2"))
	assert.True(t, w.Push(domain.IssueTypePaymentGateway, "i3"))
	assert.Equal(t, 3, w.Len(domain.IssueTypePaymentGateway))

	id, ok := w.Pop(domain.IssueTypePaymentGateway)
	require.True(t, ok)
	assert.Equal(t, "i1", id)
	id, ok = w.Pop(domain.IssueTypePaymentGateway)
	require.True(t, ok)
	assert.Equal(t, "i2", id)
	id, ok = w.Pop(domain.IssueTypePaymentGateway)
	require.True(t, ok)
	assert.Equal(t, "i3", id)

	_, ok = w.Pop(domain.IssueTypePaymentGateway)
	assert.False(t, ok)
}

func TestWaitlistQueuesAreIndependent(t *testing.T) {
	w := NewWaitlist()
	w.Push(domain.IssueTypePaymentGateway, "p1")
	w.Push(domain.IssueTypeGoldRelated, "g1")

	_, ok := w.Pop(domain.IssueTypeMutualFund)
	assert.False(t, ok)

	id, ok := w.Pop(domain.IssueTypeGoldRelated)
	require.True(t, ok)
	assert.Equal(t, "g1", id)
	assert.Equal(t, 1, w.Len(domain.IssueTypePaymentGateway))
}

func TestWaitlistRejectsDuplicates(t *testing.T) {
	w := NewWaitlist()
	assert.True(t, w.Push(domain.IssueTypePaymentGateway, "i1"))
	assert.False(t, w.Push(domain.IssueTypePaymentGateway, "i1"))
	assert.False(t, w.Push(domain.IssueTypeGoldRelated, "i1"), "an issue may sit in at most one queue")
	assert.Equal(t, 1, w.Len(domain.IssueTypePaymentGateway))
}

func TestWaitlistRemove(t *testing.T) {
	w := NewWaitlist()
	w.Push(domain.IssueTypePaymentGateway, "i1")
	w.Push(domain.IssueTypePaymentGateway, "i2")

	assert.True(t, w.Contains("i1"))
	assert.True(t, w.Remove("i1"))
	assert.False(t, w.Contains("i1"))
	assert.False(t, w.Remove("i1"))

	id, ok := w.Pop(domain.IssueTypePaymentGateway)
	require.True(t, ok)
	assert.Equal(t, "i2", id)
}
