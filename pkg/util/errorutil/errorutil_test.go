package errorutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicatesMatchCodes(t *testing.T) {
	tests := map[string]struct {
		err   error
		check func(error) bool
	}{
		"validation": {NewValidationError("bad input", nil), IsValidation},
		"not found":  {NewNotFound("issue", nil), IsNotFound},
		"transition": {NewInvalidTransition("not open", nil), IsInvalidTransition},
		"invariant":  {NewInvariantViolation("free agent freed", nil), IsInvariantViolation},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.True(t, tc.check(tc.err))
			assert.False(t, tc.check(errors.New("plain")))
		})
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading issue: %w", NewNotFound("issue", nil))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
}

func TestMapErrorNormalizes(t *testing.T) {
	assert.Nil(t, MapError(nil))

	domainErr := NewValidationError("bad", nil)
	assert.Same(t, domainErr, MapError(domainErr))

	mapped := ToDomainError(errors.New("disk on fire"))
	assert.Equal(t, CodeInternalError, mapped.Code)
	assert.EqualError(t, mapped, "internal error: disk on fire")
}
