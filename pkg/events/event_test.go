package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	occurredAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	evt := NewBaseEvent("loansim.loan.closed", "loan-001", "Loan", occurredAt)

	require.NotEmpty(t, evt.EventID())
	assert.Equal(t, "loansim.loan.closed", evt.EventType())
	assert.Equal(t, "loan-001", evt.AggregateID())
	assert.Equal(t, "Loan", evt.AggregateType())
	assert.True(t, evt.OccurredAt().Equal(occurredAt))
}

func TestNewBaseEvent_StableIDs(t *testing.T) {
	occurredAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	a := NewBaseEvent("loansim.loan.closed", "loan-001", "Loan", occurredAt)
	b := NewBaseEvent("loansim.loan.closed", "loan-001", "Loan", occurredAt)
	assert.Equal(t, a.EventID(), b.EventID(), "identity must survive a replay")

	c := NewBaseEvent("loansim.loan.closed", "loan-002", "Loan", occurredAt)
	d := NewBaseEvent("loansim.loan.defaulted", "loan-001", "Loan", occurredAt)
	assert.NotEqual(t, a.EventID(), c.EventID())
	assert.NotEqual(t, a.EventID(), d.EventID())
}
