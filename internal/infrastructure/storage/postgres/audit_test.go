package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditDiff(t *testing.T) {
	oldState := map[string]any{
		"status":      "CREATED",
		"total_price": "19.99",
		"number":      "SO-000001",
	}
	newState := map[string]any{
		"status":      "COMPLETED",
		"total_price": "19.99",
		"completed":   true,
	}

	changes := AuditDiff(oldState, newState)

	assert.Equal(t, map[string]any{"old": "CREATED", "new": "COMPLETED"}, changes["status"])
	assert.Equal(t, map[string]any{"old": nil, "new": true}, changes["completed"])
	assert.Equal(t, map[string]any{"old": "SO-000001", "new": nil}, changes["number"])
	assert.NotContains(t, changes, "total_price")
}

func TestAuditDiff_NoChanges(t *testing.T) {
	state := map[string]any{"status": "CREATED", "version": 1}

	changes := AuditDiff(state, map[string]any{"status": "CREATED", "version": 1})
	assert.Empty(t, changes)
}
