//go:build unit
// +build unit

package usage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *Record {
	return &Record{
		ID:              uuid.NewString(),
		ClientID:        "my-client",
		Operation:       OperationRun,
		Provider:        "OpenAI",
		Model:           "gpt-4o",
		InputTokens:     128,
		OutputTokens:    64,
		DurationMs:      1200,
		Status:          StatusSuccess,
		DateTimeCreated: time.Now().UTC(),
	}
}

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Record)
		shouldErr bool
	}{
		{"Valid", func(r *Record) {}, false},
		{"Valid error record", func(r *Record) {
			r.Status = StatusError
			r.ErrorMessage = "rate limited"
		}, false},
		{"Missing ID", func(r *Record) { r.ID = "" }, true},
		{"Non-UUID ID", func(r *Record) { r.ID = "not-a-uuid" }, true},
		{"Missing client ID", func(r *Record) { r.ClientID = "" }, true},
		{"Unknown operation", func(r *Record) { r.Operation = "summarize" }, true},
		{"Unknown status", func(r *Record) { r.Status = "maybe" }, true},
		{"Negative tokens", func(r *Record) { r.InputTokens = -1 }, true},
		{"Missing creation time", func(r *Record) { r.DateTimeCreated = time.Time{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			tt.mutate(record)

			err := record.Validate()
			if tt.shouldErr {
				require.Error(t, err, "expected validation error")
			} else {
				require.NoError(t, err, "expected no validation error")
			}
		})
	}
}

func TestNewQuery_Defaults(t *testing.T) {
	query := NewQuery()

	assert.Equal(t, 100, query.Limit)
	assert.Equal(t, 0, query.Offset)
	assert.Equal(t, "date_time_created", query.SortBy)
	assert.Equal(t, "desc", query.SortOrder)
	require.NoError(t, query.Validate())
}

func TestQuery_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Query)
		shouldErr bool
	}{
		{"Defaults", func(q *Query) {}, false},
		{"Filter by operation", func(q *Query) { q.Operation = OperationCov }, false},
		{"Filter by status", func(q *Query) { q.Status = StatusError }, false},
		{"Unknown operation", func(q *Query) { q.Operation = "summarize" }, true},
		{"Unknown sort field", func(q *Query) { q.SortBy = "bogus" }, true},
		{"Unknown sort order", func(q *Query) { q.SortOrder = "sideways" }, true},
		{"Limit too large", func(q *Query) { q.Limit = 10000 }, true},
		{"Negative offset", func(q *Query) { q.Offset = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := NewQuery()
			tt.mutate(query)

			err := query.Validate()
			if tt.shouldErr {
				require.Error(t, err, "expected validation error")
			} else {
				require.NoError(t, err, "expected no validation error")
			}
		})
	}
}
