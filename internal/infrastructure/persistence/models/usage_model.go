package models

import (
	"time"

	"github.com/childmindresearch/cloai-service/internal/domain/usage"
)

// UsageRecordModel is the GORM database model for LLM invocation usage records
type UsageRecordModel struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	ClientID        string `gorm:"not null;index;type:varchar(255)"`
	Operation       string `gorm:"not null;type:varchar(20)"`
	Provider        string `gorm:"type:varchar(50)"`
	Model           string `gorm:"type:varchar(255)"`
	InputTokens     int64  `gorm:"type:bigint"`
	OutputTokens    int64  `gorm:"type:bigint"`
	DurationMs      int64  `gorm:"type:bigint"`
	Status          string `gorm:"not null;type:varchar(20)"`
	ErrorMessage    string `gorm:"type:text"`
	DateTimeCreated time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (UsageRecordModel) TableName() string {
	return "usage_records"
}

// ToDomain converts GORM model to domain entity
func (m *UsageRecordModel) ToDomain() *usage.Record {
	return &usage.Record{
		ID:              m.ID,
		ClientID:        m.ClientID,
		Operation:       m.Operation,
		Provider:        m.Provider,
		Model:           m.Model,
		InputTokens:     m.InputTokens,
		OutputTokens:    m.OutputTokens,
		DurationMs:      m.DurationMs,
		Status:          m.Status,
		ErrorMessage:    m.ErrorMessage,
		DateTimeCreated: m.DateTimeCreated,
	}
}

// FromDomain converts domain entity to GORM model
func (m *UsageRecordModel) FromDomain(r *usage.Record) {
	m.ID = r.ID
	m.ClientID = r.ClientID
	m.Operation = r.Operation
	m.Provider = r.Provider
	m.Model = r.Model
	m.InputTokens = r.InputTokens
	m.OutputTokens = r.OutputTokens
	m.DurationMs = r.DurationMs
	m.Status = r.Status
	m.ErrorMessage = r.ErrorMessage
	m.DateTimeCreated = r.DateTimeCreated
}
