//go:build integration
// +build integration

package persistence

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/childmindresearch/cloai-service/internal/domain/usage"
	"github.com/childmindresearch/cloai-service/internal/infrastructure/persistence/models"
	"github.com/childmindresearch/cloai-service/internal/pkg/config"
	"github.com/childmindresearch/cloai-service/internal/pkg/testutil"
)

// Test constants
const (
	TestClientID = "test-client"
	TestModel    = "gpt-4o"
)

// TestContext holds test database and repositories
type TestContext struct {
	DB        *gorm.DB
	UsageRepo usage.Repository
}

// SetupTestDB initializes a test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	cleanup := func() {}

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type: config.PostgresDbType,
			DSN:  "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			Name: uniqueDBName,
		}
		cleanup = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.UsageRecordModel{}))

	repo, err := NewGormUsageRepository(db, testutil.NewNoopLogger())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanup()
	})

	return &TestContext{
		DB:        db,
		UsageRepo: repo,
	}
}

// CreateTestRecord builds a valid usage record for tests
func CreateTestRecord(t *testing.T, operation, status string) *usage.Record {
	t.Helper()

	return &usage.Record{
		ID:              uuid.NewString(),
		ClientID:        TestClientID,
		Operation:       operation,
		Provider:        "OpenAI",
		Model:           TestModel,
		InputTokens:     128,
		OutputTokens:    64,
		DurationMs:      1200,
		Status:          status,
		DateTimeCreated: time.Now().UTC(),
	}
}
