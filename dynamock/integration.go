package dynamock

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/nisimpson/dynaroute"
)

// TableManager manages DynamoDB tables for testing, providing automatic cleanup.
type TableManager struct {
	client *dynamodb.Client
	tables []string // track created tables for cleanup
}

// NewTableManager creates a new table manager with the given DynamoDB client.
func NewTableManager(client *dynamodb.Client) *TableManager {
	return &TableManager{
		client: client,
		tables: make([]string, 0),
	}
}

// CreateTestTable creates a collection table for domain and tracks it for cleanup.
func (tm *TableManager) CreateTestTable(ctx context.Context, tableName string, domain dynaroute.Domain) error {
	local := &LocalDynamoDB{Client: tm.client}

	if err := local.CreateCollectionTable(ctx, tableName, domain); err != nil {
		return err
	}

	tm.tables = append(tm.tables, tableName)
	return nil
}

// Cleanup deletes all tables created by this manager.
func (tm *TableManager) Cleanup(ctx context.Context) error {
	local := &LocalDynamoDB{Client: tm.client}

	for _, tableName := range tm.tables {
		if err := local.DeleteTable(ctx, tableName); err != nil {
			return fmt.Errorf("failed to delete table %s: %w", tableName, err)
		}
	}

	tm.tables = tm.tables[:0]
	return nil
}

// GetTableNames returns the names of all tables managed by this manager.
func (tm *TableManager) GetTableNames() []string {
	names := make([]string, len(tm.tables))
	copy(names, tm.tables)
	return names
}

// NewTestTable generates a unique table name for testing. Characters DynamoDB
// rejects in table names are replaced with dashes.
func NewTestTable(prefix string) string {
	name := fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '-', r == '.':
			return r
		}
		return '-'
	}, name)
}

// WithIsolatedTable runs a test function with an isolated collection table
// that is automatically cleaned up.
func WithIsolatedTable(t *testing.T, client *dynamodb.Client, domain dynaroute.Domain, fn func(tableName string)) {
	ctx := context.Background()
	tableName := NewTestTable("test-" + t.Name())

	tm := NewTableManager(client)

	// Ensure cleanup happens even if test panics
	defer func() {
		if err := tm.Cleanup(ctx); err != nil {
			t.Errorf("Failed to cleanup table %s: %v", tableName, err)
		}
	}()

	if err := tm.CreateTestTable(ctx, tableName, domain); err != nil {
		t.Fatalf("Failed to create test table %s: %v", tableName, err)
	}

	fn(tableName)
}

// WithLocalDynamoDB runs a test function with a local DynamoDB instance.
// It checks if DynamoDB Local is available and skips the test if not.
func WithLocalDynamoDB(t *testing.T, port int, fn func(local *LocalDynamoDB)) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	local := NewLocalDynamoDB(port)
	if !local.IsAvailable(context.Background()) {
		t.Skipf("DynamoDB Local not available on port %d", port)
	}

	fn(local)
}

// SeedTestData is a helper for seeding records into a collection.
type SeedTestData struct {
	store      dynaroute.Store
	collection string
}

// NewSeedTestData creates a new test data seeder writing through store.
func NewSeedTestData(store dynaroute.Store, collection string) *SeedTestData {
	return &SeedTestData{
		store:      store,
		collection: collection,
	}
}

// SeedRecord seeds a single record into the collection.
func (s *SeedTestData) SeedRecord(ctx context.Context, rec dynaroute.Record) error {
	if err := s.store.Put(ctx, s.collection, rec); err != nil {
		return fmt.Errorf("failed to put record %s: %w", rec.ID(), err)
	}
	return nil
}

// SeedRecords seeds multiple records into the collection.
func (s *SeedTestData) SeedRecords(ctx context.Context, records ...dynaroute.Record) error {
	for _, rec := range records {
		if err := s.SeedRecord(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// IntegrationTestConfig holds configuration for integration tests.
type IntegrationTestConfig struct {
	Port             int
	SkipIfNotRunning bool
	TablePrefix      string
	CleanupTimeout   time.Duration
}

// DefaultIntegrationTestConfig returns a default configuration for integration tests.
func DefaultIntegrationTestConfig() *IntegrationTestConfig {
	return &IntegrationTestConfig{
		Port:             DefaultLocalPort,
		SkipIfNotRunning: true,
		TablePrefix:      "integration-test",
		CleanupTimeout:   30 * time.Second,
	}
}

// RunIntegrationTest creates a fresh collection table for domain on DynamoDB
// Local, runs fn, and deletes the table afterwards.
func RunIntegrationTest(t *testing.T, config *IntegrationTestConfig, domain dynaroute.Domain, fn func(local *LocalDynamoDB, tableName string)) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	if config == nil {
		config = DefaultIntegrationTestConfig()
	}

	local := NewLocalDynamoDB(config.Port)
	ctx := context.Background()

	if !local.IsAvailable(ctx) {
		if config.SkipIfNotRunning {
			t.Skipf("DynamoDB Local not available on port %d", config.Port)
		} else {
			t.Fatalf("DynamoDB Local not available on port %d", config.Port)
		}
	}

	tableName := NewTestTable(config.TablePrefix + "-" + domain.Name)

	if err := local.CreateCollectionTable(ctx, tableName, domain); err != nil {
		t.Fatalf("Failed to create test table %s: %v", tableName, err)
	}

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), config.CleanupTimeout)
		defer cancel()

		if err := local.DeleteTable(cleanupCtx, tableName); err != nil {
			t.Errorf("Failed to cleanup table %s: %v", tableName, err)
		}
	}()

	fn(local, tableName)
}

// AssertTableExists verifies that a table exists.
func AssertTableExists(t *testing.T, client *dynamodb.Client, tableName string) {
	t.Helper()
	_, err := client.DescribeTable(context.Background(), &dynamodb.DescribeTableInput{
		TableName: &tableName,
	})

	if err != nil {
		t.Errorf("Table %s does not exist: %v", tableName, err)
	}
}

// AssertTableNotExists verifies that a table does not exist.
func AssertTableNotExists(t *testing.T, client *dynamodb.Client, tableName string) {
	t.Helper()
	_, err := client.DescribeTable(context.Background(), &dynamodb.DescribeTableInput{
		TableName: &tableName,
	})

	if err == nil {
		t.Errorf("Table %s should not exist but it does", tableName)
	}
}
