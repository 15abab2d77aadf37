// Package dynamock provides testing utilities for the dynaroute library.
//
// This package includes:
//   - Expectation-based mock DynamoDB client for unit testing
//   - Stateful in-memory fake DynamoDB client
//   - Local DynamoDB integration utilities
//   - Record builders with functional options
//   - Test data seeding helpers
//   - Integration test utilities with automatic cleanup
//
// # Mock Client
//
// The MockClient provides an expectation-based mock implementation where you set
// expectations for specific operations. Calls without an expectation fail the test:
//
//	mock := dynamock.NewMockClient(t)
//
//	mock.GetFunc = func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
//		return nil, errors.New("throttled")
//	}
//
//	store := dynaroute.NewDynamoStore(mock)
//	_, err := store.Get(ctx, "dealers", "D1") // *dynaroute.StoreError
//
// # Fake Client
//
// The FakeClient keeps items in memory and counts calls, which makes it the
// usual backend for router and repository tests:
//
//	fake := dynamock.NewFakeClient()
//	fake.PageSize = 2 // force multi-page scans
//
//	store := dynaroute.NewDynamoStore(fake)
//	// ... exercise the store
//	fake.Calls("Scan") // number of scan pages read
//
// # Record Builders
//
//	dealer := dynamock.NewDealer("D1", "Acme", dynamock.WithAttribute("name", "Downtown"))
//
//	rec := dynamock.NewRecord(
//		dynamock.WithID("P1"),
//		dynamock.WithSecondaryKey(dynaroute.Product, "tools"),
//	).Build()
//
// # Local DynamoDB
//
// For integration testing, the package provides utilities to work with
// local DynamoDB instances:
//
//	local := dynamock.NewLocalDynamoDB(8000)
//	if local.IsAvailable(ctx) {
//		err := local.CreateCollectionTable(ctx, "dealers", dynaroute.Dealer)
//		// ... run tests
//		err = local.DeleteTable(ctx, "dealers")
//	}
//
// # Integration Test Helpers
//
//	// Isolated table that's automatically cleaned up
//	dynamock.WithIsolatedTable(t, client, dynaroute.Dealer, func(tableName string) {
//		// Your test code here
//	})
//
//	// Full integration test runner
//	dynamock.RunIntegrationTest(t, nil, dynaroute.Product, func(local *dynamock.LocalDynamoDB, tableName string) {
//		// Your integration test code here
//	})
//
// # Test Data Seeding
//
//	seeder := dynamock.NewSeedTestData(store, "dealers")
//	err := seeder.SeedRecords(ctx, dealer1, dealer2)
//
//	// Seed from a JSON:API document
//	count, err := seeder.SeedFromJSON(ctx, strings.NewReader(`[
//		{"type": "dealer", "id": "D1", "attributes": {"brand": "Acme"}}
//	]`))
package dynamock
