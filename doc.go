// Package dynaroute provides a resolver-style request router over per-domain
// document collections, with a DynamoDB store built on the AWS SDK for Go v2.
//
// # Key Concepts
//
// A Router receives an Envelope carrying an operation name and an argument
// bag, resolves the name against the fixed operation table of its Domain,
// and calls exactly one Repository method. The Repository translates the
// call into a single request against a Store collection.
//
// Each domain serves four operations:
//
//	| Operation            | Repository method | Argument     |
//	| ==================== | ================= | ============ |
//	| create<Resource>     | Create            | <resource>   |
//	| list<Resource>s      | ListAll           | (none)       |
//	| get<Resource>ById    | GetByID           | <resource>Id |
//	| deleteBy<Resource>Id | DeleteByID        | <resource>Id |
//
// Records are schemaless maps keyed by their "id" attribute. Create assigns
// a random identifier when the record has none; a record with an existing
// identifier replaces the stored one.
//
// # Basic Usage
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := dynaroute.NewDynamoStore(dynamodb.NewFromConfig(cfg))
//	repo := dynaroute.NewRepository(store, dynaroute.Dealer, os.Getenv("DEALER_TABLE"))
//	router := dynaroute.NewRouter(repo)
//
//	result := router.Dispatch(ctx, dynaroute.Envelope{
//	    Operation: "getDealerById",
//	    Arguments: dynaroute.Arguments{"dealerId": "D1"},
//	})
//	if result.NotFound() {
//	    // ...
//	}
//	payload := result.Payload()
//
// Other backends (memory, SQLite, Postgres, MongoDB, Redis) live in package
// docstore, and package appsync adapts AppSync Lambda resolver events to
// Envelopes.
//
// # Errors
//
// Store implementations wrap ErrNotFound for lookup misses and return a
// *StoreError for backend failures. Result keeps the two apart; its Payload
// collapses both to nil, the shape resolver clients expect.
//
// Unknown operation names are not errors: Payload returns
// "unsupported operation-->" followed by the name.
package dynaroute
