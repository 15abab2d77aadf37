package appsync_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/nisimpson/dynaroute"
	"github.com/nisimpson/dynaroute/appsync"
	"github.com/nisimpson/dynaroute/docstore"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const createDealerEvent = `{
	"info": {"fieldName": "createDealer", "parentTypeName": "Mutation"},
	"arguments": {"dealer": {"id": "D1", "brand": "Acme", "name": "Downtown"}},
	"identity": {"username": "alice", "claims": {"cognito:groups": ["admin"]}}
}`

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newDealerHandler(store dynaroute.Store) appsync.Handler {
	logger := quietLogger()
	repo := dynaroute.NewRepository(store, dynaroute.Dealer, "dealers",
		func(o *dynaroute.RepositoryOptions) { o.Logger = logger })
	router := dynaroute.NewRouter(repo, func(o *dynaroute.RouterOptions) { o.Logger = logger })
	return appsync.NewHandler(router, func(o *appsync.HandlerOptions) { o.Logger = logger })
}

func invoke(t *testing.T, h appsync.Handler, field string, args map[string]any) any {
	t.Helper()
	out, err := h(context.Background(), appsync.Event{
		Info:      appsync.Info{FieldName: field},
		Arguments: args,
	})
	require.NoError(t, err)
	return out
}

func TestEventToEnvelope(t *testing.T) {
	var event appsync.Event
	require.NoError(t, json.Unmarshal([]byte(createDealerEvent), &event))

	env := event.ToEnvelope()
	assert.Equal(t, "createDealer", env.Operation)
	assert.Equal(t, "Acme", env.Arguments.Record("dealer").String("brand"))
	require.NotNil(t, env.Identity)
	assert.Equal(t, "alice", env.Identity.Username)
	assert.Contains(t, env.Identity.Claims, "cognito:groups")
}

func TestEventToEnvelope_Empty(t *testing.T) {
	env := appsync.Event{Info: appsync.Info{FieldName: "listDealers"}}.ToEnvelope()
	assert.NotNil(t, env.Arguments)
	assert.Nil(t, env.Identity)
}

func TestHandler_Lifecycle(t *testing.T) {
	h := newDealerHandler(docstore.NewMemory())

	var event appsync.Event
	require.NoError(t, json.Unmarshal([]byte(createDealerEvent), &event))
	created, err := h(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "D1", created.(dynaroute.Record).ID())

	listed := invoke(t, h, "listDealers", nil)
	require.IsType(t, []dynaroute.Record{}, listed)
	assert.Len(t, listed.([]dynaroute.Record), 1)

	got := invoke(t, h, "getDealerById", map[string]any{"dealerId": "D1"})
	assert.Equal(t, "Downtown", got.(dynaroute.Record).String("name"))

	deleted := invoke(t, h, "deleteByDealerId", map[string]any{"dealerId": "D1"})
	assert.Equal(t, dynaroute.DeleteResult{Success: true, Message: "Item with id D1 deleted successfully"}, deleted)

	assert.Nil(t, invoke(t, h, "getDealerById", map[string]any{"dealerId": "D1"}))
}

func TestHandler_Unsupported(t *testing.T) {
	h := newDealerHandler(docstore.NewMemory())
	assert.Equal(t, "unsupported operation-->createProduct", invoke(t, h, "createProduct", nil))
}

type stubDispatcher struct {
	result dynaroute.Result
	got    dynaroute.Envelope
}

func (s *stubDispatcher) Dispatch(_ context.Context, env dynaroute.Envelope) dynaroute.Result {
	s.got = env
	return s.result
}

func TestHandler_StoreFailureResolvesToNull(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	stub := &stubDispatcher{result: dynaroute.Result{
		Name:      "getDealerById",
		Operation: dynaroute.OpGet,
		Err:       &dynaroute.StoreError{Op: dynaroute.StoreGet, Collection: "dealers", Key: "D1", Err: errors.New("throttled")},
	}}
	h := appsync.NewHandler(stub, func(o *appsync.HandlerOptions) { o.Logger = logger })

	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-1"})
	out, err := h(ctx, appsync.Event{
		Info:      appsync.Info{FieldName: "getDealerById", ParentTypeName: "Query"},
		Arguments: map[string]any{"dealerId": "D1"},
	})

	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, "D1", stub.got.Arguments.String("dealerId"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "req-1", entry.Data["requestId"])
	assert.Equal(t, "getDealerById", entry.Data["field"])
}

func TestHandler_NotFoundIsNotLogged(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	stub := &stubDispatcher{result: dynaroute.Result{
		Operation: dynaroute.OpGet,
		Err:       dynaroute.ErrNotFound,
	}}
	h := appsync.NewHandler(stub, func(o *appsync.HandlerOptions) { o.Logger = logger })

	out, err := h(context.Background(), appsync.Event{Info: appsync.Info{FieldName: "getDealerById"}})
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Empty(t, hook.AllEntries())
}
