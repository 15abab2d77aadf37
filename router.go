package dynaroute

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Operation enumerates the repository operations a Router can dispatch to.
type Operation int

const (
	OpCreate Operation = iota // create<Resource>
	OpList                    // list<Resource>s
	OpGet                     // get<Resource>ById
	OpDelete                  // deleteBy<Resource>Id

	numOperations
)

// Operations returns every dispatchable operation.
func Operations() []Operation {
	ops := make([]Operation, 0, numOperations)
	for op := Operation(0); op < numOperations; op++ {
		ops = append(ops, op)
	}
	return ops
}

func (op Operation) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpList:
		return "list"
	case OpGet:
		return "get"
	case OpDelete:
		return "delete"
	}
	return "unsupported"
}

// UnsupportedPrefix prefixes the payload returned for unknown operation names.
const UnsupportedPrefix = "unsupported operation-->"

// Result is the outcome of a dispatched envelope. Exactly one of Record,
// Records or Delete is meaningful, depending on the operation; Err keeps
// ErrNotFound apart from store failures.
type Result struct {
	Name        string        // operation name as received
	Operation   Operation     // resolved operation, meaningful when Unsupported is false
	Unsupported bool          // true when Name matched no operation
	Record      Record        // create and get
	Records     []Record      // list
	Delete      *DeleteResult // delete
	Err         error         // ErrNotFound, ErrMissingArgument or a *StoreError
}

// NotFound reports whether the result is a lookup miss.
func (r Result) NotFound() bool { return errors.Is(r.Err, ErrNotFound) }

// Payload returns the value written back to the caller. Missing records and
// store failures collapse to nil for create, get and list; delete always
// returns its DeleteResult; unknown operations return a descriptive string.
func (r Result) Payload() any {
	if r.Unsupported {
		return UnsupportedPrefix + r.Name
	}

	switch r.Operation {
	case OpCreate, OpGet:
		if r.Record == nil {
			return nil
		}
		return r.Record
	case OpList:
		if r.Records == nil {
			return nil
		}
		return r.Records
	case OpDelete:
		if r.Delete == nil {
			return nil
		}
		return *r.Delete
	}
	return nil
}

type handler func(r *Router, ctx context.Context, args Arguments) Result

// handlers is indexed by Operation; every operation must have an entry.
var handlers = [numOperations]handler{
	OpCreate: (*Router).create,
	OpList:   (*Router).list,
	OpGet:    (*Router).get,
	OpDelete: (*Router).delete,
}

// RouterOptions contains configuration options for a Router.
type RouterOptions struct {
	Logger logrus.FieldLogger // Request logger. Default is the logrus standard logger.
}

// Router maps operation names of one domain onto its Repository. It is
// stateless between calls and safe for concurrent use.
type Router struct {
	repo   *Repository
	domain Domain
	names  map[string]Operation
	log    logrus.FieldLogger
}

// NewRouter creates a Router dispatching to repo using the operation names of
// the repository's domain.
func NewRouter(repo *Repository, opts ...func(*RouterOptions)) *Router {
	options := RouterOptions{Logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&options)
	}

	domain := repo.Domain()
	names := make(map[string]Operation, numOperations)
	for _, op := range Operations() {
		names[domain.OperationName(op)] = op
	}

	return &Router{
		repo:   repo,
		domain: domain,
		names:  names,
		log:    options.Logger.WithField("domain", domain.Name),
	}
}

// Domain returns the domain the router serves.
func (r *Router) Domain() Domain { return r.domain }

// Resolve returns the operation selected by name.
func (r *Router) Resolve(name string) (Operation, bool) {
	op, ok := r.names[name]
	return op, ok
}

// Dispatch runs the operation named by env and returns its result. Dispatch
// never fails: store errors are carried in the Result, and an unknown name
// yields an Unsupported result without touching the store.
func (r *Router) Dispatch(ctx context.Context, env Envelope) Result {
	log := r.log.WithField("operation", env.Operation)

	op, ok := r.Resolve(env.Operation)
	if !ok {
		log.Warn("unsupported operation")
		return Result{Name: env.Operation, Unsupported: true}
	}

	log.WithField("arguments", env.Arguments).Debug("dispatching request")

	result := handlers[op](r, ctx, env.Arguments)
	result.Name = env.Operation
	result.Operation = op
	return result
}

func (r *Router) create(ctx context.Context, args Arguments) Result {
	rec, err := r.repo.Create(ctx, args.Record(r.domain.RecordArgument()))
	return Result{Record: rec, Err: err}
}

func (r *Router) list(ctx context.Context, _ Arguments) Result {
	records, err := r.repo.ListAll(ctx)
	return Result{Records: records, Err: err}
}

func (r *Router) get(ctx context.Context, args Arguments) Result {
	rec, err := r.repo.GetByID(ctx, args.String(r.domain.IDArgument()))
	return Result{Record: rec, Err: err}
}

func (r *Router) delete(ctx context.Context, args Arguments) Result {
	res, err := r.repo.DeleteByID(ctx, args.String(r.domain.IDArgument()))
	return Result{Delete: &res, Err: err}
}
